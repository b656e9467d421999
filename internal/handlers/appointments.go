package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/scheduling"
)

const apptTimeLayout = "2006-01-02 15:04"

type CreateAppointmentRequest struct {
	PatientID uint    `json:"patient_id" binding:"required"`
	DoctorID  uint    `json:"doctor_id" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Duration  int     `json:"duration_minutes"`
	Reason    *string `json:"reason"`
}

type UpdateAppointmentRequest struct {
	PatientID *uint                     `json:"patient_id"`
	DoctorID  *uint                     `json:"doctor_id"`
	Date      *string                   `json:"date"`
	Duration  *int                      `json:"duration_minutes"`
	Reason    *string                   `json:"reason"`
	Status    *models.AppointmentStatus `json:"status"`
}

func appointmentConflictBody(existing *models.Appointment) gin.H {
	return gin.H{
		"message":                    "Doctor has conflicting appointment",
		"conflicting_appointment_id": existing.ID,
		"conflict_start":             existing.Date.Format(time.RFC3339),
		"conflict_end":               existing.End().Format(time.RFC3339),
	}
}

func ListAppointments(c *gin.Context) {
	query := database.DB.Preload("Patient").Preload("Doctor")

	if raw := c.Query("doctor_id"); raw != "" {
		query = query.Where("doctor_id = ?", raw)
	}
	if raw := c.Query("patient_id"); raw != "" {
		query = query.Where("patient_id = ?", raw)
	}
	if raw := c.Query("status"); raw != "" {
		query = query.Where("status = ?", raw)
	}
	if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidation(c, "Invalid start_date format. Use YYYY-MM-DD")
			return
		}
		query = query.Where("date >= ?", start)
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondValidation(c, "Invalid end_date format. Use YYYY-MM-DD")
			return
		}
		query = query.Where("date < ?", end.AddDate(0, 0, 1))
	}

	var appointments []models.Appointment
	if err := query.Order("date").Find(&appointments).Error; err != nil {
		respondInternal(c, err, "Failed to list appointments")
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func GetAppointment(c *gin.Context) {
	appointmentID, ok := parseID(c, "appointment_id")
	if !ok {
		return
	}

	var appointment models.Appointment
	err := database.DB.Preload("Patient").Preload("Doctor").First(&appointment, appointmentID).Error
	if err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Appointment not found")
			return
		}
		respondInternal(c, err, "Failed to load appointment")
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	date, err := time.Parse(apptTimeLayout, req.Date)
	if err != nil {
		respondValidation(c, "Invalid date format. Use YYYY-MM-DD HH:MM")
		return
	}
	duration := req.Duration
	if duration == 0 {
		duration = 30
	}
	if duration < 0 {
		respondValidation(c, "Duration must be positive")
		return
	}

	var patient models.Patient
	if err := database.DB.First(&patient, req.PatientID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Patient not found")
			return
		}
		respondInternal(c, err, "Failed to load patient")
		return
	}

	appointment := models.Appointment{
		Date:            date,
		DurationMinutes: duration,
		Reason:          req.Reason,
		Status:          models.StatusScheduled,
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
	}

	// Lock, probe and insert in one transaction so two overlapping
	// bookings can never both commit.
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		doctor, err := scheduling.LockDoctor(tx, req.DoctorID)
		if err != nil {
			return err
		}
		if !doctor.IsActive {
			return gorm.ErrRecordNotFound
		}
		existing, err := scheduling.FindConflict(tx, req.DoctorID, date, appointment.End(), 0)
		if err != nil {
			return err
		}
		if existing != nil {
			return &scheduling.ConflictError{Existing: existing}
		}
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "APPOINTMENT_CREATE", "appointment", appointment.ID,
			fmt.Sprintf("Booked doctor %d at %s", req.DoctorID, date.Format(apptTimeLayout)))
	})
	if txErr != nil {
		var conflict *scheduling.ConflictError
		switch {
		case errors.As(txErr, &conflict):
			respondConflict(c, appointmentConflictBody(conflict.Existing))
		case isNotFound(txErr):
			respondNotFound(c, "Doctor not found or inactive")
		default:
			respondInternal(c, txErr, "Failed to create appointment")
		}
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

func UpdateAppointment(c *gin.Context) {
	appointmentID, ok := parseID(c, "appointment_id")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := database.DB.First(&appointment, appointmentID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Appointment not found")
			return
		}
		respondInternal(c, err, "Failed to load appointment")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	slotChanged := false
	if req.PatientID != nil {
		var patient models.Patient
		if err := database.DB.First(&patient, *req.PatientID).Error; err != nil {
			if isNotFound(err) {
				respondNotFound(c, "Patient not found")
				return
			}
			respondInternal(c, err, "Failed to load patient")
			return
		}
		appointment.PatientID = *req.PatientID
	}
	if req.DoctorID != nil {
		appointment.DoctorID = *req.DoctorID
		slotChanged = true
	}
	if req.Date != nil {
		date, err := time.Parse(apptTimeLayout, *req.Date)
		if err != nil {
			respondValidation(c, "Invalid date format. Use YYYY-MM-DD HH:MM")
			return
		}
		appointment.Date = date
		slotChanged = true
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			respondValidation(c, "Duration must be positive")
			return
		}
		appointment.DurationMinutes = *req.Duration
		slotChanged = true
	}
	if req.Reason != nil {
		appointment.Reason = req.Reason
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			respondValidation(c, "Invalid status")
			return
		}
		appointment.Status = *req.Status
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if slotChanged && appointment.Blocking() {
			doctor, err := scheduling.LockDoctor(tx, appointment.DoctorID)
			if err != nil {
				return err
			}
			if !doctor.IsActive {
				return gorm.ErrRecordNotFound
			}
			existing, err := scheduling.FindConflict(tx, appointment.DoctorID,
				appointment.Date, appointment.End(), appointment.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return &scheduling.ConflictError{Existing: existing}
			}
		}
		if err := tx.Save(&appointment).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "APPOINTMENT_UPDATE", "appointment", appointment.ID, "")
	})
	if txErr != nil {
		var conflict *scheduling.ConflictError
		switch {
		case errors.As(txErr, &conflict):
			respondConflict(c, appointmentConflictBody(conflict.Existing))
		case isNotFound(txErr):
			respondNotFound(c, "Doctor not found or inactive")
		default:
			respondInternal(c, txErr, "Failed to update appointment")
		}
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// CancelAppointment flips the status rather than deleting the row; the
// slot is freed for rebooking but the history stays.
func CancelAppointment(c *gin.Context) {
	appointmentID, ok := parseID(c, "appointment_id")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := database.DB.First(&appointment, appointmentID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Appointment not found")
			return
		}
		respondInternal(c, err, "Failed to load appointment")
		return
	}

	appointment.Status = models.StatusCancelled
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&appointment).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "APPOINTMENT_CANCEL", "appointment", appointment.ID, "")
	})
	if err != nil {
		respondInternal(c, err, "Failed to cancel appointment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}
