package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type CreateDoctorRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
}

type UpdateDoctorRequest struct {
	Name      *string `json:"name"`
	Specialty *string `json:"specialty"`
	IsActive  *bool   `json:"is_active"`
}

func ListDoctors(c *gin.Context) {
	query := database.DB.Model(&models.Doctor{})

	// Patients and front desk only see active doctors.
	if middleware.Role(c) != models.RoleAdmin {
		query = query.Where("is_active = ?", true)
	}
	if specialty := c.Query("specialty"); specialty != "" {
		query = query.Where("LOWER(specialty) LIKE ?", "%"+strings.ToLower(specialty)+"%")
	}

	var doctors []models.Doctor
	if err := query.Order("specialty, id").Find(&doctors).Error; err != nil {
		respondInternal(c, err, "Failed to list doctors")
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func GetDoctor(c *gin.Context) {
	doctorID, ok := parseID(c, "doctor_id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := database.DB.First(&doctor, doctorID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Doctor not found")
			return
		}
		respondInternal(c, err, "Failed to load doctor")
		return
	}
	if !doctor.IsActive && middleware.Role(c) != models.RoleAdmin {
		respondNotFound(c, "Doctor not found")
		return
	}
	c.JSON(http.StatusOK, doctor)
}

func CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	doctor := models.Doctor{
		Name:      req.Name,
		Specialty: req.Specialty,
		IsActive:  true,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doctor).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "DOCTOR_CREATE", "doctor", doctor.ID,
			"Created doctor: "+doctor.Name)
	})
	if err != nil {
		respondInternal(c, err, "Failed to create doctor")
		return
	}
	c.JSON(http.StatusCreated, doctor)
}

func UpdateDoctor(c *gin.Context) {
	doctorID, ok := parseID(c, "doctor_id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := database.DB.First(&doctor, doctorID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Doctor not found")
			return
		}
		respondInternal(c, err, "Failed to load doctor")
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	var changes []string
	if req.Name != nil {
		doctor.Name = *req.Name
		changes = append(changes, "name")
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
		changes = append(changes, "specialty")
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
		changes = append(changes, "is_active")
	}
	if len(changes) == 0 {
		respondValidation(c, "No changes detected")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&doctor).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "DOCTOR_UPDATE", "doctor", doctor.ID,
			"Updated: "+strings.Join(changes, ", "))
	})
	if err != nil {
		respondInternal(c, err, "Failed to update doctor")
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// DeactivateDoctor is a soft delete: historical visits keep their
// doctor reference; the doctor just stops taking bookings.
func DeactivateDoctor(c *gin.Context) {
	doctorID, ok := parseID(c, "doctor_id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := database.DB.First(&doctor, doctorID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Doctor not found")
			return
		}
		respondInternal(c, err, "Failed to load doctor")
		return
	}

	doctor.IsActive = false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&doctor).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "DOCTOR_DEACTIVATE", "doctor", doctor.ID, "Doctor deactivated")
	})
	if err != nil {
		respondInternal(c, err, "Failed to deactivate doctor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor deactivated"})
}

// DoctorSchedule lists the doctor's appointments in a date range
// (default: the coming week).
func DoctorSchedule(c *gin.Context) {
	doctorID, ok := parseID(c, "doctor_id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := database.DB.First(&doctor, doctorID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Doctor not found")
			return
		}
		respondInternal(c, err, "Failed to load doctor")
		return
	}

	start := time.Now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 7)
	var err error
	if raw := c.Query("start_date"); raw != "" {
		if start, err = time.Parse("2006-01-02", raw); err != nil {
			respondValidation(c, "Invalid start_date format. Use YYYY-MM-DD")
			return
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if end, err = time.Parse("2006-01-02", raw); err != nil {
			respondValidation(c, "Invalid end_date format. Use YYYY-MM-DD")
			return
		}
		end = end.AddDate(0, 0, 1)
	}

	var appointments []models.Appointment
	err = database.DB.
		Preload("Patient").
		Where("doctor_id = ? AND date >= ? AND date < ?", doctorID, start, end).
		Order("date").
		Find(&appointments).Error
	if err != nil {
		respondInternal(c, err, "Failed to load schedule")
		return
	}
	c.JSON(http.StatusOK, appointments)
}
