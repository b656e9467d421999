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

type CreateVisitRequest struct {
	PatientID        uint     `json:"patient_id" binding:"required"`
	DoctorID         uint     `json:"doctor_id" binding:"required"`
	Summary          string   `json:"summary" binding:"required"`
	ProcedureDetails string   `json:"procedure_details" binding:"required"`
	AmountPaid       *float64 `json:"amount_paid" binding:"required"`
	Balance          *float64 `json:"balance"`
	Date             *string  `json:"date"`
}

type UpdateVisitRequest struct {
	Summary          *string  `json:"summary"`
	ProcedureDetails *string  `json:"procedure_details"`
	AmountPaid       *float64 `json:"amount_paid"`
	Balance          *float64 `json:"balance"`
	// ClearBalance resets the balance to unknown.
	ClearBalance bool `json:"clear_balance"`
}

func ListVisits(c *gin.Context) {
	query := database.DB.Preload("Doctor").Preload("Prescription")

	if raw := c.Query("patient_id"); raw != "" {
		query = query.Where("patient_id = ?", raw)
	}
	if raw := c.Query("doctor_id"); raw != "" {
		query = query.Where("doctor_id = ?", raw)
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

	var visits []models.Visit
	if err := query.Order("date DESC").Find(&visits).Error; err != nil {
		respondInternal(c, err, "Failed to list visits")
		return
	}
	c.JSON(http.StatusOK, visits)
}

func GetVisit(c *gin.Context) {
	visitID, ok := parseID(c, "visit_id")
	if !ok {
		return
	}

	var visit models.Visit
	err := database.DB.
		Preload("Doctor").
		Preload("Prescription").
		Preload("Treatments").
		First(&visit, visitID).Error
	if err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Visit not found")
			return
		}
		respondInternal(c, err, "Failed to load visit")
		return
	}
	c.JSON(http.StatusOK, visit)
}

func CreateVisit(c *gin.Context) {
	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	if *req.AmountPaid < 0 {
		respondValidation(c, "amount_paid must not be negative")
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
	var doctor models.Doctor
	if err := database.DB.First(&doctor, req.DoctorID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Doctor not found")
			return
		}
		respondInternal(c, err, "Failed to load doctor")
		return
	}

	visit := models.Visit{
		PatientID:        req.PatientID,
		DoctorID:         req.DoctorID,
		Summary:          req.Summary,
		ProcedureDetails: req.ProcedureDetails,
		AmountPaid:       *req.AmountPaid,
		Balance:          req.Balance,
	}
	if req.Date != nil {
		date, err := time.Parse(apptTimeLayout, *req.Date)
		if err != nil {
			respondValidation(c, "Invalid date format. Use YYYY-MM-DD HH:MM")
			return
		}
		visit.Date = date
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&visit).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "VISIT_CREATE", "visit", visit.ID,
			"Created visit: "+visit.Summary)
	})
	if err != nil {
		respondInternal(c, err, "Failed to create visit")
		return
	}
	c.JSON(http.StatusCreated, visit)
}

func UpdateVisit(c *gin.Context) {
	visitID, ok := parseID(c, "visit_id")
	if !ok {
		return
	}

	var visit models.Visit
	if err := database.DB.First(&visit, visitID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Visit not found")
			return
		}
		respondInternal(c, err, "Failed to load visit")
		return
	}

	var req UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	var changes []string
	if req.Summary != nil {
		visit.Summary = *req.Summary
		changes = append(changes, "summary")
	}
	if req.ProcedureDetails != nil {
		visit.ProcedureDetails = *req.ProcedureDetails
		changes = append(changes, "procedure_details")
	}
	if req.AmountPaid != nil {
		if *req.AmountPaid < 0 {
			respondValidation(c, "amount_paid must not be negative")
			return
		}
		visit.AmountPaid = *req.AmountPaid
		changes = append(changes, "amount_paid")
	}
	if req.Balance != nil {
		visit.Balance = req.Balance
		changes = append(changes, "balance")
	} else if req.ClearBalance {
		visit.Balance = nil
		changes = append(changes, "balance")
	}
	if len(changes) == 0 {
		respondValidation(c, "No changes detected")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&visit).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "VISIT_UPDATE", "visit", visit.ID,
			"Updated: "+strings.Join(changes, ", "))
	})
	if err != nil {
		respondInternal(c, err, "Failed to update visit")
		return
	}
	c.JSON(http.StatusOK, visit)
}

// DeleteVisit hard-deletes the visit; its prescription and treatments
// cascade away with it.
func DeleteVisit(c *gin.Context) {
	visitID, ok := parseID(c, "visit_id")
	if !ok {
		return
	}

	var visit models.Visit
	if err := database.DB.First(&visit, visitID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Visit not found")
			return
		}
		respondInternal(c, err, "Failed to load visit")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&visit).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "VISIT_DELETE", "visit", visitID, "")
	})
	if err != nil {
		respondInternal(c, err, "Failed to delete visit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visit deleted"})
}
