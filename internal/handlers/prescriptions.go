package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type CreatePrescriptionRequest struct {
	VisitID uint   `json:"visit_id" binding:"required"`
	Details string `json:"details" binding:"required"`
}

type UpdatePrescriptionRequest struct {
	Details *string `json:"details"`
}

func GetPrescription(c *gin.Context) {
	prescriptionID, ok := parseID(c, "prescription_id")
	if !ok {
		return
	}

	var prescription models.Prescription
	if err := database.DB.First(&prescription, prescriptionID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Prescription not found")
			return
		}
		respondInternal(c, err, "Failed to load prescription")
		return
	}
	c.JSON(http.StatusOK, prescription)
}

func CreatePrescription(c *gin.Context) {
	var req CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	var visit models.Visit
	if err := database.DB.First(&visit, req.VisitID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Visit not found")
			return
		}
		respondInternal(c, err, "Failed to load visit")
		return
	}

	prescription := models.Prescription{
		VisitID: req.VisitID,
		Details: req.Details,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prescription).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "PRESCRIPTION_CREATE", "prescription", prescription.ID, "")
	})
	if err != nil {
		// One prescription per visit.
		if isUniqueViolation(err) {
			respondConflict(c, gin.H{"message": "Visit already has a prescription"})
			return
		}
		respondInternal(c, err, "Failed to create prescription")
		return
	}
	c.JSON(http.StatusCreated, prescription)
}

func UpdatePrescription(c *gin.Context) {
	prescriptionID, ok := parseID(c, "prescription_id")
	if !ok {
		return
	}

	var prescription models.Prescription
	if err := database.DB.First(&prescription, prescriptionID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Prescription not found")
			return
		}
		respondInternal(c, err, "Failed to load prescription")
		return
	}

	var req UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	if req.Details == nil {
		respondValidation(c, "No changes detected")
		return
	}
	prescription.Details = *req.Details

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&prescription).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "PRESCRIPTION_UPDATE", "prescription", prescription.ID, "")
	})
	if err != nil {
		respondInternal(c, err, "Failed to update prescription")
		return
	}
	c.JSON(http.StatusOK, prescription)
}

func DeletePrescription(c *gin.Context) {
	prescriptionID, ok := parseID(c, "prescription_id")
	if !ok {
		return
	}

	var prescription models.Prescription
	if err := database.DB.First(&prescription, prescriptionID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Prescription not found")
			return
		}
		respondInternal(c, err, "Failed to load prescription")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&prescription).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "PRESCRIPTION_DELETE", "prescription", prescriptionID, "")
	})
	if err != nil {
		respondInternal(c, err, "Failed to delete prescription")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prescription deleted"})
}
