package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type TreatmentItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type CreateTreatmentRequest struct {
	VisitID        uint                   `json:"visit_id" binding:"required"`
	Name           string                 `json:"name" binding:"required"`
	Description    *string                `json:"description"`
	Cost           *float64               `json:"cost" binding:"required"`
	ProcedureCode  *string                `json:"procedure_code"`
	InventoryItems []TreatmentItemRequest `json:"inventory_items"`
}

type stockError struct {
	itemID   uint
	notFound bool
}

func (e *stockError) Error() string {
	if e.notFound {
		return fmt.Sprintf("inventory item %d not found", e.itemID)
	}
	return fmt.Sprintf("insufficient stock for inventory item %d", e.itemID)
}

// CreateTreatment creates the treatment and consumes the referenced
// inventory in one transaction: either the treatment, its usage rows
// and every stock decrement commit together, or none of them do.
func CreateTreatment(c *gin.Context) {
	var req CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	for _, item := range req.InventoryItems {
		if item.Quantity <= 0 {
			respondValidation(c, "Inventory quantity must be positive")
			return
		}
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

	treatment := models.Treatment{
		VisitID:       req.VisitID,
		DoctorID:      visit.DoctorID,
		Name:          req.Name,
		Description:   req.Description,
		Cost:          *req.Cost,
		ProcedureCode: req.ProcedureCode,
	}

	var touched []models.InventoryItem
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&treatment).Error; err != nil {
			return err
		}
		for _, item := range req.InventoryItems {
			// Conditional decrement: fails the whole write rather than
			// letting stock drift negative.
			res := tx.Model(&models.InventoryItem{}).
				Where("id = ? AND quantity >= ?", item.ItemID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&models.InventoryItem{}).Where("id = ?", item.ItemID).Count(&count).Error; err != nil {
					return err
				}
				return &stockError{itemID: item.ItemID, notFound: count == 0}
			}
			usage := models.InventoryUsage{
				TreatmentID:  treatment.ID,
				ItemID:       item.ItemID,
				QuantityUsed: item.Quantity,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}
			var updated models.InventoryItem
			if err := tx.First(&updated, item.ItemID).Error; err != nil {
				return err
			}
			touched = append(touched, updated)
		}
		return audit.Record(tx, middleware.UserID(c), "TREATMENT_CREATE", "treatment", treatment.ID,
			"Created treatment: "+treatment.Name)
	})
	if txErr != nil {
		var stockErr *stockError
		if errors.As(txErr, &stockErr) {
			if stockErr.notFound {
				respondNotFound(c, stockErr.Error())
			} else {
				respondValidation(c, stockErr.Error())
			}
			return
		}
		respondInternal(c, txErr, "Failed to create treatment")
		return
	}

	items := make([]gin.H, 0, len(touched))
	for i := range touched {
		item := &touched[i]
		items = append(items, gin.H{
			"item_id":   item.ID,
			"name":      item.Name,
			"quantity":  item.Quantity,
			"low_stock": item.LowStock(),
		})
	}
	c.JSON(http.StatusCreated, gin.H{
		"treatment": treatment,
		"inventory": items,
	})
}

func GetTreatment(c *gin.Context) {
	treatmentID, ok := parseID(c, "treatment_id")
	if !ok {
		return
	}

	var treatment models.Treatment
	err := database.DB.
		Preload("InventoryUsages").
		Preload("InventoryUsages.Item").
		Preload("Billings").
		First(&treatment, treatmentID).Error
	if err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Treatment not found")
			return
		}
		respondInternal(c, err, "Failed to load treatment")
		return
	}
	c.JSON(http.StatusOK, treatment)
}
