package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-backend/internal/audit"
	"clinic-backend/internal/database"
	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
)

type CreateBillingRequest struct {
	TreatmentID      uint     `json:"treatment_id" binding:"required"`
	Amount           *float64 `json:"amount"`
	PaidAmount       float64  `json:"paid_amount"`
	PaymentMethod    *string  `json:"payment_method"`
	InsuranceClaimID *string  `json:"insurance_claim_id"`
}

type UpdateBillingRequest struct {
	PaidAmount       *float64 `json:"paid_amount"`
	PaymentMethod    *string  `json:"payment_method"`
	InsuranceClaimID *string  `json:"insurance_claim_id"`
}

func GetBilling(c *gin.Context) {
	billingID, ok := parseID(c, "billing_id")
	if !ok {
		return
	}

	var billing models.Billing
	if err := database.DB.First(&billing, billingID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Billing record not found")
			return
		}
		respondInternal(c, err, "Failed to load billing record")
		return
	}
	c.JSON(http.StatusOK, billing)
}

// CreateBilling bills a treatment. When the caller omits amount the
// treatment's cost is used.
func CreateBilling(c *gin.Context) {
	var req CreateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	if req.PaidAmount < 0 {
		respondValidation(c, "paid_amount cannot be negative")
		return
	}

	var treatment models.Treatment
	if err := database.DB.First(&treatment, req.TreatmentID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Treatment not found")
			return
		}
		respondInternal(c, err, "Failed to load treatment")
		return
	}

	amount := treatment.Cost
	if req.Amount != nil {
		if *req.Amount < 0 {
			respondValidation(c, "amount cannot be negative")
			return
		}
		amount = *req.Amount
	}

	billing := models.Billing{
		TreatmentID: req.TreatmentID,
		Amount:      amount,
		PaidAmount:  req.PaidAmount,
		IsPaid:      req.PaidAmount >= amount,
		Date:        time.Now(),
	}
	if req.PaymentMethod != nil {
		billing.PaymentMethod = *req.PaymentMethod
	}
	billing.InsuranceClaimID = req.InsuranceClaimID

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&billing).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "BILLING_CREATE", "billing", billing.ID,
			"Created billing for treatment "+treatment.Name)
	})
	if txErr != nil {
		respondInternal(c, txErr, "Failed to create billing record")
		return
	}
	c.JSON(http.StatusCreated, billing)
}

func UpdateBilling(c *gin.Context) {
	billingID, ok := parseID(c, "billing_id")
	if !ok {
		return
	}

	var req UpdateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	var billing models.Billing
	if err := database.DB.First(&billing, billingID).Error; err != nil {
		if isNotFound(err) {
			respondNotFound(c, "Billing record not found")
			return
		}
		respondInternal(c, err, "Failed to load billing record")
		return
	}

	if req.PaidAmount != nil {
		if *req.PaidAmount < 0 {
			respondValidation(c, "paid_amount cannot be negative")
			return
		}
		billing.PaidAmount = *req.PaidAmount
	}
	if req.PaymentMethod != nil {
		billing.PaymentMethod = *req.PaymentMethod
	}
	if req.InsuranceClaimID != nil {
		billing.InsuranceClaimID = req.InsuranceClaimID
	}
	billing.IsPaid = billing.PaidAmount >= billing.Amount

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&billing).Error; err != nil {
			return err
		}
		return audit.Record(tx, middleware.UserID(c), "BILLING_UPDATE", "billing", billing.ID,
			"Updated billing record")
	})
	if txErr != nil {
		respondInternal(c, txErr, "Failed to update billing record")
		return
	}
	c.JSON(http.StatusOK, billing)
}
