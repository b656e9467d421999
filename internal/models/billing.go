package models

import "time"

// Billing defines a charge raised against a treatment.
type Billing struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	TreatmentID      uint      `json:"treatment_id" gorm:"not null;index"`
	Amount           float64   `json:"amount" gorm:"not null"`
	PaidAmount       float64   `json:"paid_amount" gorm:"not null;default:0"`
	IsPaid           bool      `json:"is_paid" gorm:"not null;default:false"`
	PaymentMethod    string    `json:"payment_method" gorm:"size:50;not null;default:'cash'"`
	InsuranceClaimID *string   `json:"insurance_claim_id" gorm:"size:100"`
	Date             time.Time `json:"date" gorm:"not null;index"`
}
