package models

import (
	"time"

	"gorm.io/gorm"
)

// Visit defines a completed or in-progress clinical visit.
type Visit struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Date             time.Time `json:"date" gorm:"not null;index"`
	Summary          string    `json:"summary" gorm:"size:200;not null"`
	ProcedureDetails string    `json:"procedure_details" gorm:"type:text;not null"`
	AmountPaid       float64   `json:"amount_paid" gorm:"not null;check:amount_paid >= 0"`
	// Balance is nullable on purpose: an unknown balance is not a zero
	// balance and is excluded from patient rollups.
	Balance *float64 `json:"balance"`

	DoctorID  uint `json:"doctor_id" gorm:"not null;index"`
	PatientID uint `json:"patient_id" gorm:"not null;index"`

	Doctor       *Doctor       `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Prescription *Prescription `json:"prescription,omitempty" gorm:"foreignKey:VisitID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Treatments   []Treatment   `json:"treatments,omitempty" gorm:"foreignKey:VisitID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// BeforeCreate defaults the visit date to the creation time.
func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.Date.IsZero() {
		v.Date = time.Now()
	}
	return nil
}
