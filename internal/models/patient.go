package models

import (
	"errors"
	"unicode"
)

// Patient defines the structure for patient records.
type Patient struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Age         int    `json:"age" gorm:"not null"`
	PhoneNumber string `json:"phone_number" gorm:"size:15;not null"`
	Address     string `json:"address" gorm:"size:200;not null"`
	AccountType string `json:"account_type" gorm:"size:50;not null"`

	Visits       []Visit       `json:"visits,omitempty" gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// ErrInvalidPhoneNumber is returned when a phone number fails validation.
var ErrInvalidPhoneNumber = errors.New("phone number must be at least 10 digits")

// ValidatePhoneNumber checks that a phone number is all digits and at
// least 10 of them. Called before construction; the column itself only
// constrains length.
func ValidatePhoneNumber(number string) error {
	if len(number) < 10 {
		return ErrInvalidPhoneNumber
	}
	for _, r := range number {
		if !unicode.IsDigit(r) {
			return ErrInvalidPhoneNumber
		}
	}
	return nil
}
