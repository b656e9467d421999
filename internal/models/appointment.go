package models

import "time"

// AppointmentStatus represents the status of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment defines a booked slot on a doctor's calendar.
type Appointment struct {
	ID              uint              `json:"id" gorm:"primaryKey"`
	Date            time.Time         `json:"date" gorm:"not null;index"`
	DurationMinutes int               `json:"duration_minutes" gorm:"not null;default:30"`
	Reason          *string           `json:"reason" gorm:"size:200"`
	Status          AppointmentStatus `json:"status" gorm:"size:20;not null;default:'scheduled';index"`

	PatientID uint `json:"patient_id" gorm:"not null;index"`
	DoctorID  uint `json:"doctor_id" gorm:"not null;index"`

	Patient *Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Doctor  *Doctor  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
}

// End returns the exclusive end of the booked slot.
func (a *Appointment) End() time.Time {
	return a.Date.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Blocking reports whether this appointment occupies the doctor's
// calendar for conflict purposes. Cancelled and no-show slots do not.
func (a *Appointment) Blocking() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}
