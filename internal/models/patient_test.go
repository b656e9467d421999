package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"ten digits", "5551234567", true},
		{"more than ten digits", "155512345678", true},
		{"too short", "555123456", false},
		{"empty", "", false},
		{"dashes", "555-123-4567", false},
		{"letters padding to length", "55512345ab", false},
		{"spaces", "555 123 4567", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePhoneNumber(tt.phone)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
			}
		})
	}
}

func TestAppointmentEndAndBlocking(t *testing.T) {
	appt := Appointment{DurationMinutes: 45, Status: StatusScheduled}
	assert.Equal(t, 45.0, appt.End().Sub(appt.Date).Minutes())
	assert.True(t, appt.Blocking())

	appt.Status = StatusCancelled
	assert.False(t, appt.Blocking())
	appt.Status = StatusNoShow
	assert.False(t, appt.Blocking())
	appt.Status = StatusCompleted
	assert.True(t, appt.Blocking())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusScheduled))
	assert.False(t, ValidStatus(AppointmentStatus("confirmed")))
}

func TestInventoryLowStock(t *testing.T) {
	item := InventoryItem{Quantity: 6, MinQuantity: 5}
	assert.False(t, item.LowStock())
	item.Quantity = 5
	assert.True(t, item.LowStock())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RolePatient))
	assert.False(t, ValidRole("superuser"))
}
