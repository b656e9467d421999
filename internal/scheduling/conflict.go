package scheduling

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-backend/internal/models"
)

// maxSlot bounds the lookback when scanning for overlaps. Slots are
// minutes long; nothing booked more than a day before the requested
// start can still be running.
const maxSlot = 24 * time.Hour

// ConflictError reports a double-booking attempt. Distinct from plain
// validation failures so callers can offer an alternate slot.
type ConflictError struct {
	Existing *models.Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("doctor has conflicting appointment %d", e.Existing.ID)
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. A booking ending exactly when another starts is not a
// conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// LockDoctor fetches the doctor's row and holds it for the rest of tx,
// serializing concurrent booking attempts for the same doctor. The
// explicit lock is a postgres concern; sqlite serializes writers on its
// own.
func LockDoctor(tx *gorm.DB, doctorID uint) (*models.Doctor, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var doctor models.Doctor
	if err := q.First(&doctor, doctorID).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// FindConflict returns the first non-cancelled, non-no-show appointment
// of the doctor whose slot overlaps [start, end), excluding excludeID
// (0 for creates). Must run inside the same transaction as the insert,
// after LockDoctor, so the check and the write are atomic.
func FindConflict(tx *gorm.DB, doctorID uint, start, end time.Time, excludeID uint) (*models.Appointment, error) {
	var candidates []models.Appointment
	err := tx.
		Where("doctor_id = ?", doctorID).
		Where("status NOT IN ?", []models.AppointmentStatus{models.StatusCancelled, models.StatusNoShow}).
		Where("date < ? AND date > ?", end, start.Add(-maxSlot)).
		Where("id <> ?", excludeID).
		Order("date").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		c := &candidates[i]
		if Overlaps(start, end, c.Date, c.End()) {
			return c, nil
		}
	}
	return nil, nil
}
