package audit

import (
	"gorm.io/gorm"

	"clinic-backend/internal/models"
)

// Record appends an audit row for a successful write. Called inside the
// mutation's transaction so the trail never drifts from the data.
func Record(tx *gorm.DB, userID uint, action, targetType string, targetID uint, details string) error {
	entry := models.AuditLog{
		Action:     action,
		TargetType: targetType,
		Details:    details,
	}
	if userID != 0 {
		entry.UserID = &userID
	}
	if targetID != 0 {
		entry.TargetID = &targetID
	}
	return tx.Create(&entry).Error
}
