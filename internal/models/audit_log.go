package models

import "time"

// AuditLog records a successful write operation.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     *uint     `json:"user_id" gorm:"index"`
	Action     string    `json:"action" gorm:"size:50;not null;index"`
	TargetType string    `json:"target_type" gorm:"size:20"`
	TargetID   *uint     `json:"target_id"`
	Details    string    `json:"details" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
