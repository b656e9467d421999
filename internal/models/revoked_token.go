package models

import "time"

// RevokedToken blocklists a logged-out token until it expires.
type RevokedToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	JTI       string    `json:"jti" gorm:"size:36;not null;uniqueIndex"`
	TokenType string    `json:"token_type" gorm:"size:10;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
}
