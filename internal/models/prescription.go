package models

// Prescription defines the single prescription owned by a visit.
type Prescription struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Details string `json:"details" gorm:"type:text;not null"`
	// One prescription per visit.
	VisitID uint `json:"visit_id" gorm:"not null;uniqueIndex"`
}
