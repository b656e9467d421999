package models

// Treatment defines a procedure performed during a visit.
type Treatment struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	VisitID       uint    `json:"visit_id" gorm:"not null;index"`
	DoctorID      uint    `json:"doctor_id" gorm:"not null;index"`
	Name          string  `json:"name" gorm:"size:100;not null"`
	Description   *string `json:"description" gorm:"type:text"`
	Cost          float64 `json:"cost" gorm:"not null"`
	ProcedureCode *string `json:"procedure_code" gorm:"size:50"`

	InventoryUsages []InventoryUsage `json:"inventory_usages,omitempty" gorm:"foreignKey:TreatmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Billings        []Billing        `json:"billings,omitempty" gorm:"foreignKey:TreatmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
