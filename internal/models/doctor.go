package models

// Doctor defines the structure for doctor records.
type Doctor struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"size:100;not null"`
	Specialty string `json:"specialty" gorm:"size:100;not null;index"`
	IsActive  bool   `json:"is_active" gorm:"default:true;index"`

	Visits       []Visit       `json:"visits,omitempty" gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
