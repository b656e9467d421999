package models

import "time"

// InventoryItem defines a stocked supply item.
type InventoryItem struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Category      string     `json:"category" gorm:"size:50;not null;index"`
	Quantity      int        `json:"quantity" gorm:"not null"`
	MinQuantity   int        `json:"min_quantity" gorm:"not null;default:5"`
	UnitCost      *float64   `json:"unit_cost"`
	Description   *string    `json:"description" gorm:"type:text"`
	Supplier      *string    `json:"supplier" gorm:"size:100"`
	LastRestocked *time.Time `json:"last_restocked"`
}

// LowStock reports whether the item has crossed its restock threshold.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// InventoryUsage records stock consumed by a treatment.
type InventoryUsage struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	TreatmentID  uint `json:"treatment_id" gorm:"not null;index"`
	ItemID       uint `json:"item_id" gorm:"not null;index"`
	QuantityUsed int  `json:"quantity_used" gorm:"not null"`

	Item *InventoryItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}
