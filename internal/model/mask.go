package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mask is a catalog item sold by exactly one pharmacy.
// (PharmacyID, Name) is unique; Price is updated in place by imports.
type Mask struct {
	ID         uint            `gorm:"primaryKey"`
	PharmacyID uint            `gorm:"not null;uniqueIndex:idx_masks_pharmacy_name"`
	Name       string          `gorm:"not null;uniqueIndex:idx_masks_pharmacy_name"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Pharmacy *Pharmacy `gorm:"foreignKey:PharmacyID"`
}

func (Mask) TableName() string { return "masks" }
