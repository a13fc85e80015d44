package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pharmacy is a seller. Name is the business identity; CashBalance only grows
// through purchases. OpeningHours keeps the raw schedule text as imported; the
// normalized form lives in OpeningHour rows.
type Pharmacy struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"uniqueIndex;not null"`
	CashBalance  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	OpeningHours string          `gorm:"not null;default:''"`
	// Version is bumped on every balance write (optimistic lock).
	Version   int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Masks []Mask        `gorm:"foreignKey:PharmacyID;constraint:OnDelete:CASCADE"`
	Hours []OpeningHour `gorm:"foreignKey:PharmacyID;constraint:OnDelete:CASCADE"`
}

func (Pharmacy) TableName() string { return "pharmacies" }
