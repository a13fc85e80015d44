package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a buyer. Identity is the numeric ID; Name is not unique.
type User struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"index;not null"`
	CashBalance decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Version     int             `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (User) TableName() string { return "users" }
