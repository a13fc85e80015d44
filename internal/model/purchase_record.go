package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// PurchaseRecord is an immutable ledger entry. Pharmacy and mask names are
// snapshots taken at purchase time, so the record survives catalog changes and
// pharmacy deletion. TransactionAmount is never recomputed from current prices.
type PurchaseRecord struct {
	ID                uint            `gorm:"primaryKey"`
	UserID            uint            `gorm:"not null;index"`
	PharmacyName      string          `gorm:"not null"`
	MaskName          string          `gorm:"not null"`
	Quantity          int             `gorm:"not null;default:1"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TransactionAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Date and time-of-day are stored split; dates are ISO text so range
	// filters compare lexically in every dialect.
	TransactionDate string `gorm:"type:varchar(10);not null;index"`
	TransactionTime string `gorm:"type:varchar(8);not null"`
	DayOfWeek       string `gorm:"type:varchar(10);not null"`
	CreatedAt       time.Time

	User *User `gorm:"foreignKey:UserID"`
}

func (PurchaseRecord) TableName() string { return "purchase_histories" }

// NewPurchaseRecord builds a record for quantity units at unitPrice, stamped
// with at. DayOfWeek is derived here, once.
func NewPurchaseRecord(userID uint, pharmacyName, maskName string, unitPrice decimal.Decimal, quantity int, at time.Time) PurchaseRecord {
	return PurchaseRecord{
		UserID:            userID,
		PharmacyName:      pharmacyName,
		MaskName:          maskName,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		TransactionAmount: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		TransactionDate:   at.Format(DateLayout),
		TransactionTime:   at.Format(TimeLayout),
		DayOfWeek:         at.Weekday().String(),
	}
}

// NewImportedPurchaseRecord builds a record from purchase history that only
// carries the total amount. It is treated as a single unit.
func NewImportedPurchaseRecord(userID uint, pharmacyName, maskName string, amount decimal.Decimal, at time.Time) PurchaseRecord {
	return NewPurchaseRecord(userID, pharmacyName, maskName, amount, 1, at)
}

// TransactionAt recombines the stored date and time in loc.
func (p PurchaseRecord) TransactionAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, p.TransactionDate+" "+p.TransactionTime, loc)
}
