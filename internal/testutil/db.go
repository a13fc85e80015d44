// Package testutil provides a migrated in-memory database and seed helpers
// for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/ouola/Phantom-backend/internal/infra"
	"github.com/ouola/Phantom-backend/internal/model"
	"github.com/ouola/Phantom-backend/internal/schedule"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a fresh in-memory sqlite database with the schema applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewDatabase(context.Background(), infra.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Money parses a decimal literal.
func Money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// SeedPharmacy creates a pharmacy with its parsed schedule and masks
// (name → price).
func SeedPharmacy(t *testing.T, db *gorm.DB, name, balance, hours string, masks map[string]string) *model.Pharmacy {
	t.Helper()
	p := &model.Pharmacy{Name: name, CashBalance: Money(balance), OpeningHours: hours}
	require.NoError(t, db.Omit("Masks", "Hours").Create(p).Error)

	for _, r := range schedule.Parse(hours).Rows {
		h := model.NewOpeningHour(p.ID, r)
		require.NoError(t, db.Omit("Pharmacy").Create(&h).Error)
	}
	for maskName, price := range masks {
		m := model.Mask{PharmacyID: p.ID, Name: maskName, Price: Money(price)}
		require.NoError(t, db.Omit("Pharmacy").Create(&m).Error)
	}
	return p
}

// SeedUser creates a user with the given balance.
func SeedUser(t *testing.T, db *gorm.DB, name, balance string) *model.User {
	t.Helper()
	u := &model.User{Name: name, CashBalance: Money(balance)}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedPurchase appends a ledger entry directly, bypassing balances.
func SeedPurchase(t *testing.T, db *gorm.DB, rec model.PurchaseRecord) model.PurchaseRecord {
	t.Helper()
	require.NoError(t, db.Omit("User").Create(&rec).Error)
	return rec
}

// Reload re-reads a row by primary key.
func Reload[T any](t *testing.T, db *gorm.DB, id uint) T {
	t.Helper()
	var v T
	require.NoError(t, db.First(&v, id).Error)
	return v
}
