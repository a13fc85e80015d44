package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchaseRecord_DerivesAmountAndWeekday(t *testing.T) {
	at := time.Date(2021, 1, 3, 14, 5, 9, 0, time.UTC) // Sunday
	rec := NewPurchaseRecord(7, "Carepoint", "True Barrier (green) (3 per pack)", decimal.RequireFromString("50.00"), 3, at)

	assert.Equal(t, uint(7), rec.UserID)
	assert.True(t, rec.TransactionAmount.Equal(decimal.RequireFromString("150.00")), rec.TransactionAmount.String())
	assert.Equal(t, "2021-01-03", rec.TransactionDate)
	assert.Equal(t, "14:05:09", rec.TransactionTime)
	assert.Equal(t, "Sunday", rec.DayOfWeek)

	back, err := rec.TransactionAt(time.UTC)
	require.NoError(t, err)
	assert.True(t, back.Equal(at))
}

func TestNewPurchaseRecord_ExactDecimalArithmetic(t *testing.T) {
	rec := NewPurchaseRecord(1, "p", "m", decimal.RequireFromString("0.10"), 3, time.Now())
	assert.Equal(t, "0.3", rec.TransactionAmount.String())
}

func TestNewImportedPurchaseRecord_SingleUnit(t *testing.T) {
	amount := decimal.RequireFromString("12.35")
	rec := NewImportedPurchaseRecord(2, "p", "m", amount, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, rec.Quantity)
	assert.True(t, rec.UnitPrice.Equal(amount))
	assert.True(t, rec.TransactionAmount.Equal(amount))
	assert.Equal(t, "Monday", rec.DayOfWeek)
}
