package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/ouola/Phantom-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecord() model.PurchaseRecord {
	rec := model.NewPurchaseRecord(3, "DFW Wellness", "MaskT (green) (10 per pack)",
		decimal.RequireFromString("12.50"), 2, time.Date(2021, 1, 5, 9, 30, 0, 0, time.UTC))
	rec.ID = 42
	return rec
}

func TestRenderPurchaseReceipt_ProducesPDF(t *testing.T) {
	rec := sampleRecord()
	b, err := RenderPurchaseReceipt(&rec, "Yvonne Guerrero")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestRenderTransactionsXLSX_WritesRows(t *testing.T) {
	b, err := RenderTransactionsXLSX([]TransactionRow{{Record: sampleRecord(), UserName: "Yvonne Guerrero"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(transactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mask", rows[0][6])
	assert.Equal(t, "2021-01-05", rows[1][1])
	assert.Equal(t, "Tuesday", rows[1][3])
	assert.Equal(t, "Yvonne Guerrero", rows[1][4])
	assert.Equal(t, "25", rows[1][9])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd..", truncate("abcdefghij", 6))
}
