package infra

import (
	"fmt"

	"github.com/ouola/Phantom-backend/internal/model"

	"github.com/xuri/excelize/v2"
)

const transactionsSheet = "Transactions"

// TransactionRow is one ledger line of the XLSX export.
type TransactionRow struct {
	Record   model.PurchaseRecord
	UserName string
}

// RenderTransactionsXLSX writes rows into a single-sheet workbook and returns
// the file bytes. Amounts are written as numbers so spreadsheets can sum them.
func RenderTransactionsXLSX(rows []TransactionRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), transactionsSheet); err != nil {
		return nil, err
	}

	headers := []string{
		"ID",
		"Date",
		"Time",
		"Day",
		"User",
		"Pharmacy",
		"Mask",
		"Quantity",
		"Unit Price",
		"Amount",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(transactionsSheet, cell, h)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(transactionsSheet, cell, v)
		}
		unit, _ := r.Record.UnitPrice.Float64()
		amount, _ := r.Record.TransactionAmount.Float64()

		write(1, r.Record.ID)
		write(2, r.Record.TransactionDate)
		write(3, r.Record.TransactionTime)
		write(4, r.Record.DayOfWeek)
		write(5, r.UserName)
		write(6, r.Record.PharmacyName)
		write(7, r.Record.MaskName)
		write(8, r.Record.Quantity)
		write(9, unit)
		write(10, amount)
	}

	_ = f.SetColWidth(transactionsSheet, "B", "D", 12)
	_ = f.SetColWidth(transactionsSheet, "E", "G", 28)
	_ = f.SetColWidth(transactionsSheet, "I", "J", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
