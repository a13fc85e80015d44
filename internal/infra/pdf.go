package infra

// pdf.go: purchase receipts rendered with go-pdf/fpdf.
// Small receipt-style page with:
//   - Header and receipt number
//   - Buyer, pharmacy and timestamp
//   - Mask line (name, quantity, unit price)
//   - Bold total

import (
	"bytes"
	"fmt"

	"github.com/ouola/Phantom-backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// RenderPurchaseReceipt renders rec as a PDF and returns the document bytes.
func RenderPurchaseReceipt(rec *model.PurchaseRecord, buyerName string) ([]byte, error) {
	// 74mm × 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetTitle(fmt.Sprintf("Receipt %d", rec.ID), true)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Phantom Mask", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Purchase receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Purchase info ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Receipt #%d", rec.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Buyer: "+truncate(buyerName, 40), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Pharmacy: "+truncate(rec.PharmacyName, 36), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%s %s (%s)", rec.TransactionDate, rec.TransactionTime, rec.DayOfWeek), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Item ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Mask", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Unit", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 5, truncate(rec.MaskName, 22), "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", rec.Quantity), "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "$"+rec.UnitPrice.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+rec.TransactionAmount.StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens s to at most n bytes, marking the cut with "..".
func truncate(s string, n int) string {
	if n <= 2 || len(s) <= n {
		return s
	}
	return s[:n-2] + ".."
}
