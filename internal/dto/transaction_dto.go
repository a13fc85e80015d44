package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Dates are "YYYY-MM-DD"; both bounds are inclusive.
type DateRangeQuery struct {
	StartDate string `form:"start_date" validate:"required"`
	EndDate   string `form:"end_date"   validate:"required"`
}

type TopSpendersQuery struct {
	TopX      *int   `form:"top_x"      validate:"required,min=1"`
	StartDate string `form:"start_date" validate:"required"`
	EndDate   string `form:"end_date"   validate:"required"`
}

// PurchaseRequest identifies the buyer by user_id when given, otherwise by
// user_name.
type PurchaseRequest struct {
	UserName     string `json:"user_name"     validate:"required_without=UserID"`
	UserID       *uint  `json:"user_id"`
	PharmacyName string `json:"pharmacy_name" validate:"required"`
	MaskName     string `json:"mask_name"     validate:"required"`
	Quantity     int    `json:"quantity"      validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TopSpenderResponse struct {
	UserID      uint            `json:"user_id"`
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type TotalsResponse struct {
	TotalMasks    int64           `json:"total_masks"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalQuantity int64           `json:"total_quantity"`
}

type PurchaseResponse struct {
	ID                uint            `json:"id"`
	UserID            uint            `json:"user_id"`
	UserName          string          `json:"user_name"`
	PharmacyName      string          `json:"pharmacy_name"`
	MaskName          string          `json:"mask_name"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	TransactionDate   string          `json:"transaction_date"`
	TransactionTime   string          `json:"transaction_time"`
	DayOfWeek         string          `json:"day_of_week"`
	UserCashBalance   decimal.Decimal `json:"user_cash_balance"`
}
