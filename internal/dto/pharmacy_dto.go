package dto

import (
	"github.com/ouola/Phantom-backend/internal/schedule"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpeningHoursQuery struct {
	Weekday string `form:"weekday" validate:"required"`
	Time    string `form:"time"    validate:"required"`
}

type PharmacyOpenQuery struct {
	PharmacyName string `form:"pharmacy_name" validate:"required"`
	Weekday      string `form:"weekday"       validate:"required"`
	Time         string `form:"time"          validate:"required"`
}

type PharmacyNameQuery struct {
	PharmacyName string `form:"pharmacy_name" validate:"required"`
}

type MaskListQuery struct {
	PharmacyName string `form:"pharmacy_name"        validate:"required"`
	SortBy       string `form:"sort_by,default=name" validate:"oneof=name price"`
}

type MaskCountQuery struct {
	Comparison string `form:"comparison" validate:"required,oneof=more less"`
	Count      *int64 `form:"count"      validate:"required,min=0"`
	MinPrice   string `form:"min_price"  validate:"required"`
	MaxPrice   string `form:"max_price"  validate:"required"`
}

type SearchQuery struct {
	SearchTerm string `form:"search_term" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PharmacyResponse struct {
	Name string `json:"name"`
}

type MaskResponse struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type PharmacyMaskCountResponse struct {
	Name      string `json:"name"`
	MaskCount int64  `json:"mask_count"`
}

type PharmacyScheduleResponse struct {
	Name         string                                 `json:"name"`
	OpeningHours string                                 `json:"opening_hours"`
	Rows         []schedule.Row                         `json:"rows"`
	Merged       map[schedule.Weekday]schedule.Interval `json:"merged"`
}

type OpenStatusResponse struct {
	Name    string           `json:"name"`
	Weekday schedule.Weekday `json:"weekday"`
	Time    schedule.Clock   `json:"time"`
	Open    bool             `json:"open"`
}

type MaskSearchResult struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	PharmacyName string          `json:"pharmacy_name"`
}

// SearchResponse lists are null, not empty, when nothing matched.
type SearchResponse struct {
	Pharmacies []PharmacyResponse `json:"pharmacies"`
	Masks      []MaskSearchResult `json:"masks"`
}
