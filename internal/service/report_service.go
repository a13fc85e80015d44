package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/ouola/Phantom-backend/internal/dto"
	"github.com/ouola/Phantom-backend/internal/infra"
	"github.com/ouola/Phantom-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// Comparison values of PharmaciesByMaskCount.
const (
	ComparisonMore = "more"
	ComparisonLess = "less"
)

// ReportService answers read-only aggregates over the ledger and catalog.
type ReportService interface {
	// TopSpenders ranks users by amount spent in r, highest first. Equal
	// amounts are ordered by name, then user id.
	TopSpenders(ctx context.Context, r DateRange, topN int) ([]dto.TopSpenderResponse, error)
	Totals(ctx context.Context, r DateRange) (*dto.TotalsResponse, error)
	PharmaciesByMaskCount(ctx context.Context, comparison string, threshold int64, minPrice, maxPrice decimal.Decimal) ([]dto.PharmacyMaskCountResponse, error)
	// ExportTransactions renders the ledger entries of r as an XLSX workbook.
	ExportTransactions(ctx context.Context, r DateRange) ([]byte, error)
}

type reportService struct {
	purchases  repository.PurchaseRepository
	pharmacies repository.PharmacyRepository
}

func NewReportService(purchases repository.PurchaseRepository, pharmacies repository.PharmacyRepository) ReportService {
	return &reportService{purchases: purchases, pharmacies: pharmacies}
}

func (s *reportService) TopSpenders(ctx context.Context, r DateRange, topN int) ([]dto.TopSpenderResponse, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_x must be a positive integer", ErrValidation)
	}
	start, end := r.bounds()
	sums, err := s.purchases.SumByUser(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// Sorted here rather than in SQL so the rounded amounts decide ties the
	// same way on every dialect.
	sort.SliceStable(sums, func(i, j int) bool {
		a, b := sums[i], sums[j]
		if c := a.TotalAmount.Cmp(b.TotalAmount); c != 0 {
			return c > 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.UserID < b.UserID
	})
	if len(sums) > topN {
		sums = sums[:topN]
	}

	out := make([]dto.TopSpenderResponse, 0, len(sums))
	for _, st := range sums {
		out = append(out, dto.TopSpenderResponse{UserID: st.UserID, Name: st.Name, TotalAmount: st.TotalAmount})
	}
	return out, nil
}

func (s *reportService) Totals(ctx context.Context, r DateRange) (*dto.TotalsResponse, error) {
	start, end := r.bounds()
	t, err := s.purchases.Totals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &dto.TotalsResponse{
		TotalMasks:    t.Records,
		TotalAmount:   t.TotalAmount,
		TotalQuantity: t.Quantity,
	}, nil
}

func (s *reportService) PharmaciesByMaskCount(ctx context.Context, comparison string, threshold int64, minPrice, maxPrice decimal.Decimal) ([]dto.PharmacyMaskCountResponse, error) {
	var cmp repository.CountComparison
	switch comparison {
	case ComparisonMore:
		cmp = repository.AtLeast
	case ComparisonLess:
		cmp = repository.AtMost
	default:
		return nil, fmt.Errorf("%w: comparison must be %q or %q", ErrValidation, ComparisonMore, ComparisonLess)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: count must not be negative", ErrValidation)
	}
	if minPrice.IsNegative() || maxPrice.LessThan(minPrice) {
		return nil, fmt.Errorf("%w: price range must satisfy 0 <= min_price <= max_price", ErrValidation)
	}

	counts, err := s.pharmacies.CountMasksInPriceRange(ctx, minPrice, maxPrice, cmp, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PharmacyMaskCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.PharmacyMaskCountResponse{Name: c.Name, MaskCount: c.MaskCount})
	}
	return out, nil
}

func (s *reportService) ExportTransactions(ctx context.Context, r DateRange) ([]byte, error) {
	start, end := r.bounds()
	recs, err := s.purchases.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	rows := make([]infra.TransactionRow, 0, len(recs))
	for _, rec := range recs {
		row := infra.TransactionRow{Record: rec}
		if rec.User != nil {
			row.UserName = rec.User.Name
		}
		rows = append(rows, row)
	}
	return infra.RenderTransactionsXLSX(rows)
}
