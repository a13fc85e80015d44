package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ouola/Phantom-backend/internal/dto"
	"github.com/ouola/Phantom-backend/internal/infra"
	"github.com/ouola/Phantom-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maskCachePrefix = "masks:"

type CatalogService interface {
	ListMasks(ctx context.Context, pharmacyName string, sortBy repository.MaskSort) ([]dto.MaskResponse, error)
	// Search matches pharmacies and masks by name, case-insensitively. Exact
	// matches rank before prefix matches, which rank before substring matches.
	Search(ctx context.Context, term string) (*dto.SearchResponse, error)
	// DeletePharmacy removes the pharmacy with its masks and opening hours.
	// Purchase records keep their name snapshots.
	DeletePharmacy(ctx context.Context, pharmacyName string) error
	// InvalidateMasks drops every cached mask listing.
	InvalidateMasks(ctx context.Context)
}

type catalogService struct {
	pharmacies repository.PharmacyRepository
	masks      repository.MaskRepository
	hours      repository.OpeningHourRepository
	cache      *infra.Cache
}

func NewCatalogService(
	pharmacies repository.PharmacyRepository,
	masks repository.MaskRepository,
	hours repository.OpeningHourRepository,
	cache *infra.Cache,
) CatalogService {
	return &catalogService{pharmacies: pharmacies, masks: masks, hours: hours, cache: cache}
}

// ── ListMasks ─────────────────────────────────────────────────────────────────

func (s *catalogService) ListMasks(ctx context.Context, pharmacyName string, sortBy repository.MaskSort) ([]dto.MaskResponse, error) {
	if sortBy != repository.MaskSortName && sortBy != repository.MaskSortPrice {
		return nil, fmt.Errorf("%w: sort_by must be %q or %q", ErrValidation, repository.MaskSortName, repository.MaskSortPrice)
	}

	cacheKey := maskCachePrefix + string(sortBy) + ":" + pharmacyName
	var cached []dto.MaskResponse
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return cached, nil
	}

	p, err := s.pharmacies.FindByName(ctx, pharmacyName)
	if err != nil {
		return nil, notFound(err, "pharmacy %q", pharmacyName)
	}
	masks, err := s.masks.ListByPharmacy(ctx, p.ID, sortBy)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MaskResponse, 0, len(masks))
	for _, m := range masks {
		out = append(out, dto.MaskResponse{Name: m.Name, Price: m.Price})
	}
	s.cache.SetJSON(ctx, cacheKey, out)
	return out, nil
}

func (s *catalogService) InvalidateMasks(ctx context.Context) {
	s.cache.InvalidatePrefix(ctx, maskCachePrefix)
}

// ── Search ────────────────────────────────────────────────────────────────────

func (s *catalogService) Search(ctx context.Context, term string) (*dto.SearchResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search_term is required", ErrValidation)
	}

	pharmacies, err := s.pharmacies.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	masks, err := s.masks.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	resp := &dto.SearchResponse{}
	sort.SliceStable(pharmacies, func(i, j int) bool {
		return ranksBefore(term, pharmacies[i].Name, pharmacies[j].Name)
	})
	for _, p := range pharmacies {
		resp.Pharmacies = append(resp.Pharmacies, dto.PharmacyResponse{Name: p.Name})
	}

	sort.SliceStable(masks, func(i, j int) bool {
		return ranksBefore(term, masks[i].Name, masks[j].Name)
	})
	for _, m := range masks {
		res := dto.MaskSearchResult{Name: m.Name, Price: m.Price}
		if m.Pharmacy != nil {
			res.PharmacyName = m.Pharmacy.Name
		}
		resp.Masks = append(resp.Masks, res)
	}
	return resp, nil
}

// matchRank is 0 for an exact match, 1 for a prefix match, 2 otherwise.
func matchRank(term, name string) int {
	t, n := strings.ToLower(term), strings.ToLower(name)
	switch {
	case n == t:
		return 0
	case strings.HasPrefix(n, t):
		return 1
	default:
		return 2
	}
}

func ranksBefore(term, a, b string) bool {
	ra, rb := matchRank(term, a), matchRank(term, b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// ── DeletePharmacy ────────────────────────────────────────────────────────────

func (s *catalogService) DeletePharmacy(ctx context.Context, pharmacyName string) error {
	err := runTx(ctx, s.pharmacies.DB(), func(tx *gorm.DB) error {
		p, err := s.pharmacies.FindByNameForUpdateTx(tx, pharmacyName)
		if err != nil {
			return notFound(err, "pharmacy %q", pharmacyName)
		}
		if err := s.masks.DeleteByPharmacyTx(tx, p.ID); err != nil {
			return err
		}
		if err := s.hours.DeleteByPharmacyTx(tx, p.ID); err != nil {
			return err
		}
		return s.pharmacies.DeleteTx(tx, p.ID)
	})
	if err != nil {
		return err
	}
	log.Info().Str("pharmacy", pharmacyName).Msg("pharmacy deleted")
	s.InvalidateMasks(ctx)
	return nil
}
