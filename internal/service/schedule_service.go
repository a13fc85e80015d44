package service

import (
	"context"
	"sort"

	"github.com/ouola/Phantom-backend/internal/dto"
	"github.com/ouola/Phantom-backend/internal/model"
	"github.com/ouola/Phantom-backend/internal/repository"
	"github.com/ouola/Phantom-backend/internal/schedule"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScheduleService owns the normalized opening hours of every pharmacy. Rows
// are stored per segment as parsed and a pharmacy is open when ANY of its rows
// for the weekday contains the time.
type ScheduleService interface {
	// ReplaceForPharmacy stores raw as the pharmacy's schedule, replacing all
	// previous rows in one transaction.
	ReplaceForPharmacy(ctx context.Context, pharmacyName, raw string) (schedule.Schedule, error)
	ReplaceForPharmacyTx(tx *gorm.DB, p *model.Pharmacy, raw string) (schedule.Schedule, error)
	IsOpenAt(ctx context.Context, pharmacyName string, d schedule.Weekday, t schedule.Clock) (bool, error)
	OpenPharmaciesAt(ctx context.Context, d schedule.Weekday, t schedule.Clock) ([]dto.PharmacyResponse, error)
	PharmacySchedule(ctx context.Context, pharmacyName string) (*dto.PharmacyScheduleResponse, error)
}

type scheduleService struct {
	pharmacies repository.PharmacyRepository
	hours      repository.OpeningHourRepository
}

func NewScheduleService(pharmacies repository.PharmacyRepository, hours repository.OpeningHourRepository) ScheduleService {
	return &scheduleService{pharmacies: pharmacies, hours: hours}
}

// ── ReplaceForPharmacy ────────────────────────────────────────────────────────

func (s *scheduleService) ReplaceForPharmacy(ctx context.Context, pharmacyName, raw string) (schedule.Schedule, error) {
	var parsed schedule.Schedule
	err := runTx(ctx, s.pharmacies.DB(), func(tx *gorm.DB) error {
		p, err := s.pharmacies.FindByNameTx(tx, pharmacyName)
		if err != nil {
			return notFound(err, "pharmacy %q", pharmacyName)
		}
		if err := s.pharmacies.UpdateProfileTx(tx, p.ID, p.CashBalance, raw); err != nil {
			return err
		}
		parsed, err = s.ReplaceForPharmacyTx(tx, p, raw)
		return err
	})
	return parsed, err
}

func (s *scheduleService) ReplaceForPharmacyTx(tx *gorm.DB, p *model.Pharmacy, raw string) (schedule.Schedule, error) {
	parsed := schedule.Parse(raw)
	for _, sk := range parsed.Skipped {
		log.Warn().
			Str("pharmacy", p.Name).
			Str("segment", sk.Segment).
			Err(sk.Reason).
			Msg("ignored malformed schedule segment")
	}

	rows := make([]model.OpeningHour, 0, len(parsed.Rows))
	for _, r := range parsed.Rows {
		rows = append(rows, model.NewOpeningHour(p.ID, r))
	}
	if err := s.hours.ReplaceForPharmacyTx(tx, p.ID, rows); err != nil {
		return schedule.Schedule{}, err
	}
	return parsed, nil
}

// ── Availability ──────────────────────────────────────────────────────────────

func (s *scheduleService) IsOpenAt(ctx context.Context, pharmacyName string, d schedule.Weekday, t schedule.Clock) (bool, error) {
	rows, err := s.rowsOf(ctx, pharmacyName)
	if err != nil {
		return false, err
	}
	return rows.IsOpenAt(d, t), nil
}

func (s *scheduleService) OpenPharmaciesAt(ctx context.Context, d schedule.Weekday, t schedule.Clock) ([]dto.PharmacyResponse, error) {
	stored, err := s.hours.ListByWeekday(ctx, d.String())
	if err != nil {
		return nil, err
	}

	open := make(map[string]bool)
	for _, h := range stored {
		if open[h.PharmacyName] {
			continue
		}
		r, err := h.OpeningHour().Row()
		if err != nil {
			log.Warn().Err(err).Str("pharmacy", h.PharmacyName).Msg("skipping unreadable opening hour")
			continue
		}
		if r.Contains(t) {
			open[h.PharmacyName] = true
		}
	}

	names := make([]string, 0, len(open))
	for name := range open {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]dto.PharmacyResponse, 0, len(names))
	for _, name := range names {
		out = append(out, dto.PharmacyResponse{Name: name})
	}
	return out, nil
}

// ── PharmacySchedule ──────────────────────────────────────────────────────────

func (s *scheduleService) PharmacySchedule(ctx context.Context, pharmacyName string) (*dto.PharmacyScheduleResponse, error) {
	p, err := s.pharmacies.FindByName(ctx, pharmacyName)
	if err != nil {
		return nil, notFound(err, "pharmacy %q", pharmacyName)
	}
	rows, err := s.loadRows(ctx, p)
	if err != nil {
		return nil, err
	}
	return &dto.PharmacyScheduleResponse{
		Name:         p.Name,
		OpeningHours: p.OpeningHours,
		Rows:         rows,
		Merged:       schedule.Schedule{Rows: rows}.Merged(),
	}, nil
}

func (s *scheduleService) rowsOf(ctx context.Context, pharmacyName string) (schedule.Rows, error) {
	p, err := s.pharmacies.FindByName(ctx, pharmacyName)
	if err != nil {
		return nil, notFound(err, "pharmacy %q", pharmacyName)
	}
	return s.loadRows(ctx, p)
}

func (s *scheduleService) loadRows(ctx context.Context, p *model.Pharmacy) (schedule.Rows, error) {
	stored, err := s.hours.ListByPharmacy(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	rows := make(schedule.Rows, 0, len(stored))
	for _, h := range stored {
		r, err := h.Row()
		if err != nil {
			log.Warn().Err(err).Str("pharmacy", p.Name).Msg("skipping unreadable opening hour")
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}
