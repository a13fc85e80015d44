// Package importer loads the pharmacy and user JSON documents into the store.
// Both imports are idempotent: running the same file twice leaves the data as
// after the first run.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ouola/Phantom-backend/internal/model"
	"github.com/ouola/Phantom-backend/internal/repository"
	"github.com/ouola/Phantom-backend/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Kind string

const (
	KindPharmacies Kind = "pharmacies"
	KindUsers      Kind = "users"
)

// historyLayout is the timestamp format of purchase histories.
const historyLayout = "2006-01-02 15:04:05"

var ErrInvalidDocument = errors.New("invalid import document")

type pharmacyDoc struct {
	Name         string          `json:"name"`
	CashBalance  decimal.Decimal `json:"cashBalance"`
	OpeningHours string          `json:"openingHours"`
	Masks        []maskDoc       `json:"masks"`
}

type maskDoc struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type userDoc struct {
	Name              string          `json:"name"`
	CashBalance       decimal.Decimal `json:"cashBalance"`
	PurchaseHistories []historyDoc    `json:"purchaseHistories"`
}

type historyDoc struct {
	PharmacyName      string          `json:"pharmacyName"`
	MaskName          string          `json:"maskName"`
	TransactionAmount decimal.Decimal `json:"transactionAmount"`
	TransactionDate   string          `json:"transactionDate"`
}

// Report counts what an import run touched.
type Report struct {
	Pharmacies         int `json:"pharmacies"`
	Masks              int `json:"masks"`
	SkippedSegments    int `json:"skipped_segments"`
	Users              int `json:"users"`
	Purchases          int `json:"purchases"`
	DuplicatePurchases int `json:"duplicate_purchases"`
	SkippedPurchases   int `json:"skipped_purchases"`
}

type Importer struct {
	db         *gorm.DB
	pharmacies repository.PharmacyRepository
	masks      repository.MaskRepository
	users      repository.UserRepository
	purchases  repository.PurchaseRepository
	schedule   service.ScheduleService
	catalog    service.CatalogService
	loc        *time.Location
}

// New builds an importer over db. Purchase history timestamps are read in loc.
func New(
	db *gorm.DB,
	pharmacies repository.PharmacyRepository,
	masks repository.MaskRepository,
	users repository.UserRepository,
	purchases repository.PurchaseRepository,
	scheduleSvc service.ScheduleService,
	catalog service.CatalogService,
	loc *time.Location,
) *Importer {
	if loc == nil {
		loc = time.UTC
	}
	return &Importer{
		db:         db,
		pharmacies: pharmacies,
		masks:      masks,
		users:      users,
		purchases:  purchases,
		schedule:   scheduleSvc,
		catalog:    catalog,
		loc:        loc,
	}
}

// Import validates data against the schema for kind and loads it.
func (im *Importer) Import(ctx context.Context, kind Kind, data []byte) (Report, error) {
	if err := Validate(kind, data); err != nil {
		return Report{}, err
	}
	switch kind {
	case KindPharmacies:
		var docs []pharmacyDoc
		if err := json.Unmarshal(data, &docs); err != nil {
			return Report{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return im.importPharmacies(ctx, docs)
	case KindUsers:
		var docs []userDoc
		if err := json.Unmarshal(data, &docs); err != nil {
			return Report{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return im.importUsers(ctx, docs)
	default:
		return Report{}, fmt.Errorf("unknown import kind %q", kind)
	}
}

// ── Pharmacies ────────────────────────────────────────────────────────────────
// Upsert by name; the schedule is re-parsed and replaced, masks are upserted
// by (pharmacy, name) with the document's price.

func (im *Importer) importPharmacies(ctx context.Context, docs []pharmacyDoc) (Report, error) {
	var rep Report
	for _, doc := range docs {
		err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := im.upsertPharmacy(tx, doc)
			if err != nil {
				return err
			}
			parsed, err := im.schedule.ReplaceForPharmacyTx(tx, p, doc.OpeningHours)
			if err != nil {
				return err
			}
			rep.SkippedSegments += len(parsed.Skipped)

			for _, md := range doc.Masks {
				m := model.Mask{PharmacyID: p.ID, Name: md.Name, Price: md.Price}
				if err := im.masks.UpsertTx(tx, &m); err != nil {
					return fmt.Errorf("mask %q: %w", md.Name, err)
				}
				rep.Masks++
			}
			return nil
		})
		if err != nil {
			return rep, fmt.Errorf("pharmacy %q: %w", doc.Name, err)
		}
		rep.Pharmacies++
	}

	im.catalog.InvalidateMasks(ctx)
	log.Info().
		Int("pharmacies", rep.Pharmacies).
		Int("masks", rep.Masks).
		Int("skipped_segments", rep.SkippedSegments).
		Msg("pharmacies imported")
	return rep, nil
}

func (im *Importer) upsertPharmacy(tx *gorm.DB, doc pharmacyDoc) (*model.Pharmacy, error) {
	p, err := im.pharmacies.FindByNameTx(tx, doc.Name)
	switch {
	case err == nil:
		if err := im.pharmacies.UpdateProfileTx(tx, p.ID, doc.CashBalance, doc.OpeningHours); err != nil {
			return nil, err
		}
		p.CashBalance = doc.CashBalance
		p.OpeningHours = doc.OpeningHours
		return p, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = &model.Pharmacy{Name: doc.Name, CashBalance: doc.CashBalance, OpeningHours: doc.OpeningHours}
		return p, im.pharmacies.CreateTx(tx, p)
	default:
		return nil, err
	}
}

// ── Users ─────────────────────────────────────────────────────────────────────
// Upsert by the first user carrying the name. Histories pointing at unknown
// pharmacies or masks are logged and skipped; an identical record already in
// the ledger is not inserted again.

func (im *Importer) importUsers(ctx context.Context, docs []userDoc) (Report, error) {
	var rep Report
	for _, doc := range docs {
		err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			u, err := im.upsertUser(tx, doc)
			if err != nil {
				return err
			}
			for _, h := range doc.PurchaseHistories {
				created, err := im.importHistory(tx, u, h)
				if err != nil {
					return err
				}
				switch created {
				case historyCreated:
					rep.Purchases++
				case historyDuplicate:
					rep.DuplicatePurchases++
				case historySkipped:
					rep.SkippedPurchases++
				}
			}
			return nil
		})
		if err != nil {
			return rep, fmt.Errorf("user %q: %w", doc.Name, err)
		}
		rep.Users++
	}

	log.Info().
		Int("users", rep.Users).
		Int("purchases", rep.Purchases).
		Int("duplicates", rep.DuplicatePurchases).
		Int("skipped", rep.SkippedPurchases).
		Msg("users imported")
	return rep, nil
}

func (im *Importer) upsertUser(tx *gorm.DB, doc userDoc) (*model.User, error) {
	existing, err := im.users.ListByNameTx(tx, doc.Name)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		u := &model.User{Name: doc.Name, CashBalance: doc.CashBalance}
		return u, im.users.CreateTx(tx, u)
	}
	u := &existing[0]
	if err := im.users.SetBalanceTx(tx, u.ID, doc.CashBalance); err != nil {
		return nil, err
	}
	u.CashBalance = doc.CashBalance
	return u, nil
}

type historyOutcome int

const (
	historyCreated historyOutcome = iota
	historyDuplicate
	historySkipped
)

func (im *Importer) importHistory(tx *gorm.DB, u *model.User, h historyDoc) (historyOutcome, error) {
	p, err := im.pharmacies.FindByNameTx(tx, h.PharmacyName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Str("user", u.Name).Str("pharmacy", h.PharmacyName).Msg("pharmacy not found, skipping purchase history")
		return historySkipped, nil
	}
	if err != nil {
		return 0, err
	}
	if _, err := im.masks.FindInPharmacyTx(tx, p.ID, h.MaskName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Str("user", u.Name).Str("pharmacy", p.Name).Str("mask", h.MaskName).Msg("mask not found, skipping purchase history")
			return historySkipped, nil
		}
		return 0, err
	}

	at, err := time.ParseInLocation(historyLayout, h.TransactionDate, im.loc)
	if err != nil {
		log.Error().Str("user", u.Name).Str("transaction_date", h.TransactionDate).Msg("bad transaction date, skipping purchase history")
		return historySkipped, nil
	}

	rec := model.NewImportedPurchaseRecord(u.ID, p.Name, h.MaskName, h.TransactionAmount, at)
	created, err := im.purchases.FirstOrCreateTx(tx, &rec)
	if err != nil {
		return 0, err
	}
	if !created {
		return historyDuplicate, nil
	}
	return historyCreated, nil
}
