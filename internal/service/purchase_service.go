package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ouola/Phantom-backend/internal/dto"
	"github.com/ouola/Phantom-backend/internal/infra"
	"github.com/ouola/Phantom-backend/internal/model"
	"github.com/ouola/Phantom-backend/internal/repository"
	"github.com/ouola/Phantom-backend/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	Purchase(ctx context.Context, req dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	// Receipt renders a stored purchase as a PDF.
	Receipt(ctx context.Context, id uint) ([]byte, error)
}

type purchaseService struct {
	users      repository.UserRepository
	pharmacies repository.PharmacyRepository
	masks      repository.MaskRepository
	purchases  repository.PurchaseRepository
	dispatcher *worker.Dispatcher
	now        func() time.Time
}

// NewPurchaseService builds the ledger service. now stamps every record and
// should already be in the configured timezone.
func NewPurchaseService(
	users repository.UserRepository,
	pharmacies repository.PharmacyRepository,
	masks repository.MaskRepository,
	purchases repository.PurchaseRepository,
	dispatcher *worker.Dispatcher,
	now func() time.Time,
) PurchaseService {
	if now == nil {
		now = time.Now
	}
	return &purchaseService{
		users:      users,
		pharmacies: pharmacies,
		masks:      masks,
		purchases:  purchases,
		dispatcher: dispatcher,
		now:        now,
	}
}

// ── Purchase ──────────────────────────────────────────────────────────────────
// One transaction:
//   1. Lock buyer row, then pharmacy row (FOR UPDATE on postgres)
//   2. Price from the pharmacy's catalog, total = price × quantity
//   3. Reject when the buyer cannot cover the total
//   4. Version-guarded debit of the buyer and credit of the pharmacy
//   5. Append the ledger record
// Any failure rolls back all three writes.

func (s *purchaseService) Purchase(ctx context.Context, req dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}
	if strings.TrimSpace(req.PharmacyName) == "" || strings.TrimSpace(req.MaskName) == "" {
		return nil, fmt.Errorf("%w: pharmacy_name and mask_name are required", ErrValidation)
	}
	if req.UserID == nil && strings.TrimSpace(req.UserName) == "" {
		return nil, fmt.Errorf("%w: user_name or user_id is required", ErrValidation)
	}

	var (
		rec   model.PurchaseRecord
		buyer *model.User
	)
	txErr := runTx(ctx, s.users.DB(), func(tx *gorm.DB) error {
		var err error
		buyer, err = s.lockBuyer(tx, req)
		if err != nil {
			return err
		}
		pharmacy, err := s.pharmacies.FindByNameForUpdateTx(tx, req.PharmacyName)
		if err != nil {
			return notFound(err, "pharmacy %q", req.PharmacyName)
		}
		mask, err := s.masks.FindInPharmacyTx(tx, pharmacy.ID, req.MaskName)
		if err != nil {
			return notFound(err, "mask %q in pharmacy %q", req.MaskName, req.PharmacyName)
		}

		total := mask.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if buyer.CashBalance.LessThan(total) {
			return fmt.Errorf("%w: balance %s is below total %s",
				ErrInsufficientFunds, buyer.CashBalance.StringFixed(2), total.StringFixed(2))
		}

		buyerBalance := buyer.CashBalance.Sub(total)
		if err := s.users.UpdateBalanceTx(tx, buyer.ID, buyerBalance, buyer.Version); err != nil {
			return staleAsConflict(err, "user %d", buyer.ID)
		}
		if err := s.pharmacies.UpdateBalanceTx(tx, pharmacy.ID, pharmacy.CashBalance.Add(total), pharmacy.Version); err != nil {
			return staleAsConflict(err, "pharmacy %q", pharmacy.Name)
		}
		buyer.CashBalance = buyerBalance

		rec = model.NewPurchaseRecord(buyer.ID, pharmacy.Name, mask.Name, mask.Price, req.Quantity, s.now())
		return s.purchases.CreateTx(tx, &rec)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Uint("purchase_id", rec.ID).
		Uint("user_id", rec.UserID).
		Str("pharmacy", rec.PharmacyName).
		Str("mask", rec.MaskName).
		Int("quantity", rec.Quantity).
		Str("amount", rec.TransactionAmount.StringFixed(2)).
		Msg("purchase completed")

	// Best effort: the purchase is already committed
	if err := s.dispatcher.EnqueuePurchase(ctx, worker.PurchaseEvent{
		RecordID:          rec.ID,
		UserID:            rec.UserID,
		PharmacyName:      rec.PharmacyName,
		MaskName:          rec.MaskName,
		Quantity:          rec.Quantity,
		TransactionAmount: rec.TransactionAmount.StringFixed(2),
	}); err != nil {
		log.Error().Err(err).Uint("purchase_id", rec.ID).Msg("failed to enqueue purchase event")
	}

	return toPurchaseResponse(rec, buyer), nil
}

// lockBuyer resolves the buyer by id, or by name when no id is given, and
// returns the row locked for the rest of the transaction.
func (s *purchaseService) lockBuyer(tx *gorm.DB, req dto.PurchaseRequest) (*model.User, error) {
	id := uint(0)
	if req.UserID != nil {
		id = *req.UserID
	} else {
		matches, err := s.users.ListByNameTx(tx, req.UserName)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, req.UserName)
		case 1:
			id = matches[0].ID
		default:
			return nil, fmt.Errorf("%w: user name %q is ambiguous, pass user_id", ErrConflict, req.UserName)
		}
	}
	u, err := s.users.FindByIDForUpdateTx(tx, id)
	if err != nil {
		return nil, notFound(err, "user %d", id)
	}
	return u, nil
}

func staleAsConflict(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrStaleVersion) {
		return fmt.Errorf("%w: %s was modified concurrently, retry", ErrConflict, fmt.Sprintf(format, args...))
	}
	return err
}

func toPurchaseResponse(rec model.PurchaseRecord, buyer *model.User) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:                rec.ID,
		UserID:            rec.UserID,
		UserName:          buyer.Name,
		PharmacyName:      rec.PharmacyName,
		MaskName:          rec.MaskName,
		Quantity:          rec.Quantity,
		UnitPrice:         rec.UnitPrice,
		TransactionAmount: rec.TransactionAmount,
		TransactionDate:   rec.TransactionDate,
		TransactionTime:   rec.TransactionTime,
		DayOfWeek:         rec.DayOfWeek,
		UserCashBalance:   buyer.CashBalance,
	}
}

// ── Receipt ───────────────────────────────────────────────────────────────────

func (s *purchaseService) Receipt(ctx context.Context, id uint) ([]byte, error) {
	rec, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "purchase %d", id)
	}
	buyer := ""
	if rec.User != nil {
		buyer = rec.User.Name
	}
	return infra.RenderPurchaseReceipt(rec, buyer)
}
