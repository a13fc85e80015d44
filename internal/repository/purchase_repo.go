package repository

import (
	"context"

	"github.com/ouola/Phantom-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SpenderTotal is the amount one user spent in a date range.
type SpenderTotal struct {
	UserID      uint
	Name        string
	TotalAmount decimal.Decimal
}

// LedgerTotals aggregates the ledger over a date range.
type LedgerTotals struct {
	Records     int64
	Quantity    int64
	TotalAmount decimal.Decimal
}

// Date arguments are inclusive "YYYY-MM-DD" bounds compared against
// transaction_date.
type PurchaseRepository interface {
	FindByID(ctx context.Context, id uint) (*model.PurchaseRecord, error)
	ListBetween(ctx context.Context, startDate, endDate string) ([]model.PurchaseRecord, error)
	// SumByUser returns one row per user with purchases in the range. Order is
	// left to the caller.
	SumByUser(ctx context.Context, startDate, endDate string) ([]SpenderTotal, error)
	Totals(ctx context.Context, startDate, endDate string) (LedgerTotals, error)

	CreateTx(tx *gorm.DB, rec *model.PurchaseRecord) error
	// FirstOrCreateTx inserts rec unless an identical entry exists. It reports
	// whether a row was inserted.
	FirstOrCreateTx(tx *gorm.DB, rec *model.PurchaseRecord) (bool, error)
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) FindByID(ctx context.Context, id uint) (*model.PurchaseRecord, error) {
	var rec model.PurchaseRecord
	err := r.db.WithContext(ctx).Preload("User").First(&rec, id).Error
	return &rec, err
}

func (r *purchaseRepo) ListBetween(ctx context.Context, startDate, endDate string) ([]model.PurchaseRecord, error) {
	var recs []model.PurchaseRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("transaction_date >= ? AND transaction_date <= ?", startDate, endDate).
		Order("transaction_date ASC, transaction_time ASC, id ASC").
		Find(&recs).Error
	return recs, err
}

func (r *purchaseRepo) SumByUser(ctx context.Context, startDate, endDate string) ([]SpenderTotal, error) {
	var out []SpenderTotal
	err := r.db.WithContext(ctx).
		Table("purchase_histories AS ph").
		Select("u.id AS user_id, u.name AS name, SUM(ph.transaction_amount) AS total_amount").
		Joins("JOIN users AS u ON u.id = ph.user_id").
		Where("ph.transaction_date >= ? AND ph.transaction_date <= ?", startDate, endDate).
		Group("u.id, u.name").
		Scan(&out).Error
	for i := range out {
		// sqlite sums decimals as floats
		out[i].TotalAmount = out[i].TotalAmount.Round(2)
	}
	return out, err
}

func (r *purchaseRepo) Totals(ctx context.Context, startDate, endDate string) (LedgerTotals, error) {
	var out LedgerTotals
	err := r.db.WithContext(ctx).
		Model(&model.PurchaseRecord{}).
		Select("COUNT(*) AS records, COALESCE(SUM(quantity), 0) AS quantity, COALESCE(SUM(transaction_amount), 0) AS total_amount").
		Where("transaction_date >= ? AND transaction_date <= ?", startDate, endDate).
		Scan(&out).Error
	out.TotalAmount = out.TotalAmount.Round(2)
	return out, err
}

func (r *purchaseRepo) CreateTx(tx *gorm.DB, rec *model.PurchaseRecord) error {
	return tx.Omit("User").Create(rec).Error
}

func (r *purchaseRepo) FirstOrCreateTx(tx *gorm.DB, rec *model.PurchaseRecord) (bool, error) {
	var existing model.PurchaseRecord
	res := tx.
		Where("user_id = ? AND pharmacy_name = ? AND mask_name = ? AND transaction_date = ? AND transaction_time = ? AND transaction_amount = ?",
			rec.UserID, rec.PharmacyName, rec.MaskName, rec.TransactionDate, rec.TransactionTime, rec.TransactionAmount).
		Limit(1).
		Find(&existing)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		*rec = existing
		return false, nil
	}
	return true, r.CreateTx(tx, rec)
}
