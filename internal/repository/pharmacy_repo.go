package repository

import (
	"context"

	"github.com/ouola/Phantom-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PharmacyMaskCount is one row of the masks-in-price-range report.
type PharmacyMaskCount struct {
	PharmacyID uint
	Name       string
	MaskCount  int64
}

// CountComparison selects the HAVING direction of CountMasksInPriceRange.
type CountComparison int

const (
	AtLeast CountComparison = iota
	AtMost
)

type PharmacyRepository interface {
	FindByName(ctx context.Context, name string) (*model.Pharmacy, error)
	Search(ctx context.Context, term string) ([]model.Pharmacy, error)
	// CountMasksInPriceRange counts, per pharmacy, the masks priced within
	// [minPrice, maxPrice] and keeps pharmacies whose count is >= (AtLeast) or
	// <= (AtMost) threshold. Pharmacies without matching masks count as 0.
	CountMasksInPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal, cmp CountComparison, threshold int64) ([]PharmacyMaskCount, error)

	// Used inside transactions; callers must pass the tx instance
	FindByNameTx(tx *gorm.DB, name string) (*model.Pharmacy, error)
	FindByNameForUpdateTx(tx *gorm.DB, name string) (*model.Pharmacy, error)
	CreateTx(tx *gorm.DB, p *model.Pharmacy) error
	UpdateProfileTx(tx *gorm.DB, id uint, balance decimal.Decimal, openingHours string) error
	// UpdateBalanceTx writes balance only if the row is still at version.
	UpdateBalanceTx(tx *gorm.DB, id uint, balance decimal.Decimal, version int) error
	DeleteTx(tx *gorm.DB, id uint) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type pharmacyRepo struct{ db *gorm.DB }

func NewPharmacyRepository(db *gorm.DB) PharmacyRepository { return &pharmacyRepo{db: db} }

func (r *pharmacyRepo) DB() *gorm.DB { return r.db }

func (r *pharmacyRepo) FindByName(ctx context.Context, name string) (*model.Pharmacy, error) {
	return r.FindByNameTx(r.db.WithContext(ctx), name)
}

func (r *pharmacyRepo) Search(ctx context.Context, term string) ([]model.Pharmacy, error) {
	var out []model.Pharmacy
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(term)).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *pharmacyRepo) CountMasksInPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal, cmp CountComparison, threshold int64) ([]PharmacyMaskCount, error) {
	having := "COUNT(m.id) >= ?"
	if cmp == AtMost {
		having = "COUNT(m.id) <= ?"
	}
	var out []PharmacyMaskCount
	err := r.db.WithContext(ctx).
		Table("pharmacies AS p").
		Select("p.id AS pharmacy_id, p.name AS name, COUNT(m.id) AS mask_count").
		Joins("LEFT JOIN masks AS m ON m.pharmacy_id = p.id AND m.price >= ? AND m.price <= ?", minPrice, maxPrice).
		Group("p.id, p.name").
		Having(having, threshold).
		Order("p.name ASC").
		Scan(&out).Error
	return out, err
}

func (r *pharmacyRepo) FindByNameTx(tx *gorm.DB, name string) (*model.Pharmacy, error) {
	var p model.Pharmacy
	err := tx.Where("name = ?", name).First(&p).Error
	return &p, err
}

func (r *pharmacyRepo) FindByNameForUpdateTx(tx *gorm.DB, name string) (*model.Pharmacy, error) {
	var p model.Pharmacy
	err := forUpdate(tx).Where("name = ?", name).First(&p).Error
	return &p, err
}

func (r *pharmacyRepo) CreateTx(tx *gorm.DB, p *model.Pharmacy) error {
	return tx.Omit("Masks", "Hours").Create(p).Error
}

func (r *pharmacyRepo) UpdateProfileTx(tx *gorm.DB, id uint, balance decimal.Decimal, openingHours string) error {
	return tx.Model(&model.Pharmacy{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cash_balance":  balance,
		"opening_hours": openingHours,
		"version":       gorm.Expr("version + 1"),
	}).Error
}

func (r *pharmacyRepo) UpdateBalanceTx(tx *gorm.DB, id uint, balance decimal.Decimal, version int) error {
	res := tx.Model(&model.Pharmacy{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"cash_balance": balance,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrStaleVersion
	}
	return nil
}

func (r *pharmacyRepo) DeleteTx(tx *gorm.DB, id uint) error {
	res := tx.Delete(&model.Pharmacy{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
