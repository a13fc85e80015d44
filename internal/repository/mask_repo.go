package repository

import (
	"context"

	"github.com/ouola/Phantom-backend/internal/model"

	"gorm.io/gorm"
)

// MaskSort is the ordering of ListByPharmacy.
type MaskSort string

const (
	MaskSortName  MaskSort = "name"
	MaskSortPrice MaskSort = "price"
)

type MaskRepository interface {
	ListByPharmacy(ctx context.Context, pharmacyID uint, sortBy MaskSort) ([]model.Mask, error)
	// Search returns masks whose name contains term, with Pharmacy preloaded.
	Search(ctx context.Context, term string) ([]model.Mask, error)

	FindInPharmacyTx(tx *gorm.DB, pharmacyID uint, name string) (*model.Mask, error)
	// UpsertTx inserts m or, when (pharmacy, name) exists, updates its price.
	UpsertTx(tx *gorm.DB, m *model.Mask) error
	DeleteByPharmacyTx(tx *gorm.DB, pharmacyID uint) error
}

type maskRepo struct{ db *gorm.DB }

func NewMaskRepository(db *gorm.DB) MaskRepository { return &maskRepo{db: db} }

func (r *maskRepo) ListByPharmacy(ctx context.Context, pharmacyID uint, sortBy MaskSort) ([]model.Mask, error) {
	order := "name ASC, id ASC"
	if sortBy == MaskSortPrice {
		order = "price ASC, name ASC, id ASC"
	}
	var masks []model.Mask
	err := r.db.WithContext(ctx).Where("pharmacy_id = ?", pharmacyID).Order(order).Find(&masks).Error
	return masks, err
}

func (r *maskRepo) Search(ctx context.Context, term string) ([]model.Mask, error) {
	var masks []model.Mask
	err := r.db.WithContext(ctx).
		Preload("Pharmacy").
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(term)).
		Order("name ASC, id ASC").
		Find(&masks).Error
	return masks, err
}

func (r *maskRepo) FindInPharmacyTx(tx *gorm.DB, pharmacyID uint, name string) (*model.Mask, error) {
	var m model.Mask
	err := tx.Where("pharmacy_id = ? AND name = ?", pharmacyID, name).First(&m).Error
	return &m, err
}

func (r *maskRepo) UpsertTx(tx *gorm.DB, m *model.Mask) error {
	existing, err := r.FindInPharmacyTx(tx, m.PharmacyID, m.Name)
	switch {
	case err == nil:
		m.ID = existing.ID
		return tx.Model(existing).Update("price", m.Price).Error
	case err == gorm.ErrRecordNotFound:
		return tx.Omit("Pharmacy").Create(m).Error
	default:
		return err
	}
}

func (r *maskRepo) DeleteByPharmacyTx(tx *gorm.DB, pharmacyID uint) error {
	return tx.Where("pharmacy_id = ?", pharmacyID).Delete(&model.Mask{}).Error
}
