package repository

import (
	"context"

	"github.com/ouola/Phantom-backend/internal/model"

	"gorm.io/gorm"
)

// PharmacyHour is an opening-hour row joined with its pharmacy's name.
type PharmacyHour struct {
	ID           uint
	PharmacyID   uint
	PharmacyName string
	Weekday      string
	StartTime    string
	EndTime      string
}

func (h PharmacyHour) OpeningHour() model.OpeningHour {
	return model.OpeningHour{ID: h.ID, PharmacyID: h.PharmacyID, Weekday: h.Weekday, StartTime: h.StartTime, EndTime: h.EndTime}
}

type OpeningHourRepository interface {
	ListByPharmacy(ctx context.Context, pharmacyID uint) ([]model.OpeningHour, error)
	// ListByWeekday loads every row for weekday in a single query.
	ListByWeekday(ctx context.Context, weekday string) ([]PharmacyHour, error)

	// ReplaceForPharmacyTx deletes all rows of the pharmacy, then inserts rows.
	ReplaceForPharmacyTx(tx *gorm.DB, pharmacyID uint, rows []model.OpeningHour) error
	DeleteByPharmacyTx(tx *gorm.DB, pharmacyID uint) error
}

type openingHourRepo struct{ db *gorm.DB }

func NewOpeningHourRepository(db *gorm.DB) OpeningHourRepository {
	return &openingHourRepo{db: db}
}

func (r *openingHourRepo) ListByPharmacy(ctx context.Context, pharmacyID uint) ([]model.OpeningHour, error) {
	var rows []model.OpeningHour
	err := r.db.WithContext(ctx).Where("pharmacy_id = ?", pharmacyID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *openingHourRepo) ListByWeekday(ctx context.Context, weekday string) ([]PharmacyHour, error) {
	var rows []PharmacyHour
	err := r.db.WithContext(ctx).
		Table("opening_hours AS oh").
		Select("oh.id, oh.pharmacy_id, oh.weekday, oh.start_time, oh.end_time, p.name AS pharmacy_name").
		Joins("JOIN pharmacies AS p ON p.id = oh.pharmacy_id").
		Where("oh.weekday = ?", weekday).
		Order("p.name ASC, oh.start_time ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *openingHourRepo) ReplaceForPharmacyTx(tx *gorm.DB, pharmacyID uint, rows []model.OpeningHour) error {
	if err := r.DeleteByPharmacyTx(tx, pharmacyID); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].PharmacyID = pharmacyID
	}
	return tx.Omit("Pharmacy").Create(&rows).Error
}

func (r *openingHourRepo) DeleteByPharmacyTx(tx *gorm.DB, pharmacyID uint) error {
	return tx.Where("pharmacy_id = ?", pharmacyID).Delete(&model.OpeningHour{}).Error
}
