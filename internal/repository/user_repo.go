package repository

import (
	"context"

	"github.com/ouola/Phantom-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.User, error)
	// ListByNameTx returns every user called name, oldest first.
	ListByNameTx(tx *gorm.DB, name string) ([]model.User, error)
	CreateTx(tx *gorm.DB, u *model.User) error
	SetBalanceTx(tx *gorm.DB, id uint, balance decimal.Decimal) error
	// UpdateBalanceTx writes balance only if the row is still at version.
	UpdateBalanceTx(tx *gorm.DB, id uint, balance decimal.Decimal, version int) error

	DB() *gorm.DB
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) DB() *gorm.DB { return r.db }

func (r *userRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *userRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.User, error) {
	var u model.User
	err := forUpdate(tx).First(&u, id).Error
	return &u, err
}

func (r *userRepo) ListByNameTx(tx *gorm.DB, name string) ([]model.User, error) {
	var users []model.User
	err := tx.Where("name = ?", name).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) CreateTx(tx *gorm.DB, u *model.User) error {
	return tx.Create(u).Error
}

func (r *userRepo) SetBalanceTx(tx *gorm.DB, id uint, balance decimal.Decimal) error {
	return tx.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cash_balance": balance,
		"version":      gorm.Expr("version + 1"),
	}).Error
}

func (r *userRepo) UpdateBalanceTx(tx *gorm.DB, id uint, balance decimal.Decimal, version int) error {
	res := tx.Model(&model.User{}).
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
