package repositories

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vendora/internal/models"
)

type affiliateRepository struct {
	db *gorm.DB
}

func (r *affiliateRepository) GetByID(ctx context.Context, id uint) (*models.AffiliateAccount, error) {
	var acct models.AffiliateAccount
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Tier").
		First(&acct, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, wrap("get affiliate", err)
	}
	return &acct, nil
}

func (r *affiliateRepository) GetByUserID(ctx context.Context, userID uint) (*models.AffiliateAccount, error) {
	var acct models.AffiliateAccount
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Tier").
		Where("user_id = ?", userID).
		First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, wrap("get affiliate by user", err)
	}
	return &acct, nil
}

// GetForUpdate locks the account row for the duration of the enclosing
// transaction (SELECT ... FOR UPDATE). Callers must be inside
// Store.InTransaction.
func (r *affiliateRepository) GetForUpdate(ctx context.Context, id uint) (*models.AffiliateAccount, error) {
	var acct models.AffiliateAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAffiliateNotFound
		}
		return nil, wrap("lock affiliate", err)
	}
	return &acct, nil
}

func (r *affiliateRepository) Create(ctx context.Context, acct *models.AffiliateAccount) error {
	if err := r.db.WithContext(ctx).Create(acct).Error; err != nil {
		return wrap("create affiliate", err)
	}
	return nil
}

func (r *affiliateRepository) UpdateBalance(ctx context.Context, id uint, balance, totalEarnings decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.AffiliateAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":        balance,
			"total_earnings": totalEarnings,
		})
	if result.Error != nil {
		return wrap("update affiliate balance", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAffiliateNotFound
	}
	return nil
}
