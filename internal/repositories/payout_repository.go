package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vendora/internal/models"
)

type payoutRepository struct {
	db *gorm.DB
}

func (r *payoutRepository) GetByID(ctx context.Context, id uint) (*models.AffiliatePayout, error) {
	var payout models.AffiliatePayout
	if err := r.db.WithContext(ctx).First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, wrap("get payout", err)
	}
	return &payout, nil
}

// GetForUpdate locks the payout row so concurrent approve/reject calls
// on the same payout serialize. Only valid inside InTransaction.
func (r *payoutRepository) GetForUpdate(ctx context.Context, id uint) (*models.AffiliatePayout, error) {
	var payout models.AffiliatePayout
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payout, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, wrap("lock payout", err)
	}
	return &payout, nil
}

func (r *payoutRepository) Create(ctx context.Context, payout *models.AffiliatePayout) error {
	if err := r.db.WithContext(ctx).Create(payout).Error; err != nil {
		return wrap("create payout", err)
	}
	return nil
}

func (r *payoutRepository) Update(ctx context.Context, payout *models.AffiliatePayout) error {
	if err := r.db.WithContext(ctx).Save(payout).Error; err != nil {
		return wrap("update payout", err)
	}
	return nil
}

func (r *payoutRepository) ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.AffiliatePayout, error) {
	var payouts []models.AffiliatePayout
	err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payouts).Error
	if err != nil {
		return nil, wrap("list payouts", err)
	}
	return payouts, nil
}

func (r *payoutRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.AffiliatePayout, error) {
	var payouts []models.AffiliatePayout
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&payouts).Error
	if err != nil {
		return nil, wrap("list payouts by status", err)
	}
	return payouts, nil
}
