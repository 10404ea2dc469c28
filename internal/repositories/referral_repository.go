package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vendora/internal/models"
)

type referralRepository struct {
	db *gorm.DB
}

func (r *referralRepository) GetPrimaryByOrderID(ctx context.Context, orderID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND level = 0", orderID).
		First(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, wrap("get primary referral", err)
	}
	return &ref, nil
}

func (r *referralRepository) Create(ctx context.Context, ref *models.Referral) error {
	if err := r.db.WithContext(ctx).Create(ref).Error; err != nil {
		// Unique (order_id, level) violation means a concurrent caller
		// already recorded this commission.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReferral
		}
		return wrap("create referral", err)
	}
	return nil
}

func (r *referralRepository) ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.Referral, error) {
	var refs []models.Referral
	err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&refs).Error
	if err != nil {
		return nil, wrap("list referrals", err)
	}
	return refs, nil
}

func (r *referralRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.Referral, error) {
	var refs []models.Referral
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("level ASC").
		Find(&refs).Error
	if err != nil {
		return nil, wrap("list referrals by order", err)
	}
	return refs, nil
}

type ledgerRepository struct {
	db *gorm.DB
}

func (r *ledgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return wrap("append ledger entry", err)
	}
	return nil
}

func (r *ledgerRepository) ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, wrap("list ledger entries", err)
	}
	return entries, nil
}

func (r *ledgerRepository) ListAllByAffiliate(ctx context.Context, affiliateID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, wrap("list all ledger entries", err)
	}
	return entries, nil
}
