package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vendora/internal/models"
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) GetWithItems(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, wrap("get order", err)
	}
	return &order, nil
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return wrap("create order", err)
	}
	return nil
}

type ruleRepository struct {
	db *gorm.DB
}

func (r *ruleRepository) ListActive(ctx context.Context, now time.Time) ([]models.CommissionRule, error) {
	var rules []models.CommissionRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("priority ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, wrap("list active rules", err)
	}
	return rules, nil
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.CommissionRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return wrap("create rule", err)
	}
	return nil
}

type productRateRepository struct {
	db *gorm.DB
}

func (r *productRateRepository) GetForAffiliate(ctx context.Context, productID, affiliateID uint) (*models.ProductRate, error) {
	var rate models.ProductRate
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND affiliate_id = ?", productID, affiliateID).
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductRateNotFound
		}
		return nil, wrap("get affiliate product rate", err)
	}
	return &rate, nil
}

func (r *productRateRepository) GetForGroup(ctx context.Context, productID, groupID uint) (*models.ProductRate, error) {
	var rate models.ProductRate
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND group_id = ?", productID, groupID).
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductRateNotFound
		}
		return nil, wrap("get group product rate", err)
	}
	return &rate, nil
}

func (r *productRateRepository) Create(ctx context.Context, rate *models.ProductRate) error {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return wrap("create product rate", err)
	}
	return nil
}
