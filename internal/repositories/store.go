// Package repositories provides the data access layer. All
// balance-affecting writes go through Store.InTransaction so that a
// ledger append and the referral or payout row it is paired with commit
// or roll back as one unit.
package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"vendora/internal/models"
)

// Store aggregates the repositories behind a single transactional
// boundary. InTransaction runs fn against a Store whose repositories
// share one database transaction; returning an error rolls everything
// back.
type Store interface {
	Affiliates() AffiliateRepository
	Orders() OrderRepository
	Rules() RuleRepository
	ProductRates() ProductRateRepository
	Referrals() ReferralRepository
	Ledger() LedgerRepository
	Payouts() PayoutRepository
	Users() UserRepository
	Settings() SettingsRepository

	InTransaction(ctx context.Context, fn func(tx Store) error) error
}

// AffiliateRepository accesses affiliate accounts. GetForUpdate takes a
// row-level lock and is only valid inside InTransaction; it is the
// serialization point for every balance read-modify-write.
type AffiliateRepository interface {
	GetByID(ctx context.Context, id uint) (*models.AffiliateAccount, error)
	GetByUserID(ctx context.Context, userID uint) (*models.AffiliateAccount, error)
	GetForUpdate(ctx context.Context, id uint) (*models.AffiliateAccount, error)
	Create(ctx context.Context, acct *models.AffiliateAccount) error
	UpdateBalance(ctx context.Context, id uint, balance, totalEarnings decimal.Decimal) error
}

// OrderRepository reads order snapshots handed over by the checkout
// pipeline.
type OrderRepository interface {
	GetWithItems(ctx context.Context, id uint) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
}

// RuleRepository reads commission rules. ListActive returns active,
// non-expired rules in ascending priority order.
type RuleRepository interface {
	ListActive(ctx context.Context, now time.Time) ([]models.CommissionRule, error)
	Create(ctx context.Context, rule *models.CommissionRule) error
}

// ProductRateRepository reads per-product commission overrides.
type ProductRateRepository interface {
	GetForAffiliate(ctx context.Context, productID, affiliateID uint) (*models.ProductRate, error)
	GetForGroup(ctx context.Context, productID, groupID uint) (*models.ProductRate, error)
	Create(ctx context.Context, rate *models.ProductRate) error
}

// ReferralRepository accesses commission records.
type ReferralRepository interface {
	// GetPrimaryByOrderID returns the level-0 referral for an order,
	// which is the idempotency check for order processing.
	GetPrimaryByOrderID(ctx context.Context, orderID uint) (*models.Referral, error)
	Create(ctx context.Context, ref *models.Referral) error
	ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.Referral, error)
	ListByOrder(ctx context.Context, orderID uint) ([]models.Referral, error)
}

// LedgerRepository accesses the append-only journal. There is
// deliberately no update or delete.
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.LedgerEntry, error)
	// ListAllByAffiliate returns every entry in insertion order, for
	// balance replay and reconciliation.
	ListAllByAffiliate(ctx context.Context, affiliateID uint) ([]models.LedgerEntry, error)
}

// PayoutRepository accesses withdrawal requests.
type PayoutRepository interface {
	GetByID(ctx context.Context, id uint) (*models.AffiliatePayout, error)
	GetForUpdate(ctx context.Context, id uint) (*models.AffiliatePayout, error)
	Create(ctx context.Context, payout *models.AffiliatePayout) error
	Update(ctx context.Context, payout *models.AffiliatePayout) error
	ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.AffiliatePayout, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.AffiliatePayout, error)
}

// UserRepository accesses platform identities for the auth surface.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	IncrementTokenVersion(ctx context.Context, id uint) error
}

// SettingsRepository reads the program configuration row.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.ProgramSettings, error)
	ListMLMLevels(ctx context.Context) ([]models.MLMLevelRate, error)
	Save(ctx context.Context, settings *models.ProgramSettings) error
}
