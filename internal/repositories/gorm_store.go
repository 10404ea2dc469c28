package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore creates the gorm-backed Store.
func NewStore(db *gorm.DB) Store {
	if db == nil {
		panic("db is required")
	}
	return &gormStore{db: db}
}

func (s *gormStore) Affiliates() AffiliateRepository     { return &affiliateRepository{db: s.db} }
func (s *gormStore) Orders() OrderRepository             { return &orderRepository{db: s.db} }
func (s *gormStore) Rules() RuleRepository               { return &ruleRepository{db: s.db} }
func (s *gormStore) ProductRates() ProductRateRepository { return &productRateRepository{db: s.db} }
func (s *gormStore) Referrals() ReferralRepository       { return &referralRepository{db: s.db} }
func (s *gormStore) Ledger() LedgerRepository            { return &ledgerRepository{db: s.db} }
func (s *gormStore) Payouts() PayoutRepository           { return &payoutRepository{db: s.db} }
func (s *gormStore) Users() UserRepository               { return &userRepository{db: s.db} }
func (s *gormStore) Settings() SettingsRepository        { return &settingsRepository{db: s.db} }

// InTransaction runs fn inside a database transaction. Row locks taken
// via GetForUpdate are held until commit, which is what serializes
// concurrent balance mutations on the same affiliate.
func (s *gormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
