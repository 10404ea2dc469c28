// Package memstore is an in-memory implementation of
// repositories.Store used by service tests and local development
// fixtures. Transactions are serialized by a single mutex and rolled
// back by restoring a snapshot, which preserves the same observable
// semantics as the row-locked postgres store: balance read-modify-write
// cycles on one account never interleave.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"vendora/internal/models"
	"vendora/internal/repositories"
)

type state struct {
	affiliates map[uint]models.AffiliateAccount
	groups     map[uint]models.AffiliateGroup
	tiers      map[uint]models.AffiliateTier
	orders     map[uint]models.Order
	rules      map[uint]models.CommissionRule
	rates      map[uint]models.ProductRate
	referrals  map[uint]models.Referral
	ledger     []models.LedgerEntry
	payouts    map[uint]models.AffiliatePayout
	users      map[uint]models.User
	settings   *models.ProgramSettings
	mlmLevels  []models.MLMLevelRate
	nextID     uint
}

func newState() *state {
	return &state{
		affiliates: make(map[uint]models.AffiliateAccount),
		groups:     make(map[uint]models.AffiliateGroup),
		tiers:      make(map[uint]models.AffiliateTier),
		orders:     make(map[uint]models.Order),
		rules:      make(map[uint]models.CommissionRule),
		rates:      make(map[uint]models.ProductRate),
		referrals:  make(map[uint]models.Referral),
		payouts:    make(map[uint]models.AffiliatePayout),
		users:      make(map[uint]models.User),
	}
}

func (s *state) id() uint {
	s.nextID++
	return s.nextID
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.affiliates {
		c.affiliates[k] = v
	}
	for k, v := range s.groups {
		c.groups[k] = v
	}
	for k, v := range s.tiers {
		c.tiers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.rules {
		c.rules[k] = v
	}
	for k, v := range s.rates {
		c.rates[k] = v
	}
	for k, v := range s.referrals {
		c.referrals[k] = v
	}
	for k, v := range s.payouts {
		c.payouts[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.ledger = append([]models.LedgerEntry(nil), s.ledger...)
	c.mlmLevels = append([]models.MLMLevelRate(nil), s.mlmLevels...)
	if s.settings != nil {
		cp := *s.settings
		c.settings = &cp
	}
	c.nextID = s.nextID
	return c
}

// Memory is the in-memory Store.
type Memory struct {
	mu    sync.Mutex
	state *state
	// inTx is true on the Store handed to an InTransaction callback,
	// whose operations run under the already-held mutex.
	inTx bool
}

// New creates an empty in-memory store.
func New() *Memory {
	return &Memory{state: newState()}
}

func (m *Memory) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// InTransaction serializes fn against all other transactions and rolls
// the state back when fn returns an error.
func (m *Memory) InTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	tx := &Memory{state: m.state, inTx: true}
	if err := fn(tx); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *Memory) Affiliates() repositories.AffiliateRepository     { return &affiliates{m} }
func (m *Memory) Orders() repositories.OrderRepository             { return &orders{m} }
func (m *Memory) Rules() repositories.RuleRepository               { return &rules{m} }
func (m *Memory) ProductRates() repositories.ProductRateRepository { return &productRates{m} }
func (m *Memory) Referrals() repositories.ReferralRepository       { return &referrals{m} }
func (m *Memory) Ledger() repositories.LedgerRepository            { return &ledgerRepo{m} }
func (m *Memory) Payouts() repositories.PayoutRepository           { return &payouts{m} }
func (m *Memory) Users() repositories.UserRepository               { return &users{m} }
func (m *Memory) Settings() repositories.SettingsRepository        { return &settings{m} }

// SeedGroup registers a group and returns its id.
func (m *Memory) SeedGroup(g models.AffiliateGroup) uint {
	defer m.lock()()
	if g.ID == 0 {
		g.ID = m.state.id()
	}
	m.state.groups[g.ID] = g
	return g.ID
}

// SeedTier registers a tier and returns its id.
func (m *Memory) SeedTier(t models.AffiliateTier) uint {
	defer m.lock()()
	if t.ID == 0 {
		t.ID = m.state.id()
	}
	m.state.tiers[t.ID] = t
	return t.ID
}

// SeedMLMLevel registers one per-level decay rate.
func (m *Memory) SeedMLMLevel(level int, rate decimal.Decimal) {
	defer m.lock()()
	m.state.mlmLevels = append(m.state.mlmLevels, models.MLMLevelRate{
		ID:    m.state.id(),
		Level: level,
		Rate:  rate,
	})
}

type affiliates struct{ m *Memory }

func (r *affiliates) get(id uint) (*models.AffiliateAccount, error) {
	acct, ok := r.m.state.affiliates[id]
	if !ok {
		return nil, repositories.ErrAffiliateNotFound
	}
	cp := acct
	if cp.GroupID != nil {
		if g, ok := r.m.state.groups[*cp.GroupID]; ok {
			gc := g
			cp.Group = &gc
		}
	}
	if cp.TierID != nil {
		if t, ok := r.m.state.tiers[*cp.TierID]; ok {
			tc := t
			cp.Tier = &tc
		}
	}
	return &cp, nil
}

func (r *affiliates) GetByID(ctx context.Context, id uint) (*models.AffiliateAccount, error) {
	defer r.m.lock()()
	return r.get(id)
}

func (r *affiliates) GetByUserID(ctx context.Context, userID uint) (*models.AffiliateAccount, error) {
	defer r.m.lock()()
	for id, acct := range r.m.state.affiliates {
		if acct.UserID == userID {
			return r.get(id)
		}
	}
	return nil, repositories.ErrAffiliateNotFound
}

func (r *affiliates) GetForUpdate(ctx context.Context, id uint) (*models.AffiliateAccount, error) {
	defer r.m.lock()()
	return r.get(id)
}

func (r *affiliates) Create(ctx context.Context, acct *models.AffiliateAccount) error {
	defer r.m.lock()()
	if acct.ID == 0 {
		acct.ID = r.m.state.id()
	}
	acct.CreatedAt = time.Now()
	r.m.state.affiliates[acct.ID] = *acct
	return nil
}

func (r *affiliates) UpdateBalance(ctx context.Context, id uint, balance, totalEarnings decimal.Decimal) error {
	defer r.m.lock()()
	acct, ok := r.m.state.affiliates[id]
	if !ok {
		return repositories.ErrAffiliateNotFound
	}
	acct.Balance = balance
	acct.TotalEarnings = totalEarnings
	r.m.state.affiliates[id] = acct
	return nil
}

type orders struct{ m *Memory }

func (r *orders) GetWithItems(ctx context.Context, id uint) (*models.Order, error) {
	defer r.m.lock()()
	order, ok := r.m.state.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	cp := order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (r *orders) Create(ctx context.Context, order *models.Order) error {
	defer r.m.lock()()
	if order.ID == 0 {
		order.ID = r.m.state.id()
	}
	r.m.state.orders[order.ID] = *order
	return nil
}

type rules struct{ m *Memory }

func (r *rules) ListActive(ctx context.Context, now time.Time) ([]models.CommissionRule, error) {
	defer r.m.lock()()
	var out []models.CommissionRule
	for _, rule := range r.m.state.rules {
		if rule.IsActive && !rule.Expired(now) {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *rules) Create(ctx context.Context, rule *models.CommissionRule) error {
	defer r.m.lock()()
	if rule.ID == 0 {
		rule.ID = r.m.state.id()
	}
	r.m.state.rules[rule.ID] = *rule
	return nil
}

type productRates struct{ m *Memory }

func (r *productRates) GetForAffiliate(ctx context.Context, productID, affiliateID uint) (*models.ProductRate, error) {
	defer r.m.lock()()
	for _, rate := range r.m.state.rates {
		if rate.ProductID == productID && rate.AffiliateID != nil && *rate.AffiliateID == affiliateID {
			cp := rate
			return &cp, nil
		}
	}
	return nil, repositories.ErrProductRateNotFound
}

func (r *productRates) GetForGroup(ctx context.Context, productID, groupID uint) (*models.ProductRate, error) {
	defer r.m.lock()()
	for _, rate := range r.m.state.rates {
		if rate.ProductID == productID && rate.GroupID != nil && *rate.GroupID == groupID {
			cp := rate
			return &cp, nil
		}
	}
	return nil, repositories.ErrProductRateNotFound
}

func (r *productRates) Create(ctx context.Context, rate *models.ProductRate) error {
	defer r.m.lock()()
	if rate.ID == 0 {
		rate.ID = r.m.state.id()
	}
	r.m.state.rates[rate.ID] = *rate
	return nil
}

type referrals struct{ m *Memory }

func (r *referrals) GetPrimaryByOrderID(ctx context.Context, orderID uint) (*models.Referral, error) {
	defer r.m.lock()()
	for _, ref := range r.m.state.referrals {
		if ref.OrderID == orderID && ref.Level == 0 {
			cp := ref
			return &cp, nil
		}
	}
	return nil, repositories.ErrReferralNotFound
}

func (r *referrals) Create(ctx context.Context, ref *models.Referral) error {
	defer r.m.lock()()
	for _, existing := range r.m.state.referrals {
		if existing.OrderID == ref.OrderID && existing.Level == ref.Level {
			return repositories.ErrDuplicateReferral
		}
	}
	if ref.ID == 0 {
		ref.ID = r.m.state.id()
	}
	ref.CreatedAt = time.Now()
	r.m.state.referrals[ref.ID] = *ref
	return nil
}

func (r *referrals) ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.Referral, error) {
	defer r.m.lock()()
	var out []models.Referral
	for _, ref := range r.m.state.referrals {
		if ref.AffiliateID == affiliateID {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

func (r *referrals) ListByOrder(ctx context.Context, orderID uint) ([]models.Referral, error) {
	defer r.m.lock()()
	var out []models.Referral
	for _, ref := range r.m.state.referrals {
		if ref.OrderID == orderID {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

type ledgerRepo struct{ m *Memory }

func (r *ledgerRepo) Create(ctx context.Context, entry *models.LedgerEntry) error {
	defer r.m.lock()()
	if entry.ID == 0 {
		entry.ID = r.m.state.id()
	}
	entry.CreatedAt = time.Now()
	r.m.state.ledger = append(r.m.state.ledger, *entry)
	return nil
}

func (r *ledgerRepo) ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.LedgerEntry, error) {
	all, err := r.ListAllByAffiliate(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return page(all, limit, offset), nil
}

func (r *ledgerRepo) ListAllByAffiliate(ctx context.Context, affiliateID uint) ([]models.LedgerEntry, error) {
	defer r.m.lock()()
	var out []models.LedgerEntry
	for _, e := range r.m.state.ledger {
		if e.AffiliateID == affiliateID {
			out = append(out, e)
		}
	}
	return out, nil
}

type payouts struct{ m *Memory }

func (r *payouts) GetByID(ctx context.Context, id uint) (*models.AffiliatePayout, error) {
	defer r.m.lock()()
	p, ok := r.m.state.payouts[id]
	if !ok {
		return nil, repositories.ErrPayoutNotFound
	}
	cp := p
	return &cp, nil
}

func (r *payouts) GetForUpdate(ctx context.Context, id uint) (*models.AffiliatePayout, error) {
	return r.GetByID(ctx, id)
}

func (r *payouts) Create(ctx context.Context, payout *models.AffiliatePayout) error {
	defer r.m.lock()()
	if payout.ID == 0 {
		payout.ID = r.m.state.id()
	}
	payout.CreatedAt = time.Now()
	r.m.state.payouts[payout.ID] = *payout
	return nil
}

func (r *payouts) Update(ctx context.Context, payout *models.AffiliatePayout) error {
	defer r.m.lock()()
	if _, ok := r.m.state.payouts[payout.ID]; !ok {
		return repositories.ErrPayoutNotFound
	}
	r.m.state.payouts[payout.ID] = *payout
	return nil
}

func (r *payouts) ListByAffiliate(ctx context.Context, affiliateID uint, limit, offset int) ([]models.AffiliatePayout, error) {
	defer r.m.lock()()
	var out []models.AffiliatePayout
	for _, p := range r.m.state.payouts {
		if p.AffiliateID == affiliateID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

func (r *payouts) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.AffiliatePayout, error) {
	defer r.m.lock()()
	var out []models.AffiliatePayout
	for _, p := range r.m.state.payouts {
		if p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

type users struct{ m *Memory }

func (r *users) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer r.m.lock()()
	u, ok := r.m.state.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := u
	return &cp, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.m.lock()()
	for _, u := range r.m.state.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *users) Create(ctx context.Context, user *models.User) error {
	defer r.m.lock()()
	if user.ID == 0 {
		user.ID = r.m.state.id()
	}
	r.m.state.users[user.ID] = *user
	return nil
}

func (r *users) IncrementTokenVersion(ctx context.Context, id uint) error {
	defer r.m.lock()()
	u, ok := r.m.state.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TokenVersion++
	r.m.state.users[id] = u
	return nil
}

type settings struct{ m *Memory }

func (r *settings) Get(ctx context.Context) (*models.ProgramSettings, error) {
	defer r.m.lock()()
	if r.m.state.settings == nil {
		return nil, repositories.ErrSettingsNotFound
	}
	cp := *r.m.state.settings
	return &cp, nil
}

func (r *settings) ListMLMLevels(ctx context.Context) ([]models.MLMLevelRate, error) {
	defer r.m.lock()()
	out := append([]models.MLMLevelRate(nil), r.m.state.mlmLevels...)
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

func (r *settings) Save(ctx context.Context, s *models.ProgramSettings) error {
	defer r.m.lock()()
	if s.ID == 0 {
		s.ID = r.m.state.id()
	}
	cp := *s
	r.m.state.settings = &cp
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
