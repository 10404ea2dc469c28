// Package commission turns paid orders into commission records and
// ledger credits. Rate resolution, rule matching and calculation are
// read-only; only the final referral + ledger write runs inside a
// transaction, serialized per affiliate by a row lock on the account.
package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/ledger"
	"vendora/internal/services/notification"
	"vendora/internal/services/program"
)

// Service processes paid orders into commissions.
type Service struct {
	store    repositories.Store
	notifier notification.Dispatcher
}

// NewService creates the commission service.
func NewService(store repositories.Store, notifier notification.Dispatcher) *Service {
	if store == nil {
		panic("store is required")
	}
	if notifier == nil {
		notifier = notification.Noop{}
	}
	return &Service{store: store, notifier: notifier}
}

// ProcessOrder computes and records the commission for a paid order.
// It is idempotent: a second call for the same order returns
// ErrAlreadyProcessed and performs no writes, which makes webhook
// redelivery safe to pass straight through.
//
// cfg is the program snapshot fetched by the caller; the engine never
// reads ambient configuration.
func (s *Service) ProcessOrder(ctx context.Context, orderID uint, cfg *program.Config) (*ProcessResult, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrProgramDisabled
	}

	// Idempotency guard: a level-0 referral means this order is done.
	if _, err := s.store.Referrals().GetPrimaryByOrderID(ctx, orderID); err == nil {
		return nil, ErrAlreadyProcessed
	} else if !errors.Is(err, repositories.ErrReferralNotFound) {
		return nil, err
	}

	order, err := s.store.Orders().GetWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.AffiliateID == nil {
		return nil, ErrNoAffiliate
	}

	acct, err := s.store.Affiliates().GetByID(ctx, *order.AffiliateID)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return nil, ErrNoAffiliate
		}
		return nil, err
	}
	if !cfg.AllowSelfReferral && acct.UserID == order.CustomerID {
		return nil, ErrSelfReferral
	}
	if !acct.IsActive() {
		return nil, ErrAffiliateInactive
	}

	now := time.Now()
	rules, err := s.store.Rules().ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	rule := MatchRule(rules, NewOrderContext(order), now)

	calc, err := calculate(ctx, s.store, order, acct, rule, cfg)
	if err != nil {
		return nil, err
	}
	if calc.Total.IsZero() && !cfg.AllowZeroCommission {
		return nil, ErrZeroCommission
	}

	net := order.NetAmount()
	referral := &models.Referral{
		OrderID:          order.ID,
		Level:            0,
		AffiliateID:      acct.ID,
		TotalOrderAmount: order.Total,
		NetOrderAmount:   net,
		CommissionAmount: calc.Total,
		Status:           models.ReferralStatusPending,
		Metadata:         calc.metadata(),
	}

	err = s.store.InTransaction(ctx, func(tx repositories.Store) error {
		if err := tx.Referrals().Create(ctx, referral); err != nil {
			if errors.Is(err, repositories.ErrDuplicateReferral) {
				return ErrAlreadyProcessed
			}
			return err
		}
		// A zero-amount referral is recorded for completeness but moves
		// no money, so it gets no ledger entry.
		if !calc.Total.IsPositive() {
			return nil
		}
		_, err := ledger.Append(ctx, tx, acct.ID, models.LedgerTypeCommission, calc.Total,
			models.LedgerRefReferral, referral.ID,
			fmt.Sprintf("commission for order %s", order.OrderNumber))
		return err
	})
	if err != nil {
		return nil, err
	}

	levels := 0
	if cfg.MLM.Enabled {
		levels, err = s.distribute(ctx, order, acct, net, cfg)
		if err != nil {
			return nil, err
		}
	}

	s.notifier.Dispatch(notification.TriggerCommissionEarned, acct.PaypalEmail, map[string]interface{}{
		"affiliate_id": acct.ID,
		"order_number": order.OrderNumber,
		"commission":   calc.Total.String(),
	}, order.ID)

	return &ProcessResult{
		ReferralID:       referral.ID,
		AffiliateID:      acct.ID,
		CommissionAmount: calc.Total,
		Levels:           levels,
	}, nil
}
