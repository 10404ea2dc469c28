// Package payout implements the withdrawal state machine:
// PENDING -> COMPLETED or PENDING -> REJECTED. The balance is debited
// at request time inside the same transaction that creates the payout
// row, so two concurrent requests can never both spend the same
// balance; rejection restores it with a reversing ledger entry.
package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/ledger"
	"vendora/internal/services/notification"
	"vendora/internal/services/program"
)

// Service manages withdrawal requests against ledger-backed balances.
type Service struct {
	store    repositories.Store
	notifier notification.Dispatcher
}

// NewService creates the payout service.
func NewService(store repositories.Store, notifier notification.Dispatcher) *Service {
	if store == nil {
		panic("store is required")
	}
	if notifier == nil {
		notifier = notification.Noop{}
	}
	return &Service{store: store, notifier: notifier}
}

// Request creates a PENDING payout for the affiliate behind userID and
// debits the balance immediately. Validations that need no lock run
// first; the balance check happens under the account row lock so a
// concurrent request observes the debit.
func (s *Service) Request(ctx context.Context, userID uint, amount decimal.Decimal, method string, cfg *program.Config) (*models.AffiliatePayout, error) {
	acct, err := s.store.Affiliates().GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	// Suspension freezes payout eligibility; accrued balance stays
	// visible and intact.
	if !acct.IsActive() {
		return nil, ErrAccountNotEligible
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if cfg != nil && amount.LessThan(cfg.MinimumPayout) {
		return nil, ErrBelowMinimum
	}
	if cfg != nil && len(cfg.PayoutMethods) > 0 && !cfg.AllowsMethod(method) {
		return nil, ErrMethodNotAllowed
	}
	if !acct.HasPayoutDetails(method) {
		return nil, ErrMissingPaymentDetails
	}

	payout := &models.AffiliatePayout{
		AffiliateID: acct.ID,
		Amount:      amount,
		Method:      method,
		Status:      models.PayoutStatusPending,
	}
	err = s.store.InTransaction(ctx, func(tx repositories.Store) error {
		locked, err := tx.Affiliates().GetForUpdate(ctx, acct.ID)
		if err != nil {
			return err
		}
		if locked.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
		if err := tx.Payouts().Create(ctx, payout); err != nil {
			return err
		}
		_, err = ledger.Append(ctx, tx, acct.ID, models.LedgerTypePayout, amount.Neg(),
			models.LedgerRefPayout, payout.ID,
			fmt.Sprintf("payout request via %s", method))
		if errors.Is(err, ledger.ErrNegativeBalance) {
			return ErrInsufficientBalance
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(notification.TriggerPayoutRequested, acct.PaypalEmail, map[string]interface{}{
		"payout_id": payout.ID,
		"amount":    amount.String(),
		"method":    method,
	}, 0)
	return payout, nil
}

// Approve marks a pending payout COMPLETED and records the external
// transfer reference. The balance was already debited at request time,
// so no ledger entry is written.
func (s *Service) Approve(ctx context.Context, payoutID uint, transferRef string) (*models.AffiliatePayout, error) {
	var payout *models.AffiliatePayout
	err := s.store.InTransaction(ctx, func(tx repositories.Store) error {
		p, err := tx.Payouts().GetForUpdate(ctx, payoutID)
		if err != nil {
			if errors.Is(err, repositories.ErrPayoutNotFound) {
				return ErrPayoutNotFound
			}
			return err
		}
		if p.Status != models.PayoutStatusPending {
			return ErrPayoutNotPending
		}
		now := time.Now()
		p.Status = models.PayoutStatusCompleted
		p.TransferRef = transferRef
		p.ProcessedAt = &now
		if err := tx.Payouts().Update(ctx, p); err != nil {
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(notification.TriggerPayoutCompleted, "", map[string]interface{}{
		"payout_id":    payout.ID,
		"transfer_ref": transferRef,
	}, 0)
	return payout, nil
}

// Reject marks a pending payout REJECTED and restores the balance with
// a reversing ledger entry for the full amount.
func (s *Service) Reject(ctx context.Context, payoutID uint, reason string) (*models.AffiliatePayout, error) {
	var payout *models.AffiliatePayout
	err := s.store.InTransaction(ctx, func(tx repositories.Store) error {
		p, err := tx.Payouts().GetForUpdate(ctx, payoutID)
		if err != nil {
			if errors.Is(err, repositories.ErrPayoutNotFound) {
				return ErrPayoutNotFound
			}
			return err
		}
		if p.Status != models.PayoutStatusPending {
			return ErrPayoutNotPending
		}
		now := time.Now()
		p.Status = models.PayoutStatusRejected
		p.Note = reason
		p.ProcessedAt = &now
		if err := tx.Payouts().Update(ctx, p); err != nil {
			return err
		}
		_, err = ledger.Append(ctx, tx, p.AffiliateID, models.LedgerTypeRefundDeduction, p.Amount,
			models.LedgerRefPayout, p.ID,
			fmt.Sprintf("payout %d rejected: %s", p.ID, reason))
		if err != nil {
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(notification.TriggerPayoutRejected, "", map[string]interface{}{
		"payout_id": payout.ID,
		"reason":    reason,
	}, 0)
	return payout, nil
}
