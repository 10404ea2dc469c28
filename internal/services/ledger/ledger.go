// Package ledger implements the append-only balance journal. Every
// balance change in the system goes through Append, which always runs
// inside a caller-owned Store transaction alongside the referral or
// payout row it is paired with; it never commits on its own.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vendora/internal/models"
	"vendora/internal/repositories"
)

// Errors returned by ledger operations.
var (
	// ErrNegativeBalance is returned when an append would take the
	// account balance below zero.
	ErrNegativeBalance = errors.New("ledger append would overdraw balance")
	// ErrBalanceMismatch is returned by Verify when the replayed
	// history does not reproduce the stored balance.
	ErrBalanceMismatch = errors.New("ledger does not reconcile with account balance")
)

// Append records one balance-affecting event. It locks the account row,
// snapshots the balance before and after, persists the entry and writes
// the new balance back, all against tx, which must be a Store obtained
// from InTransaction. Positive COMMISSION and BONUS amounts also accrue
// TotalEarnings.
//
// Entries are immutable once written; corrections are made by appending
// an offsetting entry, never by editing history.
func Append(ctx context.Context, tx repositories.Store, affiliateID uint, entryType string, amount decimal.Decimal, refType string, refID uint, description string) (*models.LedgerEntry, error) {
	acct, err := tx.Affiliates().GetForUpdate(ctx, affiliateID)
	if err != nil {
		return nil, err
	}

	before := acct.Balance
	after := before.Add(amount)
	if after.IsNegative() {
		return nil, ErrNegativeBalance
	}

	entry := &models.LedgerEntry{
		AffiliateID:   affiliateID,
		Type:          entryType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reference:     uuid.NewString(),
		ReferenceType: refType,
		ReferenceID:   refID,
		Description:   description,
	}
	if err := tx.Ledger().Create(ctx, entry); err != nil {
		return nil, err
	}

	earnings := acct.TotalEarnings
	if amount.IsPositive() && (entryType == models.LedgerTypeCommission || entryType == models.LedgerTypeBonus) {
		earnings = earnings.Add(amount)
	}
	if err := tx.Affiliates().UpdateBalance(ctx, affiliateID, after, earnings); err != nil {
		return nil, err
	}
	return entry, nil
}

// Replay sums the signed amounts of the full journal, reproducing the
// balance from history alone.
func Replay(ctx context.Context, s repositories.Store, affiliateID uint) (decimal.Decimal, error) {
	entries, err := s.Ledger().ListAllByAffiliate(ctx, affiliateID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// Verify checks the core invariant: each entry's snapshots chain
// (balanceBefore + amount == balanceAfter, next balanceBefore == prior
// balanceAfter) and the final balanceAfter equals the account balance.
func Verify(ctx context.Context, s repositories.Store, affiliateID uint) error {
	acct, err := s.Affiliates().GetByID(ctx, affiliateID)
	if err != nil {
		return err
	}
	entries, err := s.Ledger().ListAllByAffiliate(ctx, affiliateID)
	if err != nil {
		return err
	}

	running := decimal.Zero
	for _, e := range entries {
		if !e.BalanceBefore.Equal(running) {
			return fmt.Errorf("%w: entry %d starts at %s, expected %s",
				ErrBalanceMismatch, e.ID, e.BalanceBefore, running)
		}
		if !e.BalanceBefore.Add(e.Amount).Equal(e.BalanceAfter) {
			return fmt.Errorf("%w: entry %d snapshots are inconsistent", ErrBalanceMismatch, e.ID)
		}
		running = e.BalanceAfter
	}
	if !running.Equal(acct.Balance) {
		return fmt.Errorf("%w: replayed %s, account holds %s",
			ErrBalanceMismatch, running, acct.Balance)
	}
	return nil
}
