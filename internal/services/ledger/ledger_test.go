package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/repositories/memstore"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newAccount(t *testing.T, store *memstore.Memory) uint {
	t.Helper()
	acct := &models.AffiliateAccount{
		UserID: 1,
		Status: models.AffiliateStatusActive,
	}
	require.NoError(t, store.Affiliates().Create(context.Background(), acct))
	return acct.ID
}

func TestAppend(t *testing.T) {
	ctx := context.Background()

	t.Run("records before and after snapshots", func(t *testing.T) {
		store := memstore.New()
		acctID := newAccount(t, store)

		var entry *models.LedgerEntry
		err := store.InTransaction(ctx, func(tx repositories.Store) error {
			var err error
			entry, err = Append(ctx, tx, acctID, models.LedgerTypeCommission, dec("8.50"),
				models.LedgerRefReferral, 10, "commission for order A-1")
			return err
		})
		require.NoError(t, err)

		assert.True(t, entry.BalanceBefore.Equal(decimal.Zero))
		assert.True(t, entry.BalanceAfter.Equal(dec("8.50")))
		assert.NotEmpty(t, entry.Reference)

		acct, err := store.Affiliates().GetByID(ctx, acctID)
		require.NoError(t, err)
		assert.True(t, acct.Balance.Equal(dec("8.50")))
	})

	t.Run("chains snapshots across entries", func(t *testing.T) {
		store := memstore.New()
		acctID := newAccount(t, store)

		amounts := []string{"10.00", "5.25", "-3.00"}
		types := []string{models.LedgerTypeCommission, models.LedgerTypeBonus, models.LedgerTypePayout}
		for i := range amounts {
			err := store.InTransaction(ctx, func(tx repositories.Store) error {
				_, err := Append(ctx, tx, acctID, types[i], dec(amounts[i]),
					models.LedgerRefReferral, uint(i+1), "")
				return err
			})
			require.NoError(t, err)
		}

		entries, err := store.Ledger().ListAllByAffiliate(ctx, acctID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.True(t, entries[1].BalanceBefore.Equal(entries[0].BalanceAfter))
		assert.True(t, entries[2].BalanceBefore.Equal(entries[1].BalanceAfter))
		assert.True(t, entries[2].BalanceAfter.Equal(dec("12.25")))
	})

	t.Run("rejects an overdraw", func(t *testing.T) {
		store := memstore.New()
		acctID := newAccount(t, store)

		err := store.InTransaction(ctx, func(tx repositories.Store) error {
			_, err := Append(ctx, tx, acctID, models.LedgerTypePayout, dec("-1.00"),
				models.LedgerRefPayout, 1, "")
			return err
		})
		assert.ErrorIs(t, err, ErrNegativeBalance)

		// The failed transaction left no trace.
		entries, err := store.Ledger().ListAllByAffiliate(ctx, acctID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("accrues earnings only on positive commission and bonus", func(t *testing.T) {
		store := memstore.New()
		acctID := newAccount(t, store)

		steps := []struct {
			entryType string
			amount    string
		}{
			{models.LedgerTypeCommission, "10.00"},
			{models.LedgerTypeBonus, "2.00"},
			{models.LedgerTypePayout, "-5.00"},
			{models.LedgerTypeRefundDeduction, "5.00"},
		}
		for i, step := range steps {
			err := store.InTransaction(ctx, func(tx repositories.Store) error {
				_, err := Append(ctx, tx, acctID, step.entryType, dec(step.amount),
					models.LedgerRefReferral, uint(i+1), "")
				return err
			})
			require.NoError(t, err)
		}

		acct, err := store.Affiliates().GetByID(ctx, acctID)
		require.NoError(t, err)
		assert.True(t, acct.Balance.Equal(dec("12.00")), "balance=%s", acct.Balance)
		assert.True(t, acct.TotalEarnings.Equal(dec("12.00")), "earnings=%s", acct.TotalEarnings)
	})
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	acctID := newAccount(t, store)

	for i, amount := range []string{"20.00", "-7.50", "3.25"} {
		err := store.InTransaction(ctx, func(tx repositories.Store) error {
			_, err := Append(ctx, tx, acctID, models.LedgerTypeCommission, dec(amount),
				models.LedgerRefReferral, uint(i+1), "")
			return err
		})
		require.NoError(t, err)
	}

	replayed, err := Replay(ctx, store, acctID)
	require.NoError(t, err)

	acct, err := store.Affiliates().GetByID(ctx, acctID)
	require.NoError(t, err)
	assert.True(t, replayed.Equal(acct.Balance), "replayed %s, stored %s", replayed, acct.Balance)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("passes on a consistent journal", func(t *testing.T) {
		store := memstore.New()
		acctID := newAccount(t, store)

		for i, amount := range []string{"12.00", "-4.00"} {
			err := store.InTransaction(ctx, func(tx repositories.Store) error {
				_, err := Append(ctx, tx, acctID, models.LedgerTypeCommission, dec(amount),
					models.LedgerRefReferral, uint(i+1), "")
				return err
			})
			require.NoError(t, err)
		}

		assert.NoError(t, Verify(ctx, store, acctID))
	})

	t.Run("fails when the stored balance drifts from history", func(t *testing.T) {
		store := memstore.New()
		acctID := newAccount(t, store)

		err := store.InTransaction(ctx, func(tx repositories.Store) error {
			_, err := Append(ctx, tx, acctID, models.LedgerTypeCommission, dec("12.00"),
				models.LedgerRefReferral, 1, "")
			return err
		})
		require.NoError(t, err)

		// Corrupt the balance outside the ledger path.
		require.NoError(t, store.Affiliates().UpdateBalance(ctx, acctID, dec("99.00"), dec("12.00")))

		assert.ErrorIs(t, Verify(ctx, store, acctID), ErrBalanceMismatch)
	})

	t.Run("fails on a broken snapshot chain", func(t *testing.T) {
		store := memstore.New()
		acctID := newAccount(t, store)

		require.NoError(t, store.Ledger().Create(ctx, &models.LedgerEntry{
			AffiliateID:   acctID,
			Type:          models.LedgerTypeCommission,
			Amount:        dec("5.00"),
			BalanceBefore: dec("1.00"), // journal must start at zero
			BalanceAfter:  dec("6.00"),
			Reference:     "manual-1",
			ReferenceType: models.LedgerRefReferral,
			ReferenceID:   1,
		}))

		assert.ErrorIs(t, Verify(ctx, store, acctID), ErrBalanceMismatch)
	})
}
