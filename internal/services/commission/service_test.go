package commission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendora/internal/models"
	"vendora/internal/repositories/memstore"
	"vendora/internal/services/program"
)

func TestProcessOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("records referral and ledger credit", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		order := seedOrder(t, store, acct.ID, "100.00", "10.00", "5.00", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00"), Tax: dec("10.00")},
		})

		svc := NewService(store, nil)
		cfg := &program.Config{Enabled: true, ExcludeTax: true, ExcludeShipping: true}
		result, err := svc.ProcessOrder(ctx, order.ID, cfg)
		require.NoError(t, err)
		assert.True(t, result.CommissionAmount.Equal(dec("8.50")), "commission=%s", result.CommissionAmount)

		ref, err := store.Referrals().GetPrimaryByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, acct.ID, ref.AffiliateID)
		assert.True(t, ref.CommissionAmount.Equal(dec("8.50")))
		assert.True(t, ref.NetOrderAmount.Equal(dec("85.00")))

		entries, err := store.Ledger().ListAllByAffiliate(ctx, acct.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.LedgerTypeCommission, entries[0].Type)
		assert.Equal(t, models.LedgerRefReferral, entries[0].ReferenceType)
		assert.Equal(t, ref.ID, entries[0].ReferenceID)

		updated, err := store.Affiliates().GetByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(dec("8.50")))
		assert.True(t, updated.TotalEarnings.Equal(dec("8.50")))
	})

	t.Run("second call is rejected and writes nothing", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		order := seedOrder(t, store, acct.ID, "100.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00")},
		})

		svc := NewService(store, nil)
		_, err := svc.ProcessOrder(ctx, order.ID, enabledConfig())
		require.NoError(t, err)

		_, err = svc.ProcessOrder(ctx, order.ID, enabledConfig())
		assert.ErrorIs(t, err, ErrAlreadyProcessed)

		refs, err := store.Referrals().ListByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, refs, 1)
		entries, err := store.Ledger().ListAllByAffiliate(ctx, acct.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("guard outcomes", func(t *testing.T) {
		store := memstore.New()
		active := seedAffiliate(t, store, 1, nil, nil)

		suspended := &models.AffiliateAccount{UserID: 2, Status: models.AffiliateStatusSuspended}
		require.NoError(t, store.Affiliates().Create(ctx, suspended))

		unattributed := &models.Order{
			OrderNumber: "A-1", CustomerID: 999,
			Total: dec("50.00"), Status: models.OrderStatusPaid,
		}
		require.NoError(t, store.Orders().Create(ctx, unattributed))

		suspendedOrder := &models.Order{
			OrderNumber: "A-2", CustomerID: 999, AffiliateID: &suspended.ID,
			Total: dec("50.00"), Status: models.OrderStatusPaid,
		}
		require.NoError(t, store.Orders().Create(ctx, suspendedOrder))

		selfOrder := &models.Order{
			OrderNumber: "A-3", CustomerID: active.UserID, AffiliateID: &active.ID,
			Total: dec("50.00"), Status: models.OrderStatusPaid,
		}
		require.NoError(t, store.Orders().Create(ctx, selfOrder))

		svc := NewService(store, nil)

		_, err := svc.ProcessOrder(ctx, 1234, &program.Config{Enabled: false})
		assert.ErrorIs(t, err, ErrProgramDisabled)

		_, err = svc.ProcessOrder(ctx, 999999, enabledConfig())
		assert.ErrorIs(t, err, ErrOrderNotFound)

		_, err = svc.ProcessOrder(ctx, unattributed.ID, enabledConfig())
		assert.ErrorIs(t, err, ErrNoAffiliate)

		_, err = svc.ProcessOrder(ctx, suspendedOrder.ID, enabledConfig())
		assert.ErrorIs(t, err, ErrAffiliateInactive)

		_, err = svc.ProcessOrder(ctx, selfOrder.ID, enabledConfig())
		assert.ErrorIs(t, err, ErrSelfReferral)
	})

	t.Run("self referral allowed when configured", func(t *testing.T) {
		store := memstore.New()
		acct := seedAffiliate(t, store, 1, nil, nil)
		order := &models.Order{
			OrderNumber: "A-4", CustomerID: acct.UserID, AffiliateID: &acct.ID,
			Total: dec("100.00"), Status: models.OrderStatusPaid,
			Items: []models.OrderItem{{ProductID: 1, Quantity: 1, Total: dec("100.00")}},
		}
		require.NoError(t, store.Orders().Create(ctx, order))

		cfg := enabledConfig()
		cfg.AllowSelfReferral = true
		svc := NewService(store, nil)
		result, err := svc.ProcessOrder(ctx, order.ID, cfg)
		require.NoError(t, err)
		assert.True(t, result.CommissionAmount.Equal(dec("5.00")))
	})

	t.Run("zero commission rejected by default", func(t *testing.T) {
		store := memstore.New()
		acct := seedAffiliate(t, store, 1, nil, nil)
		order := seedOrder(t, store, acct.ID, "100.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00")},
		})

		svc := NewService(store, nil)
		cfg := &program.Config{Enabled: true} // default rate zero
		_, err := svc.ProcessOrder(ctx, order.ID, cfg)
		assert.ErrorIs(t, err, ErrZeroCommission)

		_, err = store.Referrals().GetPrimaryByOrderID(ctx, order.ID)
		assert.Error(t, err)
	})

	t.Run("zero commission recorded without ledger entry when allowed", func(t *testing.T) {
		store := memstore.New()
		acct := seedAffiliate(t, store, 1, nil, nil)
		order := seedOrder(t, store, acct.ID, "100.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00")},
		})

		svc := NewService(store, nil)
		cfg := &program.Config{Enabled: true, AllowZeroCommission: true}
		result, err := svc.ProcessOrder(ctx, order.ID, cfg)
		require.NoError(t, err)
		assert.True(t, result.CommissionAmount.IsZero())

		ref, err := store.Referrals().GetPrimaryByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, ref.CommissionAmount.IsZero())

		entries, err := store.Ledger().ListAllByAffiliate(ctx, acct.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

// seedChain creates a referral chain a[0] <- a[1] <- ... where a[i] is
// referred by a[i+1], all ACTIVE, and returns the accounts.
func seedChain(t *testing.T, store *memstore.Memory, length int) []*models.AffiliateAccount {
	t.Helper()
	accounts := make([]*models.AffiliateAccount, length)
	for i := length - 1; i >= 0; i-- {
		acct := &models.AffiliateAccount{
			UserID: uint(100 + i),
			Status: models.AffiliateStatusActive,
		}
		if i < length-1 {
			acct.ReferredByID = &accounts[i+1].ID
		}
		require.NoError(t, store.Affiliates().Create(context.Background(), acct))
		accounts[i] = acct
	}
	return accounts
}

func TestProcessOrderMLM(t *testing.T) {
	ctx := context.Background()

	mlmConfig := func(rates ...string) *program.Config {
		cfg := enabledConfig()
		cfg.MLM.Enabled = true
		cfg.MLM.MaxDepth = len(rates)
		for _, r := range rates {
			cfg.MLM.LevelRates = append(cfg.MLM.LevelRates, dec(r))
		}
		return cfg
	}

	t.Run("pays configured depth over a longer chain", func(t *testing.T) {
		store := memstore.New()
		chain := seedChain(t, store, 5)
		order := seedOrder(t, store, chain[0].ID, "100.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00")},
		})

		svc := NewService(store, nil)
		result, err := svc.ProcessOrder(ctx, order.ID, mlmConfig("5", "3", "1"))
		require.NoError(t, err)
		assert.Equal(t, 3, result.Levels)

		refs, err := store.Referrals().ListByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, refs, 4) // level 0 plus three uplines

		// Each level earns its rate of the original net amount, no
		// compounding.
		wantAmounts := []string{"5.00", "3.00", "1.00"}
		for i, want := range wantAmounts {
			ref := refs[i+1]
			assert.Equal(t, i+1, ref.Level)
			assert.Equal(t, chain[i+1].ID, ref.AffiliateID)
			assert.True(t, ref.CommissionAmount.Equal(dec(want)), "level %d amount=%s", i+1, ref.CommissionAmount)

			acct, err := store.Affiliates().GetByID(ctx, chain[i+1].ID)
			require.NoError(t, err)
			assert.True(t, acct.Balance.Equal(dec(want)))
		}

		// Levels beyond the bound earn nothing.
		deep, err := store.Affiliates().GetByID(ctx, chain[4].ID)
		require.NoError(t, err)
		assert.True(t, deep.Balance.IsZero())
	})

	t.Run("cyclic upline terminates", func(t *testing.T) {
		store := memstore.New()
		b := &models.AffiliateAccount{UserID: 2, Status: models.AffiliateStatusActive}
		require.NoError(t, store.Affiliates().Create(ctx, b))
		a := &models.AffiliateAccount{UserID: 1, Status: models.AffiliateStatusActive, ReferredByID: &b.ID}
		require.NoError(t, store.Affiliates().Create(ctx, a))
		// Close the loop: b points back at a.
		b.ReferredByID = &a.ID
		require.NoError(t, store.Affiliates().Create(ctx, b))

		order := seedOrder(t, store, a.ID, "100.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00")},
		})

		svc := NewService(store, nil)
		result, err := svc.ProcessOrder(ctx, order.ID, mlmConfig("5", "3", "1"))
		require.NoError(t, err)

		// b is paid once at level 1; the walk stops when it loops back
		// to a.
		assert.Equal(t, 1, result.Levels)
		refs, err := store.Referrals().ListByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, refs, 2)
	})

	t.Run("inactive upline consumes its level without pay", func(t *testing.T) {
		store := memstore.New()
		chain := seedChain(t, store, 3)
		// Suspend the level-1 upline.
		suspended, err := store.Affiliates().GetByID(ctx, chain[1].ID)
		require.NoError(t, err)
		suspended.Status = models.AffiliateStatusSuspended
		suspended.Group, suspended.Tier = nil, nil
		require.NoError(t, store.Affiliates().Create(ctx, suspended))

		order := seedOrder(t, store, chain[0].ID, "100.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00")},
		})

		svc := NewService(store, nil)
		result, err := svc.ProcessOrder(ctx, order.ID, mlmConfig("5", "3"))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Levels)

		level1, err := store.Affiliates().GetByID(ctx, chain[1].ID)
		require.NoError(t, err)
		assert.True(t, level1.Balance.IsZero())

		// The grandparent still gets the level-2 rate, not level 1's.
		level2, err := store.Affiliates().GetByID(ctx, chain[2].ID)
		require.NoError(t, err)
		assert.True(t, level2.Balance.Equal(dec("3.00")), "balance=%s", level2.Balance)
	})
}
