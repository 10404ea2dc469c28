package commission

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendora/internal/models"
	"vendora/internal/repositories/memstore"
	"vendora/internal/services/program"
)

func TestCalculate(t *testing.T) {
	ctx := context.Background()

	t.Run("percentage on net base excluding tax and shipping", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		order := seedOrder(t, store, acct.ID, "100.00", "10.00", "5.00", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00"), Tax: dec("10.00")},
		})

		cfg := &program.Config{Enabled: true, ExcludeTax: true, ExcludeShipping: true}
		got, err := calculate(ctx, store, order, acct, nil, cfg)
		require.NoError(t, err)

		// 100 - 10 tax - 5 shipping = 85 base, 10% => 8.50
		assert.True(t, got.Total.Equal(dec("8.50")), "total=%s", got.Total)
		require.Len(t, got.Items, 1)
		assert.True(t, got.Items[0].Base.Equal(dec("85.00")))
		assert.Equal(t, SourceTierDefault, got.Items[0].Source)
	})

	t.Run("gross base when nothing is excluded", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		order := seedOrder(t, store, acct.ID, "100.00", "10.00", "5.00", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00"), Tax: dec("10.00")},
		})

		got, err := calculate(ctx, store, order, acct, nil, &program.Config{Enabled: true})
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(dec("10.00")), "total=%s", got.Total)
	})

	t.Run("fixed rate pays value times quantity regardless of base", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "flat", Rate: dec("2.50"), RateType: models.RateTypeFixed})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		order := seedOrder(t, store, acct.ID, "90.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 3, Total: dec("90.00")},
		})

		got, err := calculate(ctx, store, order, acct, nil, &program.Config{Enabled: true, ExcludeTax: true})
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(dec("7.50")), "total=%s", got.Total)
	})

	t.Run("excluded item contributes nothing but is traced", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		require.NoError(t, store.ProductRates().Create(ctx, &models.ProductRate{
			ProductID:   2,
			AffiliateID: &acct.ID,
			IsDisabled:  true,
		}))
		order := seedOrder(t, store, acct.ID, "150.00", "0", "0", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("100.00")},
			{ProductID: 2, Quantity: 1, Total: dec("50.00")},
		})

		got, err := calculate(ctx, store, order, acct, nil, &program.Config{Enabled: true})
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(dec("10.00")), "total=%s", got.Total)
		require.Len(t, got.Items, 2)
		assert.True(t, got.Items[1].Excluded)
		assert.True(t, got.Items[1].Commission.IsZero())
	})

	t.Run("negative base is floored to zero", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		// Shipping exceeds the line total.
		order := seedOrder(t, store, acct.ID, "3.00", "0", "10.00", []models.OrderItem{
			{ProductID: 1, Quantity: 1, Total: dec("3.00")},
		})

		got, err := calculate(ctx, store, order, acct, nil, &program.Config{Enabled: true, ExcludeShipping: true})
		require.NoError(t, err)
		assert.True(t, got.Total.IsZero(), "total=%s", got.Total)
	})
}

func TestAllocateShipping(t *testing.T) {
	t.Run("pro rata with remainder on the last item", func(t *testing.T) {
		items := []models.OrderItem{
			{Total: dec("33.33")},
			{Total: dec("33.33")},
			{Total: dec("33.34")},
		}
		shares := allocateShipping(items, dec("10.00"))
		require.Len(t, shares, 3)

		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s)
		}
		assert.True(t, sum.Equal(dec("10.00")), "sum=%s", sum)
	})

	t.Run("zero shipping yields zero shares", func(t *testing.T) {
		shares := allocateShipping([]models.OrderItem{{Total: dec("10")}}, decimal.Zero)
		require.Len(t, shares, 1)
		assert.True(t, shares[0].IsZero())
	})

	t.Run("zero-total order puts shipping on the first item", func(t *testing.T) {
		shares := allocateShipping([]models.OrderItem{{Total: decimal.Zero}, {Total: decimal.Zero}}, dec("4.00"))
		assert.True(t, shares[0].Equal(dec("4.00")))
		assert.True(t, shares[1].IsZero())
	})
}
