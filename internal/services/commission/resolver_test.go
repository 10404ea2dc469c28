package commission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendora/internal/models"
	"vendora/internal/repositories/memstore"
)

func TestResolveRate(t *testing.T) {
	ctx := context.Background()
	cfg := enabledConfig()
	item := &models.OrderItem{ProductID: 77, Quantity: 1, Total: dec("50.00")}

	t.Run("affiliate product override beats everything", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, nil)
		require.NoError(t, store.ProductRates().Create(ctx, &models.ProductRate{
			ProductID:   77,
			AffiliateID: &acct.ID,
			Rate:        dec("20"),
			RateType:    models.RateTypePercentage,
		}))

		rule := percentRule(5, 1, "15")
		got, err := resolveRate(ctx, store, item, acct, &rule, cfg)
		require.NoError(t, err)
		assert.Equal(t, SourceAffiliateProduct, got.Source)
		assert.True(t, got.Rate.Equal(dec("20")))
	})

	t.Run("group product override beats rule and defaults", func(t *testing.T) {
		store := memstore.New()
		groupID := store.SeedGroup(models.AffiliateGroup{Name: "partners"})
		acct := seedAffiliate(t, store, 1, nil, &groupID)
		require.NoError(t, store.ProductRates().Create(ctx, &models.ProductRate{
			ProductID: 77,
			GroupID:   &groupID,
			Rate:      dec("12"),
			RateType:  models.RateTypePercentage,
		}))

		rule := percentRule(5, 1, "15")
		got, err := resolveRate(ctx, store, item, acct, &rule, cfg)
		require.NoError(t, err)
		assert.Equal(t, SourceGroupProduct, got.Source)
		assert.True(t, got.Rate.Equal(dec("12")))
	})

	t.Run("disabled override excludes the item instead of falling through", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		groupID := store.SeedGroup(models.AffiliateGroup{Name: "partners", Rate: dec("7"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, &groupID)
		require.NoError(t, store.ProductRates().Create(ctx, &models.ProductRate{
			ProductID:   77,
			AffiliateID: &acct.ID,
			IsDisabled:  true,
		}))
		// Lower-precedence sources all apply; none may rescue the item.
		require.NoError(t, store.ProductRates().Create(ctx, &models.ProductRate{
			ProductID: 77,
			GroupID:   &groupID,
			Rate:      dec("12"),
			RateType:  models.RateTypePercentage,
		}))

		rule := percentRule(5, 1, "15")
		got, err := resolveRate(ctx, store, item, acct, &rule, cfg)
		require.NoError(t, err)
		assert.True(t, got.Excluded)
		assert.Equal(t, SourceAffiliateProduct, got.Source)
	})

	t.Run("matched rule beats group and tier defaults", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		groupID := store.SeedGroup(models.AffiliateGroup{Name: "partners", Rate: dec("7"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, &groupID)

		rule := percentRule(5, 1, "15")
		got, err := resolveRate(ctx, store, item, acct, &rule, cfg)
		require.NoError(t, err)
		assert.Equal(t, SourceRule, got.Source)
		assert.Equal(t, uint(5), got.RuleID)
		assert.True(t, got.Rate.Equal(dec("15")))
	})

	t.Run("group default beats tier default", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		groupID := store.SeedGroup(models.AffiliateGroup{Name: "partners", Rate: dec("7"), RateType: models.RateTypePercentage})
		acct := seedAffiliate(t, store, 1, &tierID, &groupID)

		got, err := resolveRate(ctx, store, item, acct, nil, cfg)
		require.NoError(t, err)
		assert.Equal(t, SourceGroupDefault, got.Source)
		assert.True(t, got.Rate.Equal(dec("7")))
	})

	t.Run("group without a default rate falls through to tier", func(t *testing.T) {
		store := memstore.New()
		tierID := store.SeedTier(models.AffiliateTier{Name: "gold", Rate: dec("10"), RateType: models.RateTypePercentage})
		groupID := store.SeedGroup(models.AffiliateGroup{Name: "partners"}) // no RateType
		acct := seedAffiliate(t, store, 1, &tierID, &groupID)

		got, err := resolveRate(ctx, store, item, acct, nil, cfg)
		require.NoError(t, err)
		assert.Equal(t, SourceTierDefault, got.Source)
		assert.True(t, got.Rate.Equal(dec("10")))
	})

	t.Run("program default is the last resort", func(t *testing.T) {
		store := memstore.New()
		acct := seedAffiliate(t, store, 1, nil, nil)

		got, err := resolveRate(ctx, store, item, acct, nil, cfg)
		require.NoError(t, err)
		assert.Equal(t, SourceProgramDefault, got.Source)
		assert.Equal(t, models.RateTypePercentage, got.RateType)
		assert.True(t, got.Rate.Equal(dec("5")))
	})
}
