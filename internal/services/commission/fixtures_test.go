package commission

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vendora/internal/models"
	"vendora/internal/repositories/memstore"
	"vendora/internal/services/program"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func enabledConfig() *program.Config {
	return &program.Config{
		Enabled:     true,
		DefaultRate: dec("5"),
	}
}

// seedAffiliate creates an active affiliate for the given user, wired to
// the optional tier/group, and returns the loaded account.
func seedAffiliate(t *testing.T, store *memstore.Memory, userID uint, tierID, groupID *uint) *models.AffiliateAccount {
	t.Helper()
	acct := &models.AffiliateAccount{
		UserID:  userID,
		Status:  models.AffiliateStatusActive,
		TierID:  tierID,
		GroupID: groupID,
	}
	require.NoError(t, store.Affiliates().Create(context.Background(), acct))
	loaded, err := store.Affiliates().GetByID(context.Background(), acct.ID)
	require.NoError(t, err)
	return loaded
}

// seedOrder creates a paid, affiliate-attributed order with the given
// items and returns it with items loaded.
func seedOrder(t *testing.T, store *memstore.Memory, affiliateID uint, total, tax, shipping string, items []models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:  "A-1001",
		CustomerID:   999,
		CustomerType: models.CustomerTypeNew,
		AffiliateID:  &affiliateID,
		Total:        dec(total),
		Tax:          dec(tax),
		Shipping:     dec(shipping),
		Status:       models.OrderStatusPaid,
		Items:        items,
	}
	require.NoError(t, store.Orders().Create(context.Background(), order))
	return order
}
