package commission

import (
	"context"

	"github.com/shopspring/decimal"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/program"
)

var hundred = decimal.NewFromInt(100)

// calculate resolves a rate per line item and aggregates the
// order-level commission. The applicable base for each item is the line
// total, minus its tax when the program excludes tax, minus its
// allocated share of order shipping when the program excludes shipping.
//
// FIXED rates pay value x quantity; PERCENTAGE rates pay base x rate /
// 100 rounded to cents. Excluded items contribute nothing but are still
// traced.
func calculate(ctx context.Context, s repositories.Store, order *models.Order, acct *models.AffiliateAccount, rule *models.CommissionRule, cfg *program.Config) (*orderCommission, error) {
	result := &orderCommission{Total: decimal.Zero}

	var shippingShares []decimal.Decimal
	if cfg.ExcludeShipping {
		shippingShares = allocateShipping(order.Items, order.Shipping)
	}

	for i := range order.Items {
		item := &order.Items[i]

		resolved, err := resolveRate(ctx, s, item, acct, rule, cfg)
		if err != nil {
			return nil, err
		}

		trace := ItemTrace{
			ProductID: item.ProductID,
			Source:    resolved.Source,
			Rate:      resolved.Rate,
			RateType:  resolved.RateType,
			Excluded:  resolved.Excluded,
			RuleID:    resolved.RuleID,
		}
		if resolved.Excluded {
			result.Items = append(result.Items, trace)
			continue
		}

		base := item.Total
		if cfg.ExcludeTax {
			base = base.Sub(item.Tax)
		}
		if cfg.ExcludeShipping {
			base = base.Sub(shippingShares[i])
		}
		if base.IsNegative() {
			base = decimal.Zero
		}

		var amount decimal.Decimal
		switch resolved.RateType {
		case models.RateTypeFixed:
			amount = resolved.Rate.Mul(decimal.NewFromInt(int64(item.Quantity)))
		default:
			amount = base.Mul(resolved.Rate).Div(hundred).Round(2)
		}
		if amount.IsNegative() {
			amount = decimal.Zero
		}

		trace.Base = base
		trace.Commission = amount
		result.Items = append(result.Items, trace)
		result.Total = result.Total.Add(amount)
	}

	return result, nil
}

// allocateShipping splits order-level shipping across items pro rata by
// line total. Rounding remainders land on the last item so the shares
// always sum to the exact shipping amount.
func allocateShipping(items []models.OrderItem, shipping decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(items))
	if len(items) == 0 || shipping.IsZero() {
		return shares
	}

	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total)
	}
	if !sum.IsPositive() {
		// Degenerate order: put all shipping on the first item.
		shares[0] = shipping
		return shares
	}

	allocated := decimal.Zero
	for i, item := range items {
		if i == len(items)-1 {
			shares[i] = shipping.Sub(allocated)
			break
		}
		share := shipping.Mul(item.Total).Div(sum).Round(2)
		shares[i] = share
		allocated = allocated.Add(share)
	}
	return shares
}
