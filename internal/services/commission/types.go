package commission

import (
	"github.com/shopspring/decimal"

	"vendora/internal/models"
)

// RateSource tags where a resolved rate came from, for the audit trail
// recorded in referral metadata.
type RateSource string

const (
	SourceAffiliateProduct RateSource = "affiliate_product_rate"
	SourceGroupProduct     RateSource = "group_product_rate"
	SourceRule             RateSource = "commission_rule"
	SourceGroupDefault     RateSource = "group_default"
	SourceTierDefault      RateSource = "tier_default"
	SourceProgramDefault   RateSource = "program_default"
)

// ResolvedRate is the outcome of rate resolution for one line item.
// Excluded means the item earns no commission at all, which is a
// distinct outcome from a zero rate.
type ResolvedRate struct {
	Rate     decimal.Decimal
	RateType string
	Source   RateSource
	RuleID   uint // set when Source == SourceRule
	Excluded bool
}

// ItemTrace is the per-item calculation record stored in referral
// metadata so every commission amount can be audited back to its rate
// source and base.
type ItemTrace struct {
	ProductID  uint            `json:"product_id"`
	Source     RateSource      `json:"source"`
	Rate       decimal.Decimal `json:"rate"`
	RateType   string          `json:"rate_type"`
	Base       decimal.Decimal `json:"base"`
	Commission decimal.Decimal `json:"commission"`
	Excluded   bool            `json:"excluded,omitempty"`
	RuleID     uint            `json:"rule_id,omitempty"`
}

// orderCommission is the aggregate of one calculator run.
type orderCommission struct {
	Total decimal.Decimal
	Items []ItemTrace
}

func (c *orderCommission) metadata() models.JSON {
	items := make([]interface{}, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, map[string]interface{}{
			"product_id": it.ProductID,
			"source":     string(it.Source),
			"rate":       it.Rate.String(),
			"rate_type":  it.RateType,
			"base":       it.Base.String(),
			"commission": it.Commission.String(),
			"excluded":   it.Excluded,
			"rule_id":    it.RuleID,
		})
	}
	return models.JSON{"items": items}
}

// ProcessResult is returned to the checkout pipeline after an order has
// been processed into a commission.
type ProcessResult struct {
	ReferralID       uint            `json:"referral_id"`
	AffiliateID      uint            `json:"affiliate_id"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	// Levels is the number of upline levels that received a secondary
	// commission.
	Levels int `json:"levels"`
}
