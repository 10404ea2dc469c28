package commission

import (
	"time"

	"github.com/shopspring/decimal"

	"vendora/internal/models"
)

// OrderContext is the slice of an order that rule conditions see.
type OrderContext struct {
	Total        decimal.Decimal
	CustomerType string
	CategoryIDs  []int64
}

// NewOrderContext builds the rule-evaluation context from an order.
func NewOrderContext(order *models.Order) OrderContext {
	return OrderContext{
		Total:        order.Total,
		CustomerType: order.CustomerType,
		CategoryIDs:  order.CategoryIDs(),
	}
}

// Condition is one predicate of a commission rule. The set of condition
// kinds is closed: rules are stored as typed columns and interpreted
// here, not as free-form dynamic structures.
type Condition interface {
	Matches(octx OrderContext) bool
}

type minOrderAmountCondition struct {
	min decimal.Decimal
}

func (c minOrderAmountCondition) Matches(octx OrderContext) bool {
	return octx.Total.GreaterThanOrEqual(c.min)
}

type customerTypeCondition struct {
	want string
}

func (c customerTypeCondition) Matches(octx OrderContext) bool {
	return octx.CustomerType == c.want
}

type categoryInCondition struct {
	ids map[int64]struct{}
}

func (c categoryInCondition) Matches(octx OrderContext) bool {
	for _, id := range octx.CategoryIDs {
		if _, ok := c.ids[id]; ok {
			return true
		}
	}
	return false
}

// conditionsOf interprets a rule row into its declared conditions. A
// rule with no declared conditions yields an empty slice and therefore
// matches unconditionally.
func conditionsOf(rule *models.CommissionRule) []Condition {
	var conds []Condition
	if rule.MinOrderAmount.Valid {
		conds = append(conds, minOrderAmountCondition{min: rule.MinOrderAmount.Decimal})
	}
	if rule.CustomerType != "" {
		conds = append(conds, customerTypeCondition{want: rule.CustomerType})
	}
	if len(rule.CategoryIDs) > 0 {
		ids := make(map[int64]struct{}, len(rule.CategoryIDs))
		for _, id := range rule.CategoryIDs {
			ids[id] = struct{}{}
		}
		conds = append(conds, categoryInCondition{ids: ids})
	}
	return conds
}

// MatchRule evaluates rules in the given order (callers pass them
// ascending by priority) and returns the first rule whose every
// declared condition holds, or nil. Conditions are conjunctive.
func MatchRule(rules []models.CommissionRule, octx OrderContext, now time.Time) *models.CommissionRule {
	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive || rule.Expired(now) {
			continue
		}
		if ruleMatches(rule, octx) {
			return rule
		}
	}
	return nil
}

func ruleMatches(rule *models.CommissionRule, octx OrderContext) bool {
	for _, cond := range conditionsOf(rule) {
		if !cond.Matches(octx) {
			return false
		}
	}
	return true
}
