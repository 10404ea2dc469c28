// Package program loads the affiliate program configuration as an
// immutable snapshot. Entry points fetch one snapshot and pass it into
// the commission and payout services, so a calculation never observes a
// mid-flight settings edit and every result is reproducible.
package program

import "github.com/shopspring/decimal"

// Config is the immutable program configuration snapshot.
type Config struct {
	Enabled             bool            `json:"enabled"`
	DefaultRate         decimal.Decimal `json:"default_rate"` // program-wide default, always PERCENTAGE
	ExcludeTax          bool            `json:"exclude_tax"`
	ExcludeShipping     bool            `json:"exclude_shipping"`
	AllowZeroCommission bool            `json:"allow_zero_commission"`
	AllowSelfReferral   bool            `json:"allow_self_referral"`
	MinimumPayout       decimal.Decimal `json:"minimum_payout"`
	PayoutMethods       []string        `json:"payout_methods"`
	MLM                 MLMConfig       `json:"mlm"`
}

// MLMConfig configures multi-level distribution. LevelRates[n-1] is the
// percentage of the original order's net amount paid to the level-n
// upline.
type MLMConfig struct {
	Enabled    bool              `json:"enabled"`
	MaxDepth   int               `json:"max_depth"`
	LevelRates []decimal.Decimal `json:"level_rates"`
}

// AllowsMethod reports whether the payout method is enabled.
func (c *Config) AllowsMethod(method string) bool {
	for _, m := range c.PayoutMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Depth is the effective traversal bound: the configured max depth,
// never deeper than the levels that have a rate.
func (m *MLMConfig) Depth() int {
	if m.MaxDepth < len(m.LevelRates) {
		return m.MaxDepth
	}
	return len(m.LevelRates)
}
