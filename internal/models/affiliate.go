package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Affiliate account statuses
const (
	AffiliateStatusActive    = "ACTIVE"
	AffiliateStatusPending   = "PENDING"
	AffiliateStatusSuspended = "SUSPENDED"
	AffiliateStatusRejected  = "REJECTED"
)

// Commission rate types
const (
	RateTypePercentage = "PERCENTAGE"
	RateTypeFixed      = "FIXED"
)

// AffiliateAccount is the partner account that accrues commission.
// Balance and TotalEarnings are mutated only through ledger-paired
// transactions; nothing else in the codebase is allowed to touch them.
type AffiliateAccount struct {
	ID            uint            `gorm:"primarykey"`
	UserID        uint            `gorm:"uniqueIndex;not null"`
	Status        string          `gorm:"type:varchar(16);not null;default:'PENDING'"`
	Balance       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	TotalEarnings decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	GroupID       *uint           `gorm:"index"`
	TierID        *uint           `gorm:"index"`
	ReferredByID  *uint           `gorm:"index"` // upline affiliate account
	PaypalEmail   string          `gorm:"type:varchar(255)"`
	BankName      string          `gorm:"type:varchar(255)"`
	BankAccount   string          `gorm:"type:varchar(64)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Group *AffiliateGroup `gorm:"foreignKey:GroupID"`
	Tier  *AffiliateTier  `gorm:"foreignKey:TierID"`
}

// IsActive reports whether the account may accrue commission.
func (a *AffiliateAccount) IsActive() bool {
	return a.Status == AffiliateStatusActive
}

// HasPayoutDetails reports whether the account has payment details
// on file for the given payout method.
func (a *AffiliateAccount) HasPayoutDetails(method string) bool {
	switch method {
	case PayoutMethodPaypal:
		return a.PaypalEmail != ""
	case PayoutMethodBank:
		return a.BankName != "" && a.BankAccount != ""
	default:
		return false
	}
}

// AffiliateTier is an affiliate classification carrying a default
// commission rate used when no more specific source applies.
type AffiliateTier struct {
	ID        uint            `gorm:"primarykey"`
	Name      string          `gorm:"type:varchar(64);not null"`
	Rate      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	RateType  string          `gorm:"type:varchar(16);not null;default:'PERCENTAGE'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AffiliateGroup groups affiliates for product-rate overrides and an
// optional group default rate. An empty RateType means the group does
// not define a default rate.
type AffiliateGroup struct {
	ID        uint            `gorm:"primarykey"`
	Name      string          `gorm:"type:varchar(64);not null"`
	Rate      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	RateType  string          `gorm:"type:varchar(16)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDefaultRate reports whether the group carries its own default rate.
func (g *AffiliateGroup) HasDefaultRate() bool {
	return g.RateType != ""
}
