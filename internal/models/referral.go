package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral statuses
const (
	ReferralStatusPending  = "PENDING"
	ReferralStatusApproved = "APPROVED"
	ReferralStatusPaid     = "PAID"
)

// Referral is the commission record created for one order/affiliate pair.
// Level 0 is the primary commission; levels 1..N are the decayed upline
// commissions created by the multi-level distributor for the same order.
// The unique (order_id, level) index is the idempotency mechanism: a
// level-0 row existing means the order has been processed.
//
// CommissionAmount is immutable after creation; only Status transitions
// through the external approval/payment workflows.
type Referral struct {
	ID               uint            `gorm:"primarykey"`
	OrderID          uint            `gorm:"not null;uniqueIndex:idx_referrals_order_level"`
	Level            int             `gorm:"not null;default:0;uniqueIndex:idx_referrals_order_level"`
	AffiliateID      uint            `gorm:"not null;index"`
	TotalOrderAmount decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	NetOrderAmount   decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Status           string          `gorm:"type:varchar(16);not null;default:'PENDING'"`
	Metadata         JSON            `gorm:"type:jsonb"` // per-item calculation trace
	CreatedAt        time.Time       `gorm:"index"`
	UpdatedAt        time.Time
}
