package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CommissionRule is a conditional commission override authored in the
// admin back office. Rules are evaluated in ascending Priority order and
// the first rule whose every declared condition holds wins. A rule with
// no declared conditions matches unconditionally, so it should sit at the
// lowest priority; that ordering is the author's responsibility.
//
// The engine treats rules as read-only.
type CommissionRule struct {
	ID             uint                `gorm:"primarykey"`
	Name           string              `gorm:"type:varchar(128);not null"`
	Priority       int                 `gorm:"index;not null;default:0"`
	IsActive       bool                `gorm:"not null;default:true"`
	EndDate        *time.Time          `gorm:"index"`
	MinOrderAmount decimal.NullDecimal `gorm:"type:decimal(20,2)"`
	CustomerType   string              `gorm:"type:varchar(16)"` // empty = any customer
	CategoryIDs    pq.Int64Array       `gorm:"type:bigint[]"`    // empty = any category
	ActionType     string              `gorm:"type:varchar(16);not null"`
	ActionValue    decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Expired reports whether the rule's end date has passed.
func (r *CommissionRule) Expired(now time.Time) bool {
	return r.EndDate != nil && r.EndDate.Before(now)
}

// ProductRate is a per-product commission override scoped to either one
// affiliate or one group. A disabled override excludes the product from
// commission entirely, which is a distinct outcome from a zero rate.
type ProductRate struct {
	ID          uint            `gorm:"primarykey"`
	ProductID   uint            `gorm:"not null;index"`
	AffiliateID *uint           `gorm:"index"`
	GroupID     *uint           `gorm:"index"`
	Rate        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	RateType    string          `gorm:"type:varchar(16);not null;default:'PERCENTAGE'"`
	IsDisabled  bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
