package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer types as seen by commission rules.
const (
	CustomerTypeNew       = "NEW"
	CustomerTypeReturning = "RETURNING"
)

// Order statuses relevant to commission processing.
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
)

// Order is the snapshot of an order as handed over by the checkout
// pipeline once payment is confirmed. The commission engine only reads
// it; cart pricing, coupons and gateway mechanics live elsewhere.
type Order struct {
	ID           uint   `gorm:"primarykey"`
	OrderNumber  string `gorm:"type:varchar(64);uniqueIndex;not null"`
	CustomerID   uint   `gorm:"not null;index"`
	CustomerType string `gorm:"type:varchar(16);not null;default:'NEW'"`
	// AffiliateID is the referring affiliate attributed at checkout,
	// nil when the order was not referred.
	AffiliateID *uint           `gorm:"index"`
	Total       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Tax         decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Shipping    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Status      string          `gorm:"type:varchar(16);not null;default:'PENDING'"`
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// NetAmount is the order total minus tax and shipping. It is the base
// for multi-level distribution and is recorded on every referral.
func (o *Order) NetAmount() decimal.Decimal {
	return o.Total.Sub(o.Tax).Sub(o.Shipping)
}

// CategoryIDs returns the distinct category ids touched by the order's
// line items, for rule condition evaluation.
func (o *Order) CategoryIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		id := int64(item.CategoryID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID         uint            `gorm:"primarykey"`
	OrderID    uint            `gorm:"not null;index"`
	ProductID  uint            `gorm:"not null;index"`
	CategoryID uint            `gorm:"index"`
	Quantity   int             `gorm:"not null;default:1"`
	Total      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"` // line total incl. tax
	Tax        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt  time.Time
}
