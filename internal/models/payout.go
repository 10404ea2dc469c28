package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout statuses. The state machine is PENDING -> COMPLETED or
// PENDING -> REJECTED; both terminal.
const (
	PayoutStatusPending   = "PENDING"
	PayoutStatusCompleted = "COMPLETED"
	PayoutStatusRejected  = "REJECTED"
)

// Payout methods
const (
	PayoutMethodPaypal = "PAYPAL"
	PayoutMethodBank   = "BANK"
)

// AffiliatePayout is a withdrawal request against the ledger-backed
// balance. The balance is debited at request time, so a PENDING payout
// already holds its funds; rejection restores them via a reversing
// ledger entry.
type AffiliatePayout struct {
	ID          uint            `gorm:"primarykey"`
	AffiliateID uint            `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Method      string          `gorm:"type:varchar(16);not null"`
	Status      string          `gorm:"type:varchar(16);not null;default:'PENDING'"`
	Note        string          `gorm:"type:varchar(255)"`
	TransferRef string          `gorm:"type:varchar(128)"` // external transfer reference set on approval
	ProcessedAt *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}
