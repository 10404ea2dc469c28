package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry types
const (
	LedgerTypeCommission      = "COMMISSION"
	LedgerTypeBonus           = "BONUS"
	LedgerTypePayout          = "PAYOUT"
	LedgerTypeRefundDeduction = "REFUND_DEDUCTION"
)

// Ledger reference types
const (
	LedgerRefReferral = "referral"
	LedgerRefPayout   = "payout"
)

// LedgerEntry is one row of the append-only journal of balance changes.
// Entries are never updated or deleted; corrections are made only by
// appending an offsetting entry. The owning account's Balance must equal
// the BalanceAfter of its most recent entry at all times.
type LedgerEntry struct {
	ID            uint            `gorm:"primarykey"`
	AffiliateID   uint            `gorm:"not null;index"`
	Type          string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"` // signed
	BalanceBefore decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Reference     string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	ReferenceType string          `gorm:"type:varchar(16);not null"`
	ReferenceID   uint            `gorm:"not null;index"`
	Description   string          `gorm:"type:varchar(255)"`
	CreatedAt     time.Time       `gorm:"index"`
}
