package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProgramSettings is the single-row table holding the affiliate program
// configuration edited in the admin back office. The engine never reads
// it directly; callers load an immutable snapshot per invocation so that
// every calculation is reproducible.
type ProgramSettings struct {
	ID                  uint            `gorm:"primarykey"`
	Enabled             bool            `gorm:"not null;default:false"`
	DefaultRate         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"` // program-wide default, PERCENTAGE
	ExcludeTax          bool            `gorm:"not null;default:false"`
	ExcludeShipping     bool            `gorm:"not null;default:false"`
	AllowZeroCommission bool            `gorm:"not null;default:false"`
	AllowSelfReferral   bool            `gorm:"not null;default:false"`
	MinimumPayout       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	PayoutMethods       pq.StringArray  `gorm:"type:text[]"`
	MLMEnabled          bool            `gorm:"not null;default:false"`
	MLMMaxDepth         int             `gorm:"not null;default:0"`
	UpdatedAt           time.Time
}

// MLMLevelRate is the per-level decay rate for multi-level distribution:
// level N upline earns Rate percent of the original order's net amount.
type MLMLevelRate struct {
	ID    uint            `gorm:"primarykey"`
	Level int             `gorm:"uniqueIndex;not null"` // 1-based upline depth
	Rate  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}
