package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/ledger"
	"vendora/internal/services/program"
)

// distribute walks the upline chain after the primary commission has
// been recorded and pays each level its configured percentage of the
// original order's net amount, never of the downline's commission, so
// there is no compounding. Each level commits as its own referral +
// ledger unit.
//
// The walk is bounded by the configured depth and a visited set, so a
// broken or cyclic upline reference cannot loop. Non-ACTIVE accounts
// consume their level but receive nothing.
func (s *Service) distribute(ctx context.Context, order *models.Order, origin *models.AffiliateAccount, netAmount decimal.Decimal, cfg *program.Config) (int, error) {
	maxDepth := cfg.MLM.Depth()
	if maxDepth <= 0 {
		return 0, nil
	}

	paid := 0
	visited := map[uint]bool{origin.ID: true}
	next := origin.ReferredByID

	for depth := 1; depth <= maxDepth && next != nil; depth++ {
		if visited[*next] {
			break
		}
		upline, err := s.store.Affiliates().GetByID(ctx, *next)
		if err != nil {
			if errors.Is(err, repositories.ErrAffiliateNotFound) {
				break // dangling upline reference terminates the chain
			}
			return paid, err
		}
		visited[upline.ID] = true

		rate := cfg.MLM.LevelRates[depth-1]
		amount := netAmount.Mul(rate).Div(hundred).Round(2)

		if upline.IsActive() && amount.IsPositive() {
			err = s.store.InTransaction(ctx, func(tx repositories.Store) error {
				referral := &models.Referral{
					OrderID:          order.ID,
					Level:            depth,
					AffiliateID:      upline.ID,
					TotalOrderAmount: order.Total,
					NetOrderAmount:   netAmount,
					CommissionAmount: amount,
					Status:           models.ReferralStatusPending,
					Metadata: models.JSON{
						"depth":            depth,
						"rate":             rate.String(),
						"source_affiliate": origin.ID,
					},
				}
				if err := tx.Referrals().Create(ctx, referral); err != nil {
					return err
				}
				_, err := ledger.Append(ctx, tx, upline.ID, models.LedgerTypeCommission, amount,
					models.LedgerRefReferral, referral.ID,
					fmt.Sprintf("level %d commission for order %s", depth, order.OrderNumber))
				return err
			})
			if err != nil {
				// A duplicate here means a concurrent retry already paid
				// this level; treat it as done and keep walking.
				if !errors.Is(err, repositories.ErrDuplicateReferral) {
					return paid, err
				}
			}
			paid++
		}

		next = upline.ReferredByID
	}

	return paid, nil
}
