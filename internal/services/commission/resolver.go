package commission

import (
	"context"
	"errors"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/program"
)

// resolveRate determines the commission rate for one line item using
// the precedence chain, most specific first:
//
//  1. affiliate-specific product override (disabled => excluded)
//  2. group-specific product override (disabled => excluded)
//  3. the pre-matched commission rule
//  4. the affiliate group's default rate
//  5. the affiliate tier's default rate
//  6. the program-wide default rate (always PERCENTAGE)
//
// The account must be loaded with Group and Tier. The returned source
// tag is recorded in the referral metadata for auditing.
func resolveRate(ctx context.Context, s repositories.Store, item *models.OrderItem, acct *models.AffiliateAccount, rule *models.CommissionRule, cfg *program.Config) (ResolvedRate, error) {
	if rate, err := s.ProductRates().GetForAffiliate(ctx, item.ProductID, acct.ID); err == nil {
		return overrideRate(rate, SourceAffiliateProduct), nil
	} else if !errors.Is(err, repositories.ErrProductRateNotFound) {
		return ResolvedRate{}, err
	}

	if acct.GroupID != nil {
		if rate, err := s.ProductRates().GetForGroup(ctx, item.ProductID, *acct.GroupID); err == nil {
			return overrideRate(rate, SourceGroupProduct), nil
		} else if !errors.Is(err, repositories.ErrProductRateNotFound) {
			return ResolvedRate{}, err
		}
	}

	if rule != nil {
		return ResolvedRate{
			Rate:     rule.ActionValue,
			RateType: rule.ActionType,
			Source:   SourceRule,
			RuleID:   rule.ID,
		}, nil
	}

	if acct.Group != nil && acct.Group.HasDefaultRate() {
		return ResolvedRate{
			Rate:     acct.Group.Rate,
			RateType: acct.Group.RateType,
			Source:   SourceGroupDefault,
		}, nil
	}

	if acct.Tier != nil {
		return ResolvedRate{
			Rate:     acct.Tier.Rate,
			RateType: acct.Tier.RateType,
			Source:   SourceTierDefault,
		}, nil
	}

	return ResolvedRate{
		Rate:     cfg.DefaultRate,
		RateType: models.RateTypePercentage,
		Source:   SourceProgramDefault,
	}, nil
}

func overrideRate(rate *models.ProductRate, source RateSource) ResolvedRate {
	if rate.IsDisabled {
		// A disabled override excludes the item outright; it does not
		// fall through to a less specific source.
		return ResolvedRate{Source: source, Excluded: true}
	}
	return ResolvedRate{
		Rate:     rate.Rate,
		RateType: rate.RateType,
		Source:   source,
	}
}
