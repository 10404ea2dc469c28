package repositories

import "errors"

// Not-found and conflict sentinels returned by the repository layer.
var (
	ErrAffiliateNotFound   = errors.New("affiliate account not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrReferralNotFound    = errors.New("referral not found")
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrSettingsNotFound    = errors.New("program settings not found")
	ErrProductRateNotFound = errors.New("product rate not found")
	// ErrDuplicateReferral is returned when the unique (order, level)
	// constraint rejects a referral insert; it is how a lost idempotency
	// race surfaces.
	ErrDuplicateReferral = errors.New("referral already exists for order")
)
