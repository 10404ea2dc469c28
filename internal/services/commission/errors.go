package commission

import "errors"

// Business outcomes of order processing. All of these are expected,
// recoverable results returned to the caller, never panicked.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrAlreadyProcessed  = errors.New("order already processed")
	ErrNoAffiliate       = errors.New("order has no referring affiliate")
	ErrAffiliateInactive = errors.New("affiliate account is not active")
	ErrProgramDisabled   = errors.New("affiliate program is disabled")
	ErrSelfReferral      = errors.New("self referral is not allowed")
	ErrZeroCommission    = errors.New("zero commission ignored")
)
