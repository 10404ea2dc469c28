package payout

import "errors"

// Validation outcomes of the payout workflow. All are rejected before
// any mutation happens.
var (
	ErrAccountNotFound       = errors.New("affiliate account not found")
	ErrAccountNotEligible    = errors.New("affiliate account is not eligible for payouts")
	ErrInvalidAmount         = errors.New("payout amount must be positive")
	ErrBelowMinimum          = errors.New("amount is below the minimum payout")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrMethodNotAllowed      = errors.New("payout method is not enabled")
	ErrMissingPaymentDetails = errors.New("no payment details on file for method")
	ErrPayoutNotFound        = errors.New("payout not found")
	ErrPayoutNotPending      = errors.New("payout is not pending")
)
