package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"vendora/internal/services/commission"
	"vendora/internal/services/payout"
)

// businessCode maps a service sentinel to the stable error code exposed
// to callers, plus an HTTP status. Unknown errors are infrastructure
// failures: the caller gets a generic 500 and decides on retry; the
// idempotency guard makes retrying order processing safe.
func businessCode(err error) (int, string, bool) {
	switch {
	case errors.Is(err, commission.ErrOrderNotFound):
		return fiber.StatusNotFound, "ORDER_NOT_FOUND", true
	case errors.Is(err, commission.ErrAlreadyProcessed):
		return fiber.StatusConflict, "ALREADY_PROCESSED", true
	case errors.Is(err, commission.ErrNoAffiliate):
		return fiber.StatusUnprocessableEntity, "NO_AFFILIATE", true
	case errors.Is(err, commission.ErrAffiliateInactive):
		return fiber.StatusUnprocessableEntity, "AFFILIATE_INACTIVE", true
	case errors.Is(err, commission.ErrProgramDisabled):
		return fiber.StatusUnprocessableEntity, "PROGRAM_DISABLED", true
	case errors.Is(err, commission.ErrSelfReferral):
		return fiber.StatusUnprocessableEntity, "SELF_REFERRAL_BLOCKED", true
	case errors.Is(err, commission.ErrZeroCommission):
		return fiber.StatusUnprocessableEntity, "ZERO_COMMISSION_IGNORED", true
	case errors.Is(err, payout.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", true
	case errors.Is(err, payout.ErrBelowMinimum):
		return fiber.StatusUnprocessableEntity, "BELOW_MINIMUM_PAYOUT", true
	case errors.Is(err, payout.ErrMissingPaymentDetails):
		return fiber.StatusUnprocessableEntity, "MISSING_PAYMENT_DETAILS", true
	case errors.Is(err, payout.ErrMethodNotAllowed):
		return fiber.StatusUnprocessableEntity, "PAYOUT_METHOD_NOT_ALLOWED", true
	case errors.Is(err, payout.ErrInvalidAmount):
		return fiber.StatusBadRequest, "INVALID_AMOUNT", true
	case errors.Is(err, payout.ErrAccountNotFound):
		return fiber.StatusNotFound, "NO_AFFILIATE", true
	case errors.Is(err, payout.ErrAccountNotEligible):
		return fiber.StatusUnprocessableEntity, "AFFILIATE_INACTIVE", true
	case errors.Is(err, payout.ErrPayoutNotFound):
		return fiber.StatusNotFound, "PAYOUT_NOT_FOUND", true
	case errors.Is(err, payout.ErrPayoutNotPending):
		return fiber.StatusConflict, "PAYOUT_NOT_PENDING", true
	}
	return 0, "", false
}
