package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/ledger"
	"vendora/internal/services/payout"
	"vendora/internal/utils"
)

// AdminHandler serves the back office: payout review and ledger
// reconciliation.
type AdminHandler struct {
	store         repositories.Store
	payoutService *payout.Service
}

func NewAdminHandler(store repositories.Store, payoutService *payout.Service) *AdminHandler {
	return &AdminHandler{store: store, payoutService: payoutService}
}

// ListPayouts returns payouts filtered by status, pending first by
// default.
func (h *AdminHandler) ListPayouts(c *fiber.Ctx) error {
	status := c.Query("status", models.PayoutStatusPending)
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	payouts, err := h.store.Payouts().ListByStatus(c.Context(), status, limit, offset)
	if err != nil {
		return utils.InternalError(c, "failed to load payouts")
	}
	return utils.Success(c, fiber.Map{"payouts": payouts})
}

// ApprovePayout marks a pending payout completed with its external
// transfer reference.
func (h *AdminHandler) ApprovePayout(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid payout id")
	}

	var input struct {
		TransferRef string `json:"transfer_ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	p, err := h.payoutService.Approve(c.Context(), uint(id), input.TransferRef)
	if err != nil {
		if status, code, ok := businessCode(err); ok {
			return utils.Failure(c, status, code)
		}
		log.Printf("payout %d approval failed: %v", id, err)
		return utils.InternalError(c, "payout approval failed")
	}
	return utils.Success(c, fiber.Map{"success": true, "payout": p})
}

// RejectPayout rejects a pending payout and restores the balance.
func (h *AdminHandler) RejectPayout(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid payout id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	p, err := h.payoutService.Reject(c.Context(), uint(id), input.Reason)
	if err != nil {
		if status, code, ok := businessCode(err); ok {
			return utils.Failure(c, status, code)
		}
		log.Printf("payout %d rejection failed: %v", id, err)
		return utils.InternalError(c, "payout rejection failed")
	}
	return utils.Success(c, fiber.Map{"success": true, "payout": p})
}

// ReconcileAffiliate replays an affiliate's full ledger and checks it
// against the stored balance; the audit endpoint behind the core
// invariant.
func (h *AdminHandler) ReconcileAffiliate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid affiliate id")
	}

	if err := ledger.Verify(c.Context(), h.store, uint(id)); err != nil {
		if errors.Is(err, ledger.ErrBalanceMismatch) {
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{
				"consistent": false,
				"detail":     err.Error(),
			})
		}
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return utils.NotFound(c, "affiliate not found")
		}
		return utils.InternalError(c, "reconciliation failed")
	}
	return utils.Success(c, fiber.Map{"consistent": true})
}
