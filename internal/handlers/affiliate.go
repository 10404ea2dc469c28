package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"vendora/internal/middleware"
	"vendora/internal/repositories"
	"vendora/internal/repositories/cache"
	"vendora/internal/services/payout"
	"vendora/internal/services/program"
	"vendora/internal/utils"
)

// AffiliateHandler serves the affiliate dashboard: balance, ledger
// history and payout requests.
type AffiliateHandler struct {
	store          repositories.Store
	payoutService  *payout.Service
	programService *program.Service
	cache          *cache.Service
}

func NewAffiliateHandler(store repositories.Store, payoutService *payout.Service, programService *program.Service, cacheSvc *cache.Service) *AffiliateHandler {
	return &AffiliateHandler{
		store:          store,
		payoutService:  payoutService,
		programService: programService,
		cache:          cacheSvc,
	}
}

type dashboardPayload struct {
	AffiliateID   uint   `json:"affiliate_id"`
	Status        string `json:"status"`
	Balance       string `json:"balance"`
	TotalEarnings string `json:"total_earnings"`
}

// Dashboard returns the account summary, cached briefly since it is the
// most frequent read and is invalidated on every payout request.
func (h *AffiliateHandler) Dashboard(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	if h.cache != nil {
		var cached dashboardPayload
		if err := h.cache.GetJSON(c.Context(), cache.DashboardKey(claims.UserID), &cached); err == nil {
			return utils.Success(c, cached)
		}
	}

	acct, err := h.store.Affiliates().GetByUserID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return utils.NotFound(c, "no affiliate account")
		}
		return utils.InternalError(c, "failed to load account")
	}

	payload := dashboardPayload{
		AffiliateID:   acct.ID,
		Status:        acct.Status,
		Balance:       acct.Balance.String(),
		TotalEarnings: acct.TotalEarnings.String(),
	}
	if h.cache != nil {
		if err := h.cache.SetJSON(c.Context(), cache.DashboardKey(claims.UserID), payload); err != nil {
			log.Printf("dashboard cache write failed: %v", err)
		}
	}
	return utils.Success(c, payload)
}

// Ledger returns the account's balance history, newest first.
func (h *AffiliateHandler) Ledger(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	acct, err := h.store.Affiliates().GetByUserID(c.Context(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "no affiliate account")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	entries, err := h.store.Ledger().ListByAffiliate(c.Context(), acct.ID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "failed to load ledger")
	}
	return utils.Success(c, fiber.Map{"entries": entries})
}

// Referrals returns the account's commission records, newest first.
func (h *AffiliateHandler) Referrals(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	acct, err := h.store.Affiliates().GetByUserID(c.Context(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "no affiliate account")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	refs, err := h.store.Referrals().ListByAffiliate(c.Context(), acct.ID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "failed to load referrals")
	}
	return utils.Success(c, fiber.Map{"referrals": refs})
}

// RequestPayout creates a withdrawal request. Validation failures come
// back with their error codes so the dashboard can surface them inline.
func (h *AffiliateHandler) RequestPayout(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount string `json:"amount"`
		Method string `json:"method"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return utils.BadRequest(c, "invalid amount")
	}

	cfg, err := h.programService.Snapshot(c.Context())
	if err != nil {
		return utils.InternalError(c, "configuration unavailable")
	}

	p, err := h.payoutService.Request(c.Context(), claims.UserID, amount, input.Method, cfg)
	if err != nil {
		if status, code, ok := businessCode(err); ok {
			return utils.Failure(c, status, code)
		}
		log.Printf("payout request for user %d failed: %v", claims.UserID, err)
		return utils.InternalError(c, "payout request failed")
	}

	if h.cache != nil {
		if err := h.cache.Delete(c.Context(), cache.DashboardKey(claims.UserID)); err != nil {
			log.Printf("dashboard cache invalidation failed: %v", err)
		}
	}
	return utils.Success(c, fiber.Map{
		"success":   true,
		"payout_id": p.ID,
		"status":    p.Status,
	})
}

// Payouts lists the account's withdrawal history.
func (h *AffiliateHandler) Payouts(c *fiber.Ctx) error {
	claims, err := middleware.Claims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	acct, err := h.store.Affiliates().GetByUserID(c.Context(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "no affiliate account")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	payouts, err := h.store.Payouts().ListByAffiliate(c.Context(), acct.ID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "failed to load payouts")
	}
	return utils.Success(c, fiber.Map{"payouts": payouts})
}
