package handlers

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v72"

	"vendora/internal/services/commission"
	"vendora/internal/services/program"
	"vendora/internal/utils"
)

// WebhookHandler receives "order paid" events from the checkout
// pipeline and from payment gateways. Gateway signature verification
// and refund mechanics live in the checkout pipeline; by the time an
// event lands here it only identifies which order was paid.
type WebhookHandler struct {
	commissionService *commission.Service
	programService    *program.Service
}

func NewWebhookHandler(commissionService *commission.Service, programService *program.Service) *WebhookHandler {
	return &WebhookHandler{
		commissionService: commissionService,
		programService:    programService,
	}
}

// OrderPaid processes a confirmed order into a commission. Safe to call
// repeatedly for the same order.
func (h *WebhookHandler) OrderPaid(c *fiber.Ctx) error {
	var input struct {
		OrderID uint `json:"order_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.OrderID == 0 {
		return utils.BadRequest(c, "order_id is required")
	}
	return h.process(c, input.OrderID)
}

// StripeEvent accepts a stripe webhook event and, for payment
// completions carrying an order_id in their metadata, triggers order
// processing. Everything else is acknowledged and ignored.
func (h *WebhookHandler) StripeEvent(c *fiber.Ctx) error {
	var event stripe.Event
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return utils.BadRequest(c, "invalid event payload")
	}

	switch event.Type {
	case "checkout.session.completed", "payment_intent.succeeded":
	default:
		return utils.Success(c, fiber.Map{"received": true})
	}

	orderID := orderIDFromEvent(&event)
	if orderID == 0 {
		log.Printf("stripe event %s carries no order_id metadata", event.ID)
		return utils.Success(c, fiber.Map{"received": true})
	}
	return h.process(c, orderID)
}

func (h *WebhookHandler) process(c *fiber.Ctx, orderID uint) error {
	cfg, err := h.programService.Snapshot(c.Context())
	if err != nil {
		log.Printf("program snapshot failed: %v", err)
		return utils.InternalError(c, "configuration unavailable")
	}

	result, err := h.commissionService.ProcessOrder(c.Context(), orderID, cfg)
	if err != nil {
		if status, code, ok := businessCode(err); ok {
			return utils.Failure(c, status, code)
		}
		log.Printf("order %d processing failed: %v", orderID, err)
		return utils.InternalError(c, "order processing failed")
	}

	return utils.Success(c, fiber.Map{
		"success":           true,
		"commission_amount": result.CommissionAmount,
		"referral_id":       result.ReferralID,
		"levels":            result.Levels,
	})
}

func orderIDFromEvent(event *stripe.Event) uint {
	raw, ok := event.Data.Object["metadata"]
	if !ok {
		return 0
	}
	meta, ok := raw.(map[string]interface{})
	if !ok {
		return 0
	}
	val, ok := meta["order_id"].(string)
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
