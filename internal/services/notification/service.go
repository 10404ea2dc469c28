// Package notification dispatches affiliate-facing notifications
// (commission earned, payout decided). Dispatch is fire-and-forget and
// always happens after the owning transaction has committed; a delivery
// failure never affects ledger state.
package notification

import "log"

// Dispatcher is what the commission and payout services need from the
// notification layer.
type Dispatcher interface {
	Dispatch(trigger string, recipient string, data map[string]interface{}, relatedOrderID uint)
}

// Notification triggers.
const (
	TriggerCommissionEarned = "affiliate.commission_earned"
	TriggerPayoutRequested  = "affiliate.payout_requested"
	TriggerPayoutCompleted  = "affiliate.payout_completed"
	TriggerPayoutRejected   = "affiliate.payout_rejected"
)

// Service is the log-backed dispatcher. Template rendering and delivery
// live in the platform's notification pipeline; this core only hands
// events over.
type Service struct{}

// NewService creates the dispatcher.
func NewService() *Service { return &Service{} }

// Dispatch hands the event to the delivery pipeline asynchronously.
func (s *Service) Dispatch(trigger string, recipient string, data map[string]interface{}, relatedOrderID uint) {
	go func() {
		log.Printf("notify %s -> %s (order %d): %v", trigger, recipient, relatedOrderID, data)
	}()
}

// Noop discards every notification; used in tests.
type Noop struct{}

// Dispatch implements Dispatcher.
func (Noop) Dispatch(string, string, map[string]interface{}, uint) {}
