// Package routes wires the services and handlers onto the fiber app.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"vendora/internal/handlers"
	"vendora/internal/middleware"
	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/repositories/cache"
	"vendora/internal/services/auth"
	"vendora/internal/services/commission"
	"vendora/internal/services/notification"
	"vendora/internal/services/payout"
	"vendora/internal/services/program"
)

// SetupRoutes builds the dependency graph and registers all routes.
// cacheSvc may be nil; the app then runs without a read cache.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheSvc *cache.Service) {
	store := repositories.NewStore(db)
	notifier := notification.NewService()

	programService := program.NewService(store, cacheSvc)
	commissionService := commission.NewService(store, notifier)
	payoutService := payout.NewService(store, notifier)
	authService := auth.NewService(store)

	authHandler := handlers.NewAuthHandler(authService)
	webhookHandler := handlers.NewWebhookHandler(commissionService, programService)
	affiliateHandler := handlers.NewAffiliateHandler(store, payoutService, programService, cacheSvc)
	adminHandler := handlers.NewAdminHandler(store, payoutService)
	healthHandler := handlers.NewHealthHandler()

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")
	authGuard := middleware.Auth(authService)

	api.Post("/login", authHandler.Login)
	api.Post("/logout", authGuard, authHandler.Logout)

	// Inbound "order paid" events from the checkout pipeline and the
	// payment gateway. Idempotent, so redelivery is harmless.
	webhooks := api.Group("/webhooks")
	webhooks.Post("/order-paid", webhookHandler.OrderPaid)
	webhooks.Post("/stripe", webhookHandler.StripeEvent)

	affiliate := api.Group("/affiliate", authGuard)
	affiliate.Get("/dashboard", affiliateHandler.Dashboard)
	affiliate.Get("/ledger", affiliateHandler.Ledger)
	affiliate.Get("/referrals", affiliateHandler.Referrals)
	affiliate.Get("/payouts", affiliateHandler.Payouts)
	affiliate.Post("/payouts", affiliateHandler.RequestPayout)

	admin := api.Group("/admin", authGuard, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/payouts", adminHandler.ListPayouts)
	admin.Post("/payouts/:id/approve", adminHandler.ApprovePayout)
	admin.Post("/payouts/:id/reject", adminHandler.RejectPayout)
	admin.Get("/affiliates/:id/reconcile", adminHandler.ReconcileAffiliate)
}
