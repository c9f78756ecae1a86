// Package routes defines the API routing configuration.
// It wires repositories, services and handlers and registers all HTTP
// routes with their middleware.
package routes

import (
	"skillhub/internal/config"
	"skillhub/internal/handlers"
	"skillhub/internal/middleware"
	"skillhub/internal/models"
	"skillhub/internal/repositories"
	"skillhub/internal/services/auth"
	"skillhub/internal/services/gift"
	"skillhub/internal/services/notification"
	"skillhub/internal/services/rewards"
	"skillhub/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	ledgerRepo := repositories.NewLedgerRepository(db)
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)

	// Services
	authService := auth.NewService(userRepo)
	notifier := notification.NewService(userRepo)
	rewardsService := rewards.NewService(ledgerRepo, repositories.CacheService, rewards.Config{
		DailyManualCap: config.GetInt64Env("REWARDS_DAILY_MANUAL_CAP", rewards.DefaultDailyManualCap),
	})

	var charger wallet.CardCharger
	if key := config.GetEnv("STRIPE_SECRET_KEY", ""); key != "" {
		charger = wallet.NewStripeCharger(key, config.GetEnv("STRIPE_CURRENCY", "usd"))
	}
	walletService := wallet.NewService(ledgerRepo, repositories.CacheService, charger, rewardsService, wallet.Config{
		MaxTopUpAmount: config.GetInt64Env("WALLET_MAX_TOPUP", wallet.DefaultMaxTopUpAmount),
	})

	giftService := gift.NewService(ledgerRepo, notifier, repositories.CacheService, gift.Config{
		MinAmount:    config.GetInt64Env("GIFT_MIN_AMOUNT", gift.DefaultMinAmount),
		MaxAmount:    config.GetInt64Env("GIFT_MAX_AMOUNT", gift.DefaultMaxAmount),
		CancelWindow: config.GetDurationEnv("GIFT_CANCEL_WINDOW", gift.DefaultCancelWindow),
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	giftHandler := handlers.NewGiftHandler(giftService)
	rewardsHandler := handlers.NewRewardsHandler(rewardsService)

	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	// Protected endpoints
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", authHandler.ChangePassword)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.Get)
	walletGroup.Post("/", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Provision)
	walletGroup.Post("/topup", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.TopUp)
	walletGroup.Post("/deactivate", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Deactivate)
	walletGroup.Post("/reactivate", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Reactivate)

	giftGroup := protected.Group("/gift")
	giftGroup.Post("/send", middleware.HasPermission(models.PermissionGiftSend), giftHandler.Send)
	giftGroup.Post("/:transactionId/cancel", middleware.HasPermission(models.PermissionGiftSend), giftHandler.Cancel)
	giftGroup.Get("/history", middleware.HasPermission(models.PermissionGiftRead), giftHandler.History)
	giftGroup.Get("/sent", middleware.HasPermission(models.PermissionGiftRead), giftHandler.Sent)
	giftGroup.Get("/received", middleware.HasPermission(models.PermissionGiftRead), giftHandler.Received)

	rewardsGroup := protected.Group("/rewards")
	rewardsGroup.Get("/", middleware.HasPermission(models.PermissionRewardsRead), rewardsHandler.GetBalance)
	rewardsGroup.Post("/earn", middleware.HasPermission(models.PermissionRewardsWrite), rewardsHandler.Earn)
	rewardsGroup.Post("/redeem", middleware.HasPermission(models.PermissionRewardsWrite), rewardsHandler.Redeem)
	rewardsGroup.Post("/convert", middleware.HasPermission(models.PermissionRewardsWrite), rewardsHandler.Convert)
	rewardsGroup.Get("/conversion-info", middleware.HasPermission(models.PermissionRewardsRead), rewardsHandler.ConversionInfo)
	rewardsGroup.Get("/history", middleware.HasPermission(models.PermissionRewardsRead), rewardsHandler.History)
}
