package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/handler"
	"storefront/internal/mail"
	internalRedis "storefront/internal/redis"
	"storefront/internal/repository/postgres"
	"storefront/internal/service"
	"storefront/internal/stripe"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server, reconciler := wireServer(ctx, db, redisClient, nrApp, cfg)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	// Let confirmation emails for already-acknowledged webhooks finish.
	reconciler.Wait()

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies, seeds startup records and returns the
// HTTP server together with the reconciler so shutdown can drain it.
func wireServer(ctx context.Context, db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, *service.Reconciler) {
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	orderRepo := postgres.NewOrderRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	productRepo := postgres.NewProductRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	// Initialize services.
	settingsService := service.NewSettingsService(settingsRepo, domain.PaymentSettings{
		SecretKey:      cfg.Stripe.SecretKey,
		PublishableKey: cfg.Stripe.PublishableKey,
	})
	emailConfig := service.NewEmailConfigProvider(settingsRepo, domain.EmailSettings{
		SMTPHost:  cfg.Email.SMTPHost,
		SMTPPort:  cfg.Email.SMTPPort,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		Sender:    cfg.Email.Sender,
		Recipient: cfg.Email.Recipient,
	})
	adminService := service.NewAdminService(adminRepo, cfg.Admin.Username, cfg.Admin.Password)

	if _, err := settingsService.SeedPaymentConfig(ctx); err != nil {
		log.Fatalf("failed to seed payment settings: %v", err)
	}
	if _, err := adminService.EnsureAdmin(ctx); err != nil {
		log.Fatalf("failed to bootstrap admin user: %v", err)
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Println("STRIPE_WEBHOOK_SECRET is empty; webhooks will be rejected")
	}

	notificationService := service.NewNotificationService(emailConfig, mail.NewSMTPMailer())
	catalogService := service.NewCatalogService(productRepo, cacheStore)
	orderService := service.NewOrderService(orderRepo)
	checkoutService := service.NewCheckoutService(orderRepo, catalogService, settingsService, stripe.NewGateway(), service.CheckoutURLs{
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	})
	reconciler := service.NewReconciler(orderRepo, settingsService, stripe.NewVerifier(), notificationService, cfg.Stripe.WebhookSecret)

	// Initialize handlers.
	router := app.NewRouter(app.RouterDeps{
		CheckoutHandler: handler.NewCheckoutHandler(checkoutService),
		WebhookHandler:  handler.NewWebhookHandler(reconciler),
		OrderHandler:    handler.NewOrderHandler(orderService),
		ProductHandler:  handler.NewProductHandler(catalogService),
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, reconciler
}
