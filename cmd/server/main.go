package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	financeapp "github.com/mfgworks/erp/internal/application/finance"
	tradeapp "github.com/mfgworks/erp/internal/application/trade"
	"github.com/mfgworks/erp/internal/domain/shared"
	"github.com/mfgworks/erp/internal/infrastructure/cache"
	"github.com/mfgworks/erp/internal/infrastructure/config"
	"github.com/mfgworks/erp/internal/infrastructure/event"
	"github.com/mfgworks/erp/internal/infrastructure/logger"
	"github.com/mfgworks/erp/internal/infrastructure/persistence"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ERP order-to-pay service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	purchaseRequestRepo := persistence.NewGormPurchaseRequestRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	payableRepo := persistence.NewGormAccountsPayableRepository(db.DB)

	// Initialize application services
	quotationService := tradeapp.NewQuotationService(quotationRepo)
	purchaseRequestService := tradeapp.NewPurchaseRequestService(purchaseRequestRepo)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, purchaseRequestRepo)
	payableService := financeapp.NewPayableService(payableRepo)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize the idempotency store for event deduplication. Redis is
	// preferred so duplicate suppression survives restarts; the in-memory
	// store is the fallback for development setups.
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.Event.RequireRedis),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	idempotencyConfig := shared.IdempotencyConfig{
		TTL:     cfg.Event.IdempotencyTTL,
		Enabled: cfg.Event.IdempotencyEnabled,
	}
	subscribe := func(handler shared.EventHandler) {
		eventBus.Subscribe(event.NewIdempotentHandler(handler, idempotencyStore, log,
			event.WithIdempotencyConfig(idempotencyConfig),
		))
	}

	// Purchase order created -> purchase request marked ordered
	poCreatedHandler := tradeapp.NewPurchaseOrderCreatedHandler(purchaseRequestRepo, log)
	subscribe(poCreatedHandler)

	// Purchase order received -> purchase request closed
	poReceivedHandler := tradeapp.NewPurchaseOrderReceivedHandler(purchaseRequestRepo, log)
	subscribe(poReceivedHandler)

	// Purchase order cancelled -> vendor selection reverted
	poCancelledHandler := tradeapp.NewPurchaseOrderCancelledHandler(purchaseRequestRepo, log)
	subscribe(poCancelledHandler)

	// Purchase order received -> accounts payable opened for the obligation
	payableOnReceivedHandler := financeapp.NewPurchaseOrderReceivedHandler(payableRepo, log,
		financeapp.WithPaymentTermDays(cfg.Payable.DefaultPaymentTermDays),
	)
	subscribe(payableOnReceivedHandler)

	log.Info("Event handlers registered",
		zap.Strings("po_created_events", poCreatedHandler.EventTypes()),
		zap.Strings("po_received_events", poReceivedHandler.EventTypes()),
		zap.Strings("po_cancelled_events", poCancelledHandler.EventTypes()),
		zap.Strings("payable_on_received_events", payableOnReceivedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	quotationService.SetEventPublisher(eventBus)
	purchaseRequestService.SetEventPublisher(eventBus)
	purchaseOrderService.SetEventPublisher(eventBus)
	payableService.SetEventPublisher(eventBus)

	log.Info("Service started")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	log.Info("Service exited gracefully")
}
