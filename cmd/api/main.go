package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger-core/config"
	busRabbit "ledger-core/internal/adapter/eventbus/rabbitmq"
	httpHandler "ledger-core/internal/adapter/http/handler"
	"ledger-core/internal/adapter/ledgerclient"
	pgStorage "ledger-core/internal/adapter/storage/postgres"
	redisStorage "ledger-core/internal/adapter/storage/redis"
	"ledger-core/internal/consumer"
	"ledger-core/internal/core/ports"
	"ledger-core/internal/service"
	"ledger-core/pkg/logger"
	"ledger-core/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Ledger Core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize event publisher. A broker outage at startup degrades to a
	// no-op publisher rather than blocking the whole service.
	var publisher ports.EventPublisher
	rabbitPub, err := busRabbit.NewPublisher(cfg.RabbitMQ, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, events will be dropped")
		publisher = busRabbit.NewNopPublisher(log)
	} else {
		publisher = rabbitPub
	}
	defer publisher.Close()

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	clientRepo := pgStorage.NewClientRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	reconRepo := pgStorage.NewReconciliationRepo(pool)
	operatorRepo := pgStorage.NewOperatorRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize metrics
	collector := metrics.NewCollector()

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(operatorRepo, hashSvc, tokenSvc)
	clientDir := service.NewClientDirectory(clientRepo)
	accountSvc := service.NewAccountService(accountRepo, clientDir, transactor, publisher, log)
	clientSvc := service.NewClientService(clientRepo, publisher, log)

	// Ledger boundary: remote HTTP gateway when a base URL is configured,
	// in-process otherwise.
	var gateway ports.LedgerGateway
	if cfg.Ledger.BaseURL != "" {
		gateway = ledgerclient.NewHTTPGateway(cfg.Ledger)
		log.Info().Str("base_url", cfg.Ledger.BaseURL).Msg("using remote account ledger")
	} else {
		gateway = ledgerclient.NewLocalGateway(accountSvc)
	}

	txSvc := service.NewTransactionService(
		txRepo,
		idempotencyRepo,
		idempotencyCache,
		reconRepo,
		gateway,
		publisher,
		collector,
		log,
	)

	// Start event consumers. Each gets its own channel-bearing connection;
	// a failed consumer is logged and the HTTP surface keeps serving.
	startConsumer := func(name string, run func(bus ports.EventConsumer) error) {
		bus, err := busRabbit.NewConsumer(cfg.RabbitMQ, log)
		if err != nil {
			log.Warn().Err(err).Str("consumer", name).Msg("consumer not started, RabbitMQ unavailable")
			return
		}
		go func() {
			defer bus.Close()
			if err := run(bus); err != nil {
				log.Error().Err(err).Str("consumer", name).Msg("consumer stopped")
			}
		}()
	}
	startConsumer("client-events", consumer.NewClientEventConsumer(accountSvc, log).Run)
	startConsumer("notifications", consumer.NewNotificationConsumer(log).Run)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		AccountSvc:     accountSvc,
		TransactionSvc: txSvc,
		ClientSvc:      clientSvc,
		ReconRepo:      reconRepo,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Metrics:        collector,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
