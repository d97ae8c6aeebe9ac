package handler

import (
	"ledger-core/internal/adapter/http/middleware"
	redisStore "ledger-core/internal/adapter/storage/redis"
	"ledger-core/internal/core/ports"
	"ledger-core/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	AccountSvc     ports.AccountService
	TransactionSvc ports.TransactionService
	ClientSvc      ports.ClientService
	ReconRepo      ports.ReconciliationRepository
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Metrics        *metrics.Collector // nil = metrics endpoint disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes (back office) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	accountHandler := NewAccountHandler(deps.AccountSvc)
	txHandler := NewTransactionHandler(deps.TransactionSvc)
	clientHandler := NewClientHandler(deps.ClientSvc)

	accounts := v1.Group("/accounts", jwtAuth)
	{
		accounts.POST("", rl("accounts"), accountHandler.CreateAccount)
		accounts.GET("", rl("accounts"), accountHandler.ListAccounts)
		accounts.GET("/:id", rl("accounts"), accountHandler.GetAccount)
		accounts.PUT("/:id/balance", rl("transactions"), accountHandler.UpdateBalance)
		accounts.POST("/:id/freeze", rl("accounts"), accountHandler.Freeze)
		accounts.POST("/:id/block", rl("accounts"), accountHandler.Block)
		accounts.POST("/:id/activate", rl("accounts"), accountHandler.Activate)
		accounts.POST("/:id/close", rl("accounts"), accountHandler.Close)
		accounts.POST("/:id/deposit", rl("transactions"), txHandler.Deposit)
		accounts.POST("/:id/withdraw", rl("transactions"), txHandler.Withdraw)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.POST("", rl("transactions"), txHandler.CreateTransaction)
		transactions.POST("/transfer", rl("transfers"), txHandler.Transfer)
		transactions.GET("", rl("transactions"), txHandler.ListTransactions)
		transactions.GET("/:id", rl("transactions"), txHandler.GetTransaction)
	}

	clients := v1.Group("/clients", jwtAuth)
	{
		clients.POST("", rl("clients"), clientHandler.CreateClient)
		clients.GET("", rl("clients"), clientHandler.ListClients)
		clients.GET("/:id", rl("clients"), clientHandler.GetClient)
		clients.POST("/:id/suspend", rl("clients"), clientHandler.SuspendClient)
		clients.POST("/:id/activate", rl("clients"), clientHandler.ActivateClient)
	}

	if deps.ReconRepo != nil {
		reconHandler := NewReconciliationHandler(deps.ReconRepo)
		v1.GET("/reconciliations", jwtAuth, rl("accounts"), reconHandler.List)
	}

	return r
}
