package container

import (
	"context"
	"fmt"
	"time"

	"internvault-backend/internal/config"
	"internvault-backend/internal/infrastructure/cache"
	"internvault-backend/internal/infrastructure/database"
	"internvault-backend/internal/infrastructure/geo"
	"internvault-backend/internal/infrastructure/queue"
	"internvault-backend/pkg/jwt"
	"internvault-backend/pkg/logger"

	appHandler "internvault-backend/internal/domains/application/handler"
	appRepo "internvault-backend/internal/domains/application/repository"
	appService "internvault-backend/internal/domains/application/service"
	paymentGateway "internvault-backend/internal/domains/payment/gateway"
	paymentHandler "internvault-backend/internal/domains/payment/handler"
	paymentRepo "internvault-backend/internal/domains/payment/repository"
	paymentService "internvault-backend/internal/domains/payment/service"
	pricingHandler "internvault-backend/internal/domains/pricing/handler"
	pricingRepo "internvault-backend/internal/domains/pricing/repository"
	pricingService "internvault-backend/internal/domains/pricing/service"
	userHandler "internvault-backend/internal/domains/user/handler"
	userRepo "internvault-backend/internal/domains/user/repository"
	userService "internvault-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is
// a singleton built once at startup.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Enqueuer   *queue.Client
	TxManager  database.TransactionManager
	Locator    geo.Locator

	// Repositories
	UserRepo         userRepo.UserRepository
	PricingRepo      pricingRepo.PricingRepository
	ApplicationRepo  appRepo.ApplicationRepository
	ProjectRepo      appRepo.ProjectRepository
	PaymentRepo      paymentRepo.PaymentRepository
	PaymentEventRepo paymentRepo.PaymentEventRepository

	// Services
	UserService        userService.UserService
	PricingService     pricingService.PricingService
	ApplicationService appService.ApplicationService
	PaymentService     paymentService.PaymentService
	Reconciler         paymentService.Reconciler
	WebhookService     paymentService.WebhookService

	// Handlers
	AuthHandler        *userHandler.AuthHandler
	PricingHandler     *pricingHandler.PricingHandler
	ApplicationHandler *appHandler.ApplicationHandler
	PaymentHandler     *paymentHandler.PaymentHandler
}

// NewContainer builds the whole dependency graph in layer order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)

	// Step 2: database
	db := database.NewPostgresDB(&cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Step 3: redis cache. A cache outage is not fatal; reads fall
	// through to postgres.
	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.Cache = redisCache

	// Step 4: shared infrastructure
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)
	c.Enqueuer = queue.NewClient(cfg.Redis.Addr)
	c.TxManager = database.NewTransactionManager(db.Pool)
	c.Locator = geo.NewIPAPILocator(cfg.Geo.APIBase)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("Container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.PricingRepo = pricingRepo.NewPostgresPricingRepository(pool)
	c.ApplicationRepo = appRepo.NewPostgresApplicationRepository(pool)
	c.ProjectRepo = appRepo.NewPostgresProjectRepository(pool)
	c.PaymentRepo = paymentRepo.NewPostgresPaymentRepository(pool)
	c.PaymentEventRepo = paymentRepo.NewPostgresPaymentEventRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.ApplicationRepo,
		c.JWTManager,
		c.Enqueuer,
		cfg.App.FrontendURL,
	)

	c.PricingService = pricingService.NewPricingService(
		c.PricingRepo,
		c.Locator,
		c.Cache,
	)

	c.ApplicationService = appService.NewApplicationService(
		c.ApplicationRepo,
		c.ProjectRepo,
		c.PricingService,
		c.TxManager,
		c.Enqueuer,
	)

	gateways := []paymentGateway.Gateway{
		paymentGateway.NewStripeGateway(cfg.Stripe.SecretKey, cfg.App.FrontendURL),
		paymentGateway.NewPayPalGateway(cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, cfg.PayPal.APIBase, cfg.App.FrontendURL),
		paymentGateway.NewNetBankingGateway(),
		paymentGateway.NewCashfreeGateway(cfg.Cashfree.ClientID, cfg.Cashfree.ClientSecret, cfg.Cashfree.APIBase, cfg.Cashfree.ReturnURL, cfg.Cashfree.NotifyURL),
	}

	c.PaymentService = paymentService.NewPaymentService(
		c.PaymentRepo,
		c.ApplicationRepo,
		gateways,
	)

	c.Reconciler = paymentService.NewReconcileService(
		c.PaymentRepo,
		c.PaymentEventRepo,
		c.ApplicationRepo,
		c.TxManager,
		c.Enqueuer,
	)

	c.WebhookService = paymentService.NewWebhookService(
		c.Reconciler,
		cfg.Stripe.WebhookSecret,
		cfg.Cashfree.WebhookSecret,
	)
}

func (c *Container) initHandlers() {
	c.AuthHandler = userHandler.NewAuthHandler(c.UserService)
	c.PricingHandler = pricingHandler.NewPricingHandler(c.PricingService)
	c.ApplicationHandler = appHandler.NewApplicationHandler(c.ApplicationService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService, c.WebhookService)
}

// Cleanup releases held connections. Call on shutdown.
func (c *Container) Cleanup() {
	if c.Enqueuer != nil {
		if err := c.Enqueuer.Close(); err != nil {
			logger.Error("Failed to close task client", err)
		}
	}
	if rc, ok := c.Cache.(*cache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
