package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"resursbank-gateway/internal/config"
	infraCache "resursbank-gateway/internal/infrastructure/cache"
	"resursbank-gateway/internal/infrastructure/database"
	"resursbank-gateway/internal/infrastructure/queue"
	"resursbank-gateway/internal/shared"
	"resursbank-gateway/pkg/cache"
	"resursbank-gateway/pkg/jwt"
	"resursbank-gateway/pkg/logger"

	adminHandler "resursbank-gateway/internal/domains/admin/handler"
	adminService "resursbank-gateway/internal/domains/admin/service"
	callbackHandler "resursbank-gateway/internal/domains/callback/handler"
	callbackService "resursbank-gateway/internal/domains/callback/service"
	optionRepo "resursbank-gateway/internal/domains/option/repository"
	orderRepo "resursbank-gateway/internal/domains/order/repository"
	orderService "resursbank-gateway/internal/domains/order/service"
	"resursbank-gateway/internal/domains/payment/credentials"
	"resursbank-gateway/internal/domains/payment/gateway/resurs"
	paymentHandler "resursbank-gateway/internal/domains/payment/handler"
	"resursbank-gateway/internal/domains/payment/mapper"
	paymentModel "resursbank-gateway/internal/domains/payment/model"
	paymentService "resursbank-gateway/internal/domains/payment/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the dependency graph shared by the API and the worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisCache
	Cache      cache.Cache // nil when Redis is unreachable at startup
	Queue      *queue.Client
	RedisOpt   asynq.RedisClientOpt
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	OrderRepo  orderRepo.Repository
	OptionRepo optionRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	Credentials       *credentials.Resolver
	StatusMapper      *mapper.StatusMapper
	StatusUpdater     orderService.StatusUpdater
	ReferenceResolver orderService.ReferenceResolver
	PaymentService    paymentService.Service
	ReturnService     paymentService.ReturnService
	DigestValidator   callbackService.DigestValidator
	CallbackService   callbackService.Service
	Registrar         callbackService.Registrar
	AdminDispatcher   *adminService.Dispatcher

	// ========================================
	// HANDLER LAYER
	// ========================================
	CallbackHandler *callbackHandler.CallbackHandler
	PaymentHandler  *paymentHandler.PaymentHandler
	AdminHandler    *adminHandler.AdminHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in order:
// config → infrastructure → repositories → services → handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	log.Printf("✅ Config loaded (Environment: %s, Resurs: %s/%s)", cfg.App.Environment, cfg.Resurs.Environment, cfg.Resurs.Flavour)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := cfg.DBConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE & QUEUE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	c.Redis = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB, "resurs:")
	if err := c.Redis.Ping(ctx); err != nil {
		// Cache is optional: payment methods are fetched live instead.
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		c.Cache = c.Redis
		log.Println("✅ Redis connected")
	}

	c.RedisOpt = asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	c.Queue = queue.NewClient(c.RedisOpt, cfg.Queue.Name, cfg.Queue.MaxRetry, cfg.Queue.TaskTimeout)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	c.OrderRepo = orderRepo.NewPostgresRepository(db.Pool)
	c.OptionRepo = optionRepo.NewPostgresRepository(db.Pool)
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	if err := c.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	c.CallbackHandler = callbackHandler.NewCallbackHandler(c.CallbackService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService, c.ReturnService)
	c.AdminHandler = adminHandler.NewAdminHandler(c.AdminDispatcher)
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initServices() error {
	cfg := c.Config

	// ----------------------------------------
	// CREDENTIALS & GATEWAYS
	// ----------------------------------------
	sealer, err := credentials.NewSealer(cfg.Resurs.SnapshotKey)
	if err != nil {
		return err
	}

	gatewayCfg := resurs.Config{
		Endpoints: resurs.Endpoints{
			MerchantAPI: cfg.Resurs.MerchantAPIURL,
			ECommerce:   cfg.Resurs.ECommerceURL,
			TokenURL:    cfg.Resurs.TokenURL,
		},
		Timeout: cfg.Resurs.Timeout,
	}
	if err := gatewayCfg.Validate(); err != nil {
		return err
	}

	active, secondary := CredentialSets(cfg.Resurs)
	c.Credentials = credentials.NewResolver(active, secondary, resurs.NewFactory(gatewayCfg), sealer)
	if !active.IsComplete() {
		logger.Warn("Resurs Bank credentials not configured; remote calls will fail until they are set", map[string]interface{}{
			"environment": active.Environment,
		})
	}

	// ----------------------------------------
	// STATUS MAPPING
	// ----------------------------------------
	overrides, err := mapper.ParseOverrides(cfg.Resurs.StatusOverrides)
	if err != nil {
		return err
	}
	c.StatusMapper = mapper.New(overrides)

	// ----------------------------------------
	// ORDER & PAYMENT SERVICES
	// ----------------------------------------
	c.StatusUpdater = orderService.NewStatusUpdater(c.OrderRepo, c.Queue)
	c.PaymentService = paymentService.NewPaymentService(c.Credentials, c.OrderRepo, c.Cache, cfg.Resurs.PaymentMethodsTTL)
	c.ReferenceResolver = orderService.NewReferenceResolver(c.OrderRepo, c.PaymentService)
	c.ReturnService = paymentService.NewReturnService(c.OrderRepo, c.PaymentService, c.StatusMapper, c.StatusUpdater)

	// ----------------------------------------
	// CALLBACKS
	// ----------------------------------------
	c.DigestValidator = callbackService.NewDigestValidator(c.OptionRepo, callbackService.DigestConfig{
		OnRotate: c.queueRegistration,
	})
	c.CallbackService = callbackService.NewCallbackService(
		c.DigestValidator,
		c.ReferenceResolver,
		c.PaymentService,
		c.StatusMapper,
		c.StatusUpdater,
		c.OptionRepo,
		nil,
	)
	c.Registrar = callbackService.NewRegistrar(c.Credentials, c.DigestValidator, c.OptionRepo, cfg.Callback.BaseURL, nil)

	// ----------------------------------------
	// ADMIN
	// ----------------------------------------
	c.AdminDispatcher = adminService.NewDispatcher(adminService.Deps{
		Payments: c.PaymentService,
		Resolver: c.ReferenceResolver,
		Orders:   c.OrderRepo,
		Options:  c.OptionRepo,
		Mapper:   c.StatusMapper,
		Queue:    c.Queue,
	})

	return nil
}

// queueRegistration tells the provider about a freshly rotated salt.
func (c *Container) queueRegistration(ctx context.Context, _ string) {
	err := c.Queue.Enqueue(ctx, shared.TypeCallbackRegister, callbackService.RegisterPayload{Reason: "salt_rotated"})
	if err != nil {
		logger.Error("failed to queue callback registration after salt rotation", err)
	}
}

// CredentialSets turns configuration into the active and secondary credential sets.
// The secondary set always talks to the legacy eCommerce API.
func CredentialSets(cfg config.ResursConfig) (active, secondary paymentModel.CredentialSet) {
	env := paymentModel.Environment(cfg.Environment)
	creds := cfg.Active()

	active = paymentModel.CredentialSet{
		Username:    creds.ClientID,
		Secret:      creds.ClientSecret,
		Environment: env,
		Flavour:     paymentModel.APIFlavour(cfg.Flavour),
		StoreID:     cfg.StoreID,
	}
	if cfg.Legacy.IsSet() && !(cfg.Flavour == string(paymentModel.FlavourECommerce) && cfg.Legacy == creds) {
		secondary = paymentModel.CredentialSet{
			Username:    cfg.Legacy.ClientID,
			Secret:      cfg.Legacy.ClientSecret,
			Environment: env,
			Flavour:     paymentModel.FlavourECommerce,
		}
	}
	return active, secondary
}

// Cleanup releases connections. Safe to call on a partially built container.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Printf("⚠️  Failed to close queue client: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	log.Println("✅ Container cleanup completed")
}
