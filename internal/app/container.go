package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/you/checkoutsvc/domain"
	"github.com/you/checkoutsvc/internal/config"
	"github.com/you/checkoutsvc/internal/infrastructure/audit"
	"github.com/you/checkoutsvc/internal/infrastructure/auth"
	"github.com/you/checkoutsvc/internal/infrastructure/database"
	"github.com/you/checkoutsvc/internal/infrastructure/notifications"
	"github.com/you/checkoutsvc/internal/infrastructure/payments"
	"github.com/you/checkoutsvc/internal/infrastructure/repositories"
	"github.com/you/checkoutsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger zerolog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	CustomerRepo domain.CustomerRepository
	ProfileRepo  domain.ProfileRepository
	TicketRepo   domain.TicketRepository
	TxRepo       domain.TransactionRepository
	SessionRepo  domain.SessionRepository
	CartRepo     domain.CartSessionRepository

	// Services
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	Gateway         domain.PaymentGateway
	AuditLog        domain.AuditLogger
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	ProfileSvc      domain.ProfileService
	CouponSvc       domain.CouponService
	FeeSvc          domain.FeeService
	PolicySvc       domain.PolicyService
	CheckoutSvc     domain.CheckoutService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		return nil, err
	}
	if err := c.initServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(db, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}

	c.DB = db
	c.Casbin = cas
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
	return c.RedisClient.Ping(context.Background()).Err()
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	c.NotificationSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Logger)
	gateway, err := payments.NewMercadoPagoGateway(cfg.MPAccessToken, cfg.MPSuccessURL, cfg.MPFailureURL, c.Logger)
	if err != nil {
		return err
	}
	c.Gateway = gateway
	c.AuditLog = audit.NewZerologAuditLogger(c.Logger)

	c.CustomerRepo = repositories.NewCustomerRepository(c.DB)
	c.ProfileRepo = repositories.NewProfileRepository(c.DB)
	c.TicketRepo = repositories.NewTicketRepository(c.DB)
	c.TxRepo = repositories.NewTransactionRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, cfg.RefreshTTL)
	c.CartRepo = repositories.NewCartSessionRepository(c.RedisClient, cfg.CartTTL)

	otpConfig := services.OTPConfig{
		Length:       cfg.OTP_Length,
		TTL:          cfg.OTP_TTL,
		MaxAttempts:  cfg.OTP_MaxAttempts,
		ResendWindow: cfg.OTP_ResendWindow,
	}
	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.RedisClient, otpConfig)
	c.AuthSvc = services.NewAuthService(c.CustomerRepo, c.SessionRepo, c.TokenSvc, c.OTPSvc, cfg.RefreshTTL, cfg.AccessTTL)
	c.ProfileSvc = services.NewProfileService(c.ProfileRepo, cfg.DomesticPrefix)
	c.CouponSvc = services.NewCouponService(cfg.Coupons)
	c.FeeSvc = services.NewFeeService(c.TicketRepo, cfg.DefaultFeeRate)
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
	c.CheckoutSvc = services.NewCheckoutService(
		c.CartRepo, c.TicketRepo, c.TxRepo,
		c.AuthSvc, c.OTPSvc, c.ProfileSvc, c.CouponSvc, c.FeeSvc,
		c.Gateway, c.AuditLog,
	)

	return nil
}

// SeedPolicies installs the default role grants when the policy table is empty
func (c *Container) SeedPolicies() {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	c.Casbin.E.AddPolicy("role_customer", "/auth/me", "GET")
	c.Casbin.E.AddPolicy("role_customer", "/auth/logout", "POST")
	_ = c.Casbin.E.SavePolicy()
	c.Logger.Info().Msg("casbin: seeded default policies")
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
