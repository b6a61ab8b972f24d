package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port     int    `yaml:"port"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type CheckoutConfig struct {
	DefaultFeeRate float64 `yaml:"default_fee_rate"`
	DomesticPrefix string  `yaml:"domestic_prefix"`
	CartTTL        string  `yaml:"cart_ttl"`
}

type MercadoPagoConfig struct {
	AccessToken string `yaml:"access_token"`
	SuccessURL  string `yaml:"success_url"`
	FailureURL  string `yaml:"failure_url"`
}

type ConfigFile struct {
	App         AppConfig         `yaml:"app"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	JWT         JWTConfig         `yaml:"jwt"`
	OTP         OTPConfig         `yaml:"otp"`
	Twilio      TwilioConfig      `yaml:"twilio"`
	Casbin      CasbinConfig      `yaml:"casbin"`
	Checkout    CheckoutConfig    `yaml:"checkout"`
	MercadoPago MercadoPagoConfig `yaml:"mercadopago"`
	Coupons     map[string]int    `yaml:"coupons"`
}

type Config struct {
	Port             string
	GinMode          string
	LogLevel         string
	DSN              string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	JWTSecret        string
	JWTIssuer        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	OTP_TTL          time.Duration
	OTP_Length       int
	OTP_MaxAttempts  int
	OTP_ResendWindow time.Duration
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
	CasbinModelPath  string
	DefaultFeeRate   float64
	DomesticPrefix   string
	CartTTL          time.Duration
	MPAccessToken    string
	MPSuccessURL     string
	MPFailureURL     string
	Coupons          map[string]int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	cartTTL, err := time.ParseDuration(configFile.Checkout.CartTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cart TTL: %w", err)
	}

	cfg := &Config{
		Port:             fmt.Sprintf("%d", configFile.App.Port),
		GinMode:          configFile.App.GinMode,
		LogLevel:         configFile.App.LogLevel,
		DSN:              env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:        env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:    env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:          configFile.Redis.DB,
		JWTSecret:        env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:        configFile.JWT.Issuer,
		AccessTTL:        accTTL,
		RefreshTTL:       refTTL,
		OTP_TTL:          otpTTL,
		OTP_Length:       configFile.OTP.Length,
		OTP_MaxAttempts:  configFile.OTP.MaxAttempts,
		OTP_ResendWindow: resWnd,
		TwilioSID:        env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:       env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		CasbinModelPath:  configFile.Casbin.ModelPath,
		DefaultFeeRate:   configFile.Checkout.DefaultFeeRate,
		DomesticPrefix:   configFile.Checkout.DomesticPrefix,
		CartTTL:          cartTTL,
		MPAccessToken:    env("MERCADOPAGO_ACCESS_TOKEN", configFile.MercadoPago.AccessToken),
		MPSuccessURL:     configFile.MercadoPago.SuccessURL,
		MPFailureURL:     configFile.MercadoPago.FailureURL,
		Coupons:          normalizeCoupons(configFile.Coupons),
	}

	if cfg.DefaultFeeRate == 0 {
		cfg.DefaultFeeRate = 0.16
	}
	if cfg.DomesticPrefix == "" {
		cfg.DomesticPrefix = "+57"
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

// normalizeCoupons upper-cases codes so lookups can be case-insensitive
func normalizeCoupons(coupons map[string]int) map[string]int {
	out := make(map[string]int, len(coupons))
	for code, discount := range coupons {
		out[strings.ToUpper(strings.TrimSpace(code))] = discount
	}
	return out
}
