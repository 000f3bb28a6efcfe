package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the full application configuration, populated from
// environment variables at startup.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Stripe   StripeConfig
	PayPal   PayPalConfig
	Cashfree CashfreeConfig
	Geo      GeoConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	FrontendURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type SMTPConfig struct {
	Host        string
	Port        string
	PaymentFrom string // sender for payment/reconciliation mail
	NoReplyFrom string // sender for verification and notices
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	APIBase      string
}

type CashfreeConfig struct {
	ClientID      string
	ClientSecret  string
	APIBase       string
	WebhookSecret string // optional; empty disables signature checking
	ReturnURL     string
	NotifyURL     string
}

type GeoConfig struct {
	APIBase string // IP geolocation service base URL
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "InternVault API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "internvault"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 60*24),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", "localhost"),
			Port:        getEnv("SMTP_PORT", "1025"),
			PaymentFrom: getEnv("SMTP_PAYMENT_USER", "payments@internvault.com"),
			NoReplyFrom: getEnv("SMTP_NOREPLY_USER", "noreply@internvault.com"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		PayPal: PayPalConfig{
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
			APIBase:      getEnv("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com"),
		},
		Cashfree: CashfreeConfig{
			ClientID:      getEnv("CASHFREE_CLIENT_ID", ""),
			ClientSecret:  getEnv("CASHFREE_CLIENT_SECRET", ""),
			APIBase:       getEnv("CASHFREE_API_BASE", "https://sandbox.cashfree.com/pg"),
			WebhookSecret: getEnv("CASHFREE_WEBHOOK_SECRET", ""),
			ReturnURL:     getEnv("CASHFREE_RETURN_URL", "http://localhost:3000/payment/payment-success"),
			NotifyURL:     getEnv("CASHFREE_NOTIFY_URL", "http://localhost:8080/api/v1/applications/webhook/cashfree"),
		},
		Geo: GeoConfig{
			APIBase: getEnv("GEO_API_BASE", "https://ipapi.co"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate enforces the settings that must not fall back to defaults
// outside development.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}

		// Gateways without credentials stay disabled rather than fatal.
		if c.Stripe.SecretKey == "" {
			fmt.Println("WARNING: STRIPE_SECRET_KEY not set - Stripe payment will not work")
		}
		if c.PayPal.ClientID == "" {
			fmt.Println("WARNING: PAYPAL_CLIENT_ID not set - PayPal payment will not work")
		}
		if c.Cashfree.ClientID == "" {
			fmt.Println("WARNING: CASHFREE_CLIENT_ID not set - Cashfree payment will not work")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
