package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RateLimit is an ulule/limiter formatted rate, e.g. "60-M".
	RateLimit string

	// Fallback chart-of-accounts codes used by the account resolver when a
	// transaction carries no usable hint.
	DefaultExpenseAccount string
	DefaultCashAccount    string
	DefaultRevenueAccount string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "cargo-backoffice")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("DEFAULT_EXPENSE_ACCOUNT", "6-1100")
	viper.SetDefault("DEFAULT_CASH_ACCOUNT", "1-1000")
	viper.SetDefault("DEFAULT_REVENUE_ACCOUNT", "4-1000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.DefaultExpenseAccount = viper.GetString("DEFAULT_EXPENSE_ACCOUNT")
	cfg.DefaultCashAccount = viper.GetString("DEFAULT_CASH_ACCOUNT")
	cfg.DefaultRevenueAccount = viper.GetString("DEFAULT_REVENUE_ACCOUNT")

	return cfg, nil
}
