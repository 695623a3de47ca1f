package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StoreDriver   string
	DatabaseURL   string
	EnableDBCheck bool
	MaxDBConns    int32
	MigrationsURL string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AdminUsername     string
	AdminPasswordHash string

	CORSAllowedOrigins []string
	PublicRateLimit    string

	SeedFile            string
	PromoExpirySchedule string
	ReconcileSchedule   string

	ClientIncomePocketID string
	Location             *time.Location
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORE_DRIVER", StoreDriverMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("PGSQL_MAX_CONNS", 10)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "studio-ops-app")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("PUBLIC_RATE_LIMIT", "30-M")
	viper.SetDefault("SEED_FILE", "seed/catalog.toml")
	viper.SetDefault("PROMO_EXPIRY_SCHEDULE", "5 0 * * *")
	viper.SetDefault("RECONCILE_SCHEDULE", "30 2 * * *")
	viper.SetDefault("CLIENT_INCOME_POCKET_ID", "POC005")
	viper.SetDefault("TIMEZONE", "Asia/Jakarta")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                 viper.GetString("PORT"),
		IsProduction:         viper.GetBool("IS_PRODUCTION"),
		StoreDriver:          strings.ToLower(viper.GetString("STORE_DRIVER")),
		DatabaseURL:          viper.GetString("PGSQL_URL"),
		EnableDBCheck:        viper.GetBool("ENABLE_DB_CHECK"),
		MaxDBConns:           viper.GetInt32("PGSQL_MAX_CONNS"),
		MigrationsURL:        viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		JWTIssuer:            viper.GetString("JWT_ISSUER"),
		AdminUsername:        viper.GetString("ADMIN_USERNAME"),
		AdminPasswordHash:    viper.GetString("ADMIN_PASSWORD_HASH"),
		PublicRateLimit:      viper.GetString("PUBLIC_RATE_LIMIT"),
		SeedFile:             viper.GetString("SEED_FILE"),
		PromoExpirySchedule:  viper.GetString("PROMO_EXPIRY_SCHEDULE"),
		ReconcileSchedule:    viper.GetString("RECONCILE_SCHEDULE"),
		ClientIncomePocketID: viper.GetString("CLIENT_INCOME_POCKET_ID"),
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_DRIVER=%s requires PGSQL_URL", StoreDriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q, expected %s or %s", cfg.StoreDriver, StoreDriverMemory, StoreDriverPostgres)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.AdminPasswordHash == "" {
		log.Println("Warning: ADMIN_PASSWORD_HASH not set. Admin login is disabled until a bcrypt hash is configured.")
	}

	if cfg.MaxDBConns <= 0 {
		cfg.MaxDBConns = 10
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	tz := viper.GetString("TIMEZONE")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: Unknown TIMEZONE ('%s'). Defaulting to UTC.\n", tz)
		cfg.Location = time.UTC
	}

	return cfg, nil
}
