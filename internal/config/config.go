package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoreSQL   = "sql"
	StoreRedis = "redis"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	Port          string
	LogLevel      string
	SessionSecret string

	StoreBackend string
	DBDriver     string
	DBPath       string
	DatabaseURL  string

	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	CatalogPath       string
	ApprovalThreshold decimal.Decimal
	QuoteValidityDays int
}

// IsDev reports whether the app runs in development, where migrations and
// seeding happen on startup.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// Load reads .env from the working directory, then the environment.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom reads envFile (if present) and the environment. Variables already
// set in the environment win over the file.
func LoadFrom(envFile string) Config {
	// Best-effort: a missing file is fine, production injects real env.
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("STORE_BACKEND", StoreSQL)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "./dev.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("APPROVAL_THRESHOLD", "10000")
	v.SetDefault("QUOTE_VALIDITY_DAYS", 30)
	v.AutomaticEnv()

	cfg := Config{
		Env:               v.GetString("APP_ENV"),
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		StoreBackend:      strings.ToLower(v.GetString("STORE_BACKEND")),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBPath:            v.GetString("DB_PATH"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisURL:          v.GetString("REDIS_URL"),
		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetString("REDIS_PORT"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		CatalogPath:       v.GetString("CATALOG_PATH"),
		QuoteValidityDays: v.GetInt("QUOTE_VALIDITY_DAYS"),
	}

	threshold, err := decimal.NewFromString(v.GetString("APPROVAL_THRESHOLD"))
	if err != nil || threshold.IsNegative() {
		log.Warn().Str("value", v.GetString("APPROVAL_THRESHOLD")).Msg("invalid APPROVAL_THRESHOLD, using 10000")
		threshold = decimal.NewFromInt(10000)
	}
	cfg.ApprovalThreshold = threshold

	if cfg.QuoteValidityDays <= 0 {
		log.Warn().Int("value", cfg.QuoteValidityDays).Msg("invalid QUOTE_VALIDITY_DAYS, using 30")
		cfg.QuoteValidityDays = 30
	}
	if cfg.StoreBackend != StoreSQL && cfg.StoreBackend != StoreRedis {
		log.Warn().Str("value", cfg.StoreBackend).Msg("unknown STORE_BACKEND, using sql")
		cfg.StoreBackend = StoreSQL
	}
	if cfg.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is not set")
	}

	return cfg
}
