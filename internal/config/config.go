package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/util"
)

// Config centralises all environment and runtime configuration.
type Config struct {
	Logger      *log.Logger
	DatabaseURL string

	// MotoPress booking API. Optional at load time: the absence of
	// credentials only fails calls that actually reach the external
	// system, never purely-local operations.
	MotoPressBaseURL string
	MotoPressKey     string
	MotoPressSecret  string

	EstablishmentID uint
	SyncInterval    time.Duration

	AutoMigrate bool
}

// Load builds the Config struct, validating critical env vars.
func Load() *Config {
	logger := util.NewLogger()
	logger.Println("Loading environment configuration...")

	cfg := &Config{
		Logger:           logger,
		DatabaseURL:      getEnvOrFail(logger, "DATABASE_URL"),
		MotoPressBaseURL: os.Getenv("MOTOPRESS_BASE_URL"),
		MotoPressKey:     os.Getenv("MOTOPRESS_KEY"),
		MotoPressSecret:  os.Getenv("MOTOPRESS_SECRET"),
		EstablishmentID:  uint(getIntEnv("ESTABLISHMENT_ID", 1)),
		SyncInterval:     getDurationEnv(logger, "SYNC_INTERVAL", 15*time.Minute),
		AutoMigrate:      os.Getenv("AUTO_MIGRATE") == "1",
	}

	if cfg.MotoPressConfigured() {
		logger.Printf("✅ MotoPress API configured (%s)", cfg.MotoPressBaseURL)
	} else {
		logger.Println("⚠️  MotoPress API not configured; outbound push and reconciliation are disabled")
	}
	return cfg
}

// MotoPressConfigured reports whether external sync can run at all.
func (c *Config) MotoPressConfigured() bool {
	return strings.TrimSpace(c.MotoPressBaseURL) != "" &&
		strings.TrimSpace(c.MotoPressKey) != "" &&
		strings.TrimSpace(c.MotoPressSecret) != ""
}

func getEnvOrFail(logger *log.Logger, key string) string {
	val := os.Getenv(key)
	if val == "" {
		logger.Fatalf("❌ Environment variable %s is required but not set", key)
	}
	return val
}

func getIntEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDurationEnv(logger *log.Logger, key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Printf("⚠️  Invalid %s=%q, using default %s", key, raw, def)
		return def
	}
	return d
}
