package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hotel_test")
	t.Setenv("MOTOPRESS_BASE_URL", "")
	t.Setenv("MOTOPRESS_KEY", "")
	t.Setenv("MOTOPRESS_SECRET", "")
	t.Setenv("ESTABLISHMENT_ID", "")
	t.Setenv("SYNC_INTERVAL", "")
	t.Setenv("AUTO_MIGRATE", "")

	cfg := Load()
	assert.Equal(t, "postgres://localhost/hotel_test", cfg.DatabaseURL)
	assert.EqualValues(t, 1, cfg.EstablishmentID)
	assert.Equal(t, 15*time.Minute, cfg.SyncInterval)
	assert.False(t, cfg.AutoMigrate)
	assert.False(t, cfg.MotoPressConfigured())
}

func TestLoadFullEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hotel_test")
	t.Setenv("MOTOPRESS_BASE_URL", "https://hotel.example.com/wp-json/mphb/v1")
	t.Setenv("MOTOPRESS_KEY", "ck_live")
	t.Setenv("MOTOPRESS_SECRET", "cs_live")
	t.Setenv("ESTABLISHMENT_ID", "3")
	t.Setenv("SYNC_INTERVAL", "5m")
	t.Setenv("AUTO_MIGRATE", "1")

	cfg := Load()
	assert.True(t, cfg.MotoPressConfigured())
	assert.EqualValues(t, 3, cfg.EstablishmentID)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.True(t, cfg.AutoMigrate)
}

func TestMotoPressConfiguredNeedsAllThree(t *testing.T) {
	cfg := &Config{MotoPressBaseURL: "https://x", MotoPressKey: "k"}
	assert.False(t, cfg.MotoPressConfigured())

	cfg.MotoPressSecret = "  "
	assert.False(t, cfg.MotoPressConfigured())

	cfg.MotoPressSecret = "s"
	assert.True(t, cfg.MotoPressConfigured())
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hotel_test")
	t.Setenv("SYNC_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.SyncInterval)
}

func TestInvalidEstablishmentIDFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hotel_test")
	t.Setenv("ESTABLISHMENT_ID", "-4")

	cfg := Load()
	assert.EqualValues(t, 1, cfg.EstablishmentID)
}
