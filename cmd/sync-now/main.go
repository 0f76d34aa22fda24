package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/config"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/db"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/motopress"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/services"
)

// sync-now triggers a single reconciliation run and exits, the
// "sync now" action behind a staff button or an external scheduler.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := cfg.Logger

	if !cfg.MotoPressConfigured() {
		logger.Fatalf("❌ MotoPress API is not configured; cannot reconcile")
	}

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("DB connection failed: %v", err)
	}
	defer db.Close(gdb)

	if err := db.HealthCheck(gdb, 3*time.Second); err != nil {
		logger.Fatalf("DB health check failed: %v", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(gdb); err != nil {
			logger.Fatalf("Database migration failed: %v", err)
		}
	}

	client := motopress.New(cfg.MotoPressBaseURL, cfg.MotoPressKey, cfg.MotoPressSecret)
	push := services.NewOutboundPush(client, logger)
	reservations := services.NewReservationService(gdb, push, logger)
	reconciler := services.NewReconcileService(gdb, client, reservations, cfg.EstablishmentID, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := reconciler.Run(ctx)
	if err != nil {
		logger.Fatalf("❌ Reconciliation failed: %v (found=%d created=%d skipped=%d)",
			err, stats.ReservationsFound, stats.ReservationsCreated, stats.ReservationsSkipped)
	}
	logger.Printf("Done: found=%d created=%d skipped=%d",
		stats.ReservationsFound, stats.ReservationsCreated, stats.ReservationsSkipped)
}
