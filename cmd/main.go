package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/config"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/db"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/motopress"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := cfg.Logger

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("DB connection failed: %v", err)
	}
	defer db.Close(gdb)

	if err := db.HealthCheck(gdb, 3*time.Second); err != nil {
		logger.Fatalf("DB health check failed: %v", err)
	}
	logger.Println("✅ Database connection healthy.")

	if cfg.AutoMigrate {
		logger.Println("Running schema migration...")
		if err := db.AutoMigrate(gdb); err != nil {
			logger.Fatalf("Database migration failed: %v", err)
		}
		logger.Println("✅ Database migrated successfully.")
	}

	if !cfg.MotoPressConfigured() {
		logger.Fatalf("❌ MotoPress API is not configured; the sync daemon has nothing to do")
	}

	client := motopress.New(cfg.MotoPressBaseURL, cfg.MotoPressKey, cfg.MotoPressSecret)
	push := services.NewOutboundPush(client, logger)
	reservations := services.NewReservationService(gdb, push, logger)
	reconciler := services.NewReconcileService(gdb, client, reservations, cfg.EstablishmentID, logger)

	runOnce := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if stats, err := reconciler.Run(ctx); err != nil {
			logger.Printf("❌ Reconciliation failed: %v (found=%d created=%d skipped=%d)",
				err, stats.ReservationsFound, stats.ReservationsCreated, stats.ReservationsSkipped)
		}
	}

	logger.Println("✅ Startup complete. Running initial reconciliation...")
	runOnce()

	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatalf("Error initializing scheduler: %v", err)
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.SyncInterval),
		gocron.NewTask(runOnce),
	); err != nil {
		logger.Fatalf("Error scheduling reconciliation job: %v", err)
	}
	sched.Start()
	logger.Printf("⏰ Reconciliation scheduled every %s", cfg.SyncInterval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Println("Shutting down...")
	if err := sched.Shutdown(); err != nil {
		logger.Printf("⚠️  Scheduler shutdown: %v", err)
	}
}
