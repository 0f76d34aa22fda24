package db

import (
	"context"
	"fmt"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to postgres. The handle is constructed here and passed
// down explicitly; connection lifecycle belongs to the entry point.
func Open(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql db: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb, nil
}

func Close(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

func HealthCheck(gdb *gorm.DB, timeout time.Duration) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates/updates the schema, including the unique index
// on reservations.external_id that backs idempotent reconciliation and,
// on postgres, the exclusion constraint that is the last resort against
// double-booking a room if the application-level overlap check races.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.Room{},
		&models.Guest{},
		&models.Reservation{},
		&models.Payment{},
		&models.Payable{},
		&models.SyncLogEntry{},
	); err != nil {
		return err
	}
	if gdb.Dialector.Name() == "postgres" {
		return createOverlapConstraint(gdb)
	}
	return nil
}

// Half-open intervals: tstzrange defaults to [) bounds, so back-to-back
// stays allow the same boundary day. Only holding statuses occupy the
// interval.
const overlapConstraint = `
DO $$
BEGIN
	ALTER TABLE reservations
		ADD CONSTRAINT reservations_room_interval_excl
		EXCLUDE USING gist (
			room_id WITH =,
			tstzrange(check_in, check_out) WITH &&
		) WHERE (status IN ('pending', 'confirmed', 'checked_in'));
EXCEPTION
	WHEN duplicate_object THEN NULL;
	WHEN duplicate_table THEN NULL;
END
$$`

func createOverlapConstraint(gdb *gorm.DB) error {
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist extension: %w", err)
	}
	if err := gdb.Exec(overlapConstraint).Error; err != nil {
		return fmt.Errorf("create room overlap constraint: %w", err)
	}
	return nil
}
