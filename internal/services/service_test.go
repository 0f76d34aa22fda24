package services

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one shared in-memory database per test name
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.Room{},
		&models.Guest{},
		&models.Reservation{},
		&models.Payment{},
		&models.Payable{},
		&models.SyncLogEntry{},
	))
	return gdb
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func seedRoom(t *testing.T, gdb *gorm.DB, number string, externalID string) *models.Room {
	t.Helper()
	room := &models.Room{
		EstablishmentID: 1,
		RoomNumber:      number,
		PricePerNight:   9000,
	}
	if externalID != "" {
		room.ExternalID = &externalID
	}
	require.NoError(t, gdb.Create(room).Error)
	return room
}

func seedGuest(t *testing.T, gdb *gorm.DB, name, email string) *models.Guest {
	t.Helper()
	guest := &models.Guest{FullName: name, Email: email, Phone: "+34 600 000 000"}
	require.NoError(t, gdb.Create(guest).Error)
	return guest
}

func futureDate(days int) time.Time {
	return dateOnly(time.Now().UTC().AddDate(0, 0, days))
}
