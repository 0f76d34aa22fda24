package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newFileTestDB opens a file-backed database so that goroutines contend
// on real write transactions. Transactions start immediate and writers
// wait on the busy timeout instead of failing, which serializes the
// check-then-insert sequences the way row locks do on postgres.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=10000&_txlock=immediate", path)
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

func TestLedgerBoundUnderConcurrentPayments(t *testing.T) {
	gdb := newFileTestDB(t)
	lg := testLogger()
	rs := NewReservationService(gdb, nil, lg)
	ps := NewPaymentService(gdb, lg)
	room := seedRoom(t, gdb, "401", "")
	guest := seedGuest(t, gdb, "Ana Torres", "ana@example.com")
	res := seedReservation(t, rs, room.ID, guest.ID, 100000)

	// two payments of 60000 are each valid against a fresh balance but
	// jointly exceed the total; exactly one must be rejected
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 60000, Method: "card"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ErrAmountExceedsBalance)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected)

	balance, err := ps.ReservationBalance(res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), balance.Paid)
}

func TestConcurrentCreatesCannotDoubleBook(t *testing.T) {
	gdb := newFileTestDB(t)
	svc := NewReservationService(gdb, nil, testLogger())
	room := seedRoom(t, gdb, "402", "")
	guest := seedGuest(t, gdb, "Luis Prado", "luis@example.com")

	in := CreateReservationInput{
		EstablishmentID: 1, RoomID: room.ID, GuestID: guest.ID,
		CheckIn: futureDate(10), CheckOut: futureDate(14),
		NumGuests: 1, TotalAmount: 36000,
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), in)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ErrRoomUnavailable)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected)

	var holding int64
	require.NoError(t, gdb.Model(&models.Reservation{}).
		Where("room_id = ? AND status IN ?", room.ID, models.HoldingStatuses).
		Count(&holding).Error)
	assert.EqualValues(t, 1, holding)
}

func newMockedPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

// The payment write path must take the reservation row lock on
// databases that support it.
func TestPaymentWriteLocksReservationRow(t *testing.T) {
	gdb, mock := newMockedPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "reservations" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount"}).AddRow(1, 100000))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	ps := NewPaymentService(gdb, testLogger())
	_, err := ps.RecordReservationPayment(1, RecordPaymentInput{Amount: 40000, Method: "card"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Reservation creation must lock the room row before the overlap check.
func TestCreateLocksRoomRow(t *testing.T) {
	gdb, mock := newMockedPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rooms" (.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price_per_night"}).AddRow(1, 9000))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	svc := NewReservationService(gdb, nil, testLogger())
	_, err := svc.Create(context.Background(), CreateReservationInput{
		EstablishmentID: 1, RoomID: 1, GuestID: 1,
		CheckIn: futureDate(3), CheckOut: futureDate(5),
		NumGuests: 1, TotalAmount: 18000,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
