package services

import (
	"context"
	"errors"
	"testing"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/repos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReservation(t *testing.T, svc *ReservationService, roomID, guestID uint, total int64) *models.Reservation {
	t.Helper()
	res, err := svc.Create(context.Background(), CreateReservationInput{
		EstablishmentID: 1,
		RoomID:          roomID,
		GuestID:         guestID,
		CheckIn:         futureDate(7),
		CheckOut:        futureDate(10),
		NumGuests:       2,
		TotalAmount:     total,
	})
	require.NoError(t, err)
	return res
}

func TestLedgerBound(t *testing.T) {
	gdb := newTestDB(t)
	lg := testLogger()
	rs := NewReservationService(gdb, nil, lg)
	ps := NewPaymentService(gdb, lg)
	room := seedRoom(t, gdb, "101", "")
	guest := seedGuest(t, gdb, "Ana Torres", "ana@example.com")
	res := seedReservation(t, rs, room.ID, guest.ID, 100000)

	_, err := ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 40000, Method: "cash"})
	require.NoError(t, err)
	_, err = ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 60000, Method: "card"})
	require.NoError(t, err)

	balance, err := ps.ReservationBalance(res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance.Paid)
	assert.Equal(t, int64(0), balance.Pending)
	assert.Equal(t, SettlementComplete, balance.Settlement())

	// the ledger is full: even one more unit must be rejected
	_, err = ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 1, Method: "cash"})
	assert.ErrorIs(t, err, ErrAmountExceedsBalance)

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	// rejected payment left the ledger unchanged
	var count int64
	require.NoError(t, gdb.Model(&models.Payment{}).Where("reservation_id = ?", res.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRecordPaymentValidation(t *testing.T) {
	gdb := newTestDB(t)
	lg := testLogger()
	rs := NewReservationService(gdb, nil, lg)
	ps := NewPaymentService(gdb, lg)
	room := seedRoom(t, gdb, "101", "")
	guest := seedGuest(t, gdb, "Ana Torres", "ana@example.com")
	res := seedReservation(t, rs, room.ID, guest.ID, 50000)

	var verr *ValidationError

	_, err := ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 0, Method: "cash"})
	assert.ErrorAs(t, err, &verr)

	_, err = ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: -5, Method: "cash"})
	assert.ErrorAs(t, err, &verr)

	_, err = ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 100, Method: ""})
	assert.ErrorAs(t, err, &verr)
}

func TestRefundRestoresPending(t *testing.T) {
	gdb := newTestDB(t)
	lg := testLogger()
	rs := NewReservationService(gdb, nil, lg)
	ps := NewPaymentService(gdb, lg)
	room := seedRoom(t, gdb, "102", "")
	guest := seedGuest(t, gdb, "Luis Prado", "luis@example.com")
	res := seedReservation(t, rs, room.ID, guest.ID, 80000)

	p, err := ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 80000, Method: "card"})
	require.NoError(t, err)

	_, err = ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 1, Method: "cash"})
	require.ErrorIs(t, err, ErrAmountExceedsBalance)

	require.NoError(t, ps.RefundPayment(p.ID))

	balance, err := ps.ReservationBalance(res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Paid)
	assert.Equal(t, SettlementPending, balance.Settlement())

	// refunded capacity is usable again
	_, err = ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 30000, Method: "cash"})
	require.NoError(t, err)

	// double refund is rejected
	err = ps.RefundPayment(p.ID)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeletePayment(t *testing.T) {
	gdb := newTestDB(t)
	lg := testLogger()
	rs := NewReservationService(gdb, nil, lg)
	ps := NewPaymentService(gdb, lg)
	room := seedRoom(t, gdb, "103", "")
	guest := seedGuest(t, gdb, "Eva Ruiz", "eva@example.com")
	res := seedReservation(t, rs, room.ID, guest.ID, 60000)

	p, err := ps.RecordReservationPayment(res.ID, RecordPaymentInput{Amount: 25000, Method: "cash"})
	require.NoError(t, err)
	require.NoError(t, ps.DeletePayment(p.ID))

	balance, err := ps.ReservationBalance(res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Paid)
	assert.Equal(t, int64(60000), balance.Pending)
}

func TestPayableLedgerSameInvariant(t *testing.T) {
	gdb := newTestDB(t)
	lg := testLogger()
	ps := NewPaymentService(gdb, lg)

	payable := &models.Payable{
		EstablishmentID: 1,
		Direction:       models.DirectionPayable,
		Counterparty:    "Lavandería Sol",
		Concept:         "linen service, August",
		TotalAmount:     45000,
	}
	require.NoError(t, repos.NewPayablesRepo(gdb, lg).Create(payable))

	_, err := ps.RecordPayablePayment(payable.ID, RecordPaymentInput{Amount: 45000, Method: "transfer"})
	require.NoError(t, err)

	_, err = ps.RecordPayablePayment(payable.ID, RecordPaymentInput{Amount: 1, Method: "transfer"})
	assert.ErrorIs(t, err, ErrAmountExceedsBalance)
}

func TestComputeBalance(t *testing.T) {
	payments := []models.Payment{
		{Amount: 10000, Status: models.PaymentCompleted},
		{Amount: 5000, Status: models.PaymentRefunded},
		{Amount: 20000, Status: models.PaymentCompleted},
	}
	b := ComputeBalance(100000, payments)
	assert.Equal(t, int64(30000), b.Paid)
	assert.Equal(t, int64(70000), b.Pending)
	assert.Equal(t, SettlementPartial, b.Settlement())

	assert.Equal(t, SettlementPending, ComputeBalance(100, nil).Settlement())
}

func TestPaymentForMissingReservation(t *testing.T) {
	gdb := newTestDB(t)
	ps := NewPaymentService(gdb, testLogger())

	_, err := ps.RecordReservationPayment(9999, RecordPaymentInput{Amount: 100, Method: "cash"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrAmountExceedsBalance))
}
