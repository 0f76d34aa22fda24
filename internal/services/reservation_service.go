package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/repos"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// transitions is the reservation lifecycle. Absent keys are terminal.
var transitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationPending:   {models.ReservationConfirmed, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationConfirmed: {models.ReservationCheckedIn, models.ReservationCancelled, models.ReservationNoShow},
	models.ReservationCheckedIn: {models.ReservationCheckedOut, models.ReservationNoShow},
}

func canTransition(from, to models.ReservationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ReservationService owns the reservation lifecycle. All multi-step
// writes run inside one transaction; external pushes happen after
// commit and are best-effort.
type ReservationService struct {
	DB     *gorm.DB
	Push   *OutboundPush
	Logger *log.Logger

	// Now is swappable in tests.
	Now func() time.Time
}

func NewReservationService(db *gorm.DB, push *OutboundPush, lg *log.Logger) *ReservationService {
	return &ReservationService{
		DB:     db,
		Push:   push,
		Logger: lg,
		Now:    time.Now,
	}
}

type DownPayment struct {
	Amount       int64  `validate:"min=1"`
	Method       string `validate:"required"`
	RegisteredBy string
}

type CreateReservationInput struct {
	EstablishmentID uint      `validate:"required"`
	RoomID          uint      `validate:"required"`
	GuestID         uint      `validate:"required"`
	CheckIn         time.Time `validate:"required"`
	CheckOut        time.Time `validate:"required"`
	NumGuests       int       `validate:"min=1"`
	TotalAmount     int64     `validate:"min=0"`
	Notes           string

	// DownPayment, when set, is recorded in the same transaction as
	// the reservation.
	DownPayment *DownPayment
}

// Create enters a reservation in PENDING. The overlap check and the
// insert share one transaction so two staff members cannot double-book
// a room in a race. The outbound push runs after commit; its failure
// leaves external_id null and never fails the create.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	checkIn := dateOnly(in.CheckIn)
	checkOut := dateOnly(in.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, validationErrorf("check-in %s must be before check-out %s",
			checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
	}
	if checkIn.Before(dateOnly(s.Now())) {
		return nil, validationErrorf("check-in %s is in the past", checkIn.Format("2006-01-02"))
	}
	if in.DownPayment != nil {
		if err := validate.Struct(in.DownPayment); err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
		if in.DownPayment.Amount > in.TotalAmount {
			return nil, ErrAmountExceedsBalance
		}
	}

	lg := s.Logger
	res := &models.Reservation{
		EstablishmentID: in.EstablishmentID,
		RoomID:          in.RoomID,
		GuestID:         in.GuestID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumGuests:       in.NumGuests,
		TotalAmount:     in.TotalAmount,
		Status:          models.ReservationPending,
		Source:          models.SourceManual,
		Notes:           in.Notes,
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	// lock the room row first: the overlap check and the insert must
	// serialize with concurrent creates for the same room
	if _, err := repos.NewRoomsRepo(tx, lg).GetForUpdate(in.RoomID); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("lock room %d: %w", in.RoomID, err)
	}

	rr := repos.NewReservationsRepo(tx, lg)
	overlaps, err := rr.CountOverlapping(in.RoomID, checkIn, checkOut, 0)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("overlap check room=%d: %w", in.RoomID, err)
	}
	if overlaps > 0 {
		_ = tx.Rollback()
		return nil, ErrRoomUnavailable
	}

	if err := rr.Create(res); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	if dp := in.DownPayment; dp != nil {
		pr := repos.NewPaymentsRepo(tx, lg)
		payment := &models.Payment{
			ReservationID: &res.ID,
			Amount:        dp.Amount,
			Method:        dp.Method,
			Status:        models.PaymentCompleted,
			PaidAt:        s.Now(),
			RegisteredBy:  dp.RegisteredBy,
		}
		if err := pr.Create(payment); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("record down payment: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.pushAfterCreate(ctx, res)
	return res, nil
}

// pushAfterCreate best-effort notifies the external system and records
// the returned external id. Any failure is logged and swallowed.
func (s *ReservationService) pushAfterCreate(ctx context.Context, res *models.Reservation) {
	lg := s.Logger
	if s.Push == nil || s.Push.Writer == nil {
		return
	}

	room, err := repos.NewRoomsRepo(s.DB, lg).GetByID(res.RoomID)
	if err != nil {
		lg.Printf("⚠️  push: load room %d: %v", res.RoomID, err)
		return
	}
	guest, err := repos.NewGuestsRepo(s.DB, lg).GetByID(res.GuestID)
	if err != nil {
		lg.Printf("⚠️  push: load guest %d: %v", res.GuestID, err)
		return
	}

	outcome := s.Push.PushReservation(ctx, res, room, guest)
	outcome.Log(lg, "push", res.ID)
	if outcome.Err != nil || !outcome.Attempted {
		return
	}

	now := s.Now()
	if err := repos.NewReservationsRepo(s.DB, lg).SetExternalRef(res.ID, outcome.ExternalID, now); err != nil {
		lg.Printf("⚠️  push: store external id for reservation %d: %v", res.ID, err)
		return
	}
	res.ExternalID = &outcome.ExternalID
	res.SyncedAt = &now
}

func (s *ReservationService) Confirm(id uint) error {
	return s.transition(id, models.ReservationConfirmed)
}

func (s *ReservationService) CheckIn(id uint) error {
	return s.transition(id, models.ReservationCheckedIn)
}

func (s *ReservationService) CheckOut(id uint) error {
	return s.transition(id, models.ReservationCheckedOut)
}

func (s *ReservationService) NoShow(id uint) error {
	return s.transition(id, models.ReservationNoShow)
}

func (s *ReservationService) transition(id uint, to models.ReservationStatus) error {
	rr := repos.NewReservationsRepo(s.DB, s.Logger)
	res, err := rr.GetByID(id)
	if err != nil {
		return err
	}
	if !canTransition(res.Status, to) {
		return validationErrorf("cannot move reservation %d from %s to %s", id, res.Status, to)
	}
	return rr.UpdateStatus(id, to, nil)
}

// Cancel marks the reservation CANCELLED. When an external counterpart
// exists it is cancelled first, best-effort: the local system is the
// source of truth for staff-initiated cancellations and an unreachable
// external API never blocks them.
func (s *ReservationService) Cancel(ctx context.Context, id uint) error {
	lg := s.Logger
	rr := repos.NewReservationsRepo(s.DB, lg)
	res, err := rr.GetByID(id)
	if err != nil {
		return err
	}
	if !canTransition(res.Status, models.ReservationCancelled) {
		return validationErrorf("cannot move reservation %d from %s to %s", id, res.Status, models.ReservationCancelled)
	}

	if res.ExternalID != nil {
		outcome := s.Push.CancelExternal(ctx, *res.ExternalID)
		outcome.Log(lg, "cancel", res.ID)
	}

	return rr.UpdateStatus(id, models.ReservationCancelled, nil)
}

// Delete hard-deletes a reservation and its ledger entries in one
// transaction. The external cancel stays outside the transaction and
// is best-effort.
func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	lg := s.Logger
	res, err := repos.NewReservationsRepo(s.DB, lg).GetByID(id)
	if err != nil {
		return err
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := repos.NewPaymentsRepo(tx, lg).DeleteByReservation(id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete payments for reservation %d: %w", id, err)
	}
	if err := repos.NewReservationsRepo(tx, lg).Delete(id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete reservation %d: %w", id, err)
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	if res.ExternalID != nil {
		outcome := s.Push.CancelExternal(ctx, *res.ExternalID)
		outcome.Log(lg, "delete", id)
	}
	return nil
}

type ExternalReservationInput struct {
	EstablishmentID uint
	RoomID          uint
	GuestID         uint
	CheckIn         time.Time
	CheckOut        time.Time
	NumGuests       int
	TotalAmount     int64
	Status          models.ReservationStatus
	ExternalID      string
	Notes           string
}

// CreateFromExternal is the reconciliation create path: keyed by
// external id, no past-date rule (the external system already accepted
// the booking), overlap still enforced. created=false without error
// means another run inserted the same booking first.
func (s *ReservationService) CreateFromExternal(in ExternalReservationInput) (res *models.Reservation, created bool, err error) {
	if in.ExternalID == "" {
		return nil, false, validationErrorf("external reservation requires an external id")
	}
	checkIn := dateOnly(in.CheckIn)
	checkOut := dateOnly(in.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, false, validationErrorf("check-in %s must be before check-out %s",
			checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
	}
	if in.NumGuests < 1 {
		in.NumGuests = 1
	}

	lg := s.Logger
	now := s.Now()
	res = &models.Reservation{
		EstablishmentID: in.EstablishmentID,
		RoomID:          in.RoomID,
		GuestID:         in.GuestID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumGuests:       in.NumGuests,
		TotalAmount:     in.TotalAmount,
		Status:          in.Status,
		Source:          models.SourceExternal,
		ExternalID:      &in.ExternalID,
		SyncedAt:        &now,
		Notes:           in.Notes,
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	rr := repos.NewReservationsRepo(tx, lg)

	if existing, err := rr.FindByExternalID(in.ExternalID); err != nil {
		_ = tx.Rollback()
		return nil, false, err
	} else if existing != nil {
		_ = tx.Rollback()
		return existing, false, nil
	}

	if res.Status.HoldsRoom() {
		if _, err := repos.NewRoomsRepo(tx, lg).GetForUpdate(in.RoomID); err != nil {
			_ = tx.Rollback()
			return nil, false, fmt.Errorf("lock room %d: %w", in.RoomID, err)
		}
		overlaps, err := rr.CountOverlapping(in.RoomID, checkIn, checkOut, 0)
		if err != nil {
			_ = tx.Rollback()
			return nil, false, fmt.Errorf("overlap check room=%d: %w", in.RoomID, err)
		}
		if overlaps > 0 {
			_ = tx.Rollback()
			return nil, false, ErrRoomUnavailable
		}
	}

	created, err = rr.CreateIdempotent(res)
	if err != nil {
		_ = tx.Rollback()
		return nil, false, fmt.Errorf("create external reservation %s: %w", in.ExternalID, err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, false, err
	}
	return res, created, nil
}
