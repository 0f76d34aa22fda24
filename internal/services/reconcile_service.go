package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/repos"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExternalBooking is one booking as reported by the external system,
// already normalized (dates parsed, amounts in minor units).
type ExternalBooking struct {
	ID                  string
	Status              string
	CheckIn             time.Time
	CheckOut            time.Time
	TotalAmount         int64
	GuestName           string
	GuestEmail          string
	GuestPhone          string
	AccommodationTypeID string
	Adults              int
	Children            int
	Note                string
}

// BookingSource is the inbound side of the external booking API.
type BookingSource interface {
	FetchBookings(ctx context.Context) ([]ExternalBooking, error)
}

type ReconcileStats struct {
	ReservationsFound   int
	ReservationsCreated int
	ReservationsSkipped int
}

// externalStatusMap translates external booking statuses into the
// local lifecycle. Unknown values degrade to pending rather than
// aborting the run.
var externalStatusMap = map[string]models.ReservationStatus{
	"confirmed":       models.ReservationConfirmed,
	"pending":         models.ReservationPending,
	"pending-user":    models.ReservationPending,
	"pending-payment": models.ReservationPending,
	"cancelled":       models.ReservationCancelled,
	"abandoned":       models.ReservationCancelled,
}

func mapExternalStatus(s string) models.ReservationStatus {
	if mapped, ok := externalStatusMap[s]; ok {
		return mapped
	}
	return models.ReservationPending
}

// ReconcileService pulls the external booking list and updates local
// state to match, without duplicating or losing reservations. Each
// run writes exactly one SyncLogEntry, success or failure.
type ReconcileService struct {
	DB              *gorm.DB
	Source          BookingSource
	Reservations    *ReservationService
	EstablishmentID uint
	Logger          *log.Logger

	Now func() time.Time
}

func NewReconcileService(db *gorm.DB, source BookingSource, rs *ReservationService, establishmentID uint, lg *log.Logger) *ReconcileService {
	return &ReconcileService{
		DB:              db,
		Source:          source,
		Reservations:    rs,
		EstablishmentID: establishmentID,
		Logger:          lg,
		Now:             time.Now,
	}
}

// Run executes one reconciliation pass. Running it twice against the
// same external data creates nothing on the second pass: external_id
// is the idempotency key. Errors abort the run but still leave an
// audit row with the counters gathered so far.
func (s *ReconcileService) Run(ctx context.Context) (ReconcileStats, error) {
	lg := s.Logger
	var stats ReconcileStats

	lg.Printf("▶️  Starting booking reconciliation...")

	bookings, err := s.Source.FetchBookings(ctx)
	if err != nil {
		fetchErr := fmt.Errorf("fetch external bookings: %w", err)
		s.record(stats, models.SyncStatusError, fetchErr.Error())
		return stats, fetchErr
	}
	stats.ReservationsFound = len(bookings)

	for _, booking := range bookings {
		select {
		case <-ctx.Done():
			s.record(stats, models.SyncStatusError, ctx.Err().Error())
			return stats, ctx.Err()
		default:
		}

		if err := s.reconcileOne(booking, &stats); err != nil {
			runErr := fmt.Errorf("reconcile booking %s: %w", booking.ID, err)
			s.record(stats, models.SyncStatusError, runErr.Error())
			return stats, runErr
		}
	}

	s.record(stats, models.SyncStatusSuccess, "")
	lg.Printf("✅ Reconciliation complete: found=%d created=%d skipped=%d",
		stats.ReservationsFound, stats.ReservationsCreated, stats.ReservationsSkipped)
	return stats, nil
}

func (s *ReconcileService) reconcileOne(booking ExternalBooking, stats *ReconcileStats) error {
	lg := s.Logger
	rr := repos.NewReservationsRepo(s.DB, lg)

	existing, err := rr.FindByExternalID(booking.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.reconcileDrift(rr, existing, booking)
	}

	room, err := repos.NewRoomsRepo(s.DB, lg).ResolveByExternalID(s.EstablishmentID, booking.AccommodationTypeID)
	if err != nil {
		return err
	}
	if room == nil {
		// No mapped room: count it so operators can see the booking
		// needs manual mapping instead of it vanishing silently.
		stats.ReservationsSkipped++
		lg.Printf("⏭  booking %s: no room mapped for accommodation type %q, skipping",
			booking.ID, booking.AccommodationTypeID)
		return nil
	}

	guest, err := repos.NewGuestsRepo(s.DB, lg).FindOrCreateByEmail(booking.GuestName, booking.GuestEmail, booking.GuestPhone)
	if err != nil {
		return err
	}

	numGuests := booking.Adults + booking.Children
	if numGuests < 1 {
		numGuests = 1
	}

	_, created, err := s.Reservations.CreateFromExternal(ExternalReservationInput{
		EstablishmentID: s.EstablishmentID,
		RoomID:          room.ID,
		GuestID:         guest.ID,
		CheckIn:         booking.CheckIn,
		CheckOut:        booking.CheckOut,
		NumGuests:       numGuests,
		TotalAmount:     booking.TotalAmount,
		Status:          mapExternalStatus(booking.Status),
		ExternalID:      booking.ID,
		Notes:           booking.Note,
	})
	if errors.Is(err, ErrRoomUnavailable) {
		// The room is held locally for those dates. Skip rather than
		// abort: the rest of the list still deserves reconciling.
		stats.ReservationsSkipped++
		lg.Printf("⏭  booking %s: room %d already held for %s..%s, skipping",
			booking.ID, room.ID,
			booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"))
		return nil
	}
	if err != nil {
		return err
	}
	if created {
		stats.ReservationsCreated++
		lg.Printf("➕ booking %s: created local reservation (room %d, guest %d)", booking.ID, room.ID, guest.ID)
	}
	return nil
}

// reconcileDrift updates only status and synced_at on an existing
// reservation; every other field belongs to staff. Progress recorded
// locally (checked in/out, no-show) is never regressed by a stale
// external status.
func (s *ReconcileService) reconcileDrift(rr *repos.ReservationsRepo, existing *models.Reservation, booking ExternalBooking) error {
	mapped := mapExternalStatus(booking.Status)
	if mapped == existing.Status {
		return nil
	}
	switch existing.Status {
	case models.ReservationPending, models.ReservationConfirmed:
		// pre-arrival: external status wins
	default:
		// checked in/out, no-show, cancelled: local progress wins
		return nil
	}

	now := s.Now()
	if err := rr.UpdateStatus(existing.ID, mapped, &now); err != nil {
		return err
	}
	s.Logger.Printf("🔄 booking %s: status %s → %s", booking.ID, existing.Status, mapped)
	return nil
}

// record appends the run's audit row. A failure to write the audit log
// is logged but never masks the run's own outcome.
func (s *ReconcileService) record(stats ReconcileStats, status, message string) {
	entry := &models.SyncLogEntry{
		RunID:               uuid.New().String(),
		Source:              "motopress",
		Status:              status,
		Message:             message,
		ReservationsFound:   stats.ReservationsFound,
		ReservationsCreated: stats.ReservationsCreated,
		ReservationsSkipped: stats.ReservationsSkipped,
	}
	if err := repos.NewSyncLogRepo(s.DB, s.Logger).Append(entry); err != nil {
		s.Logger.Printf("⚠️  failed to write sync log entry: %v", err)
	}
}
