package services

import (
	"context"
	"log"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
)

// BookingRequest is the payload for creating a booking in the external
// system.
type BookingRequest struct {
	AccommodationExternalID string
	CheckIn                 time.Time
	CheckOut                time.Time
	Adults                  int
	Children                int
	GuestName               string
	GuestEmail              string
	GuestPhone              string
	Note                    string
}

// BookingWriter is the outbound side of the external booking API.
type BookingWriter interface {
	CreateBooking(ctx context.Context, req BookingRequest) (externalID string, err error)
	CancelBooking(ctx context.Context, externalID string) error
}

// PushOutcome is the result of a best-effort external call. Failure is
// carried in Err and must be acknowledged (logged) by the caller; it is
// never propagated as a failure of the local operation that triggered
// the push.
type PushOutcome struct {
	Attempted  bool
	ExternalID string
	Err        error
}

func (o PushOutcome) Log(lg *log.Logger, op string, reservationID uint) {
	switch {
	case o.Err != nil:
		lg.Printf("⚠️  %s: external call failed for reservation %d: %v", op, reservationID, o.Err)
	case !o.Attempted:
		lg.Printf("⏭  %s: skipped for reservation %d (push preconditions not met)", op, reservationID)
	default:
		lg.Printf("✅ %s: reservation %d synced (external id %s)", op, reservationID, o.ExternalID)
	}
}

// OutboundPush translates local reservation changes into external
// booking API calls. Every method is best-effort: local state never
// blocks on, or rolls back because of, external reachability.
type OutboundPush struct {
	Writer BookingWriter
	Logger *log.Logger
}

func NewOutboundPush(writer BookingWriter, lg *log.Logger) *OutboundPush {
	return &OutboundPush{Writer: writer, Logger: lg}
}

// PushReservation creates the booking externally. Preconditions: the
// room must carry an external accommodation id and the guest must have
// an email (the external system requires one). When either is missing
// the push is skipped without error.
func (p *OutboundPush) PushReservation(ctx context.Context, res *models.Reservation, room *models.Room, guest *models.Guest) PushOutcome {
	if p == nil || p.Writer == nil {
		return PushOutcome{}
	}
	if room == nil || room.ExternalID == nil || *room.ExternalID == "" {
		return PushOutcome{}
	}
	if guest == nil || guest.Email == "" {
		return PushOutcome{}
	}

	req := BookingRequest{
		AccommodationExternalID: *room.ExternalID,
		CheckIn:                 res.CheckIn,
		CheckOut:                res.CheckOut,
		Adults:                  res.NumGuests,
		GuestName:               guest.FullName,
		GuestEmail:              guest.Email,
		GuestPhone:              guest.Phone,
		Note:                    res.Notes,
	}

	externalID, err := p.Writer.CreateBooking(ctx, req)
	if err != nil {
		return PushOutcome{Attempted: true, Err: err}
	}
	return PushOutcome{Attempted: true, ExternalID: externalID}
}

// CancelExternal cancels the external counterpart of a reservation.
func (p *OutboundPush) CancelExternal(ctx context.Context, externalID string) PushOutcome {
	if p == nil || p.Writer == nil || externalID == "" {
		return PushOutcome{}
	}
	if err := p.Writer.CancelBooking(ctx, externalID); err != nil {
		return PushOutcome{Attempted: true, Err: err}
	}
	return PushOutcome{Attempted: true, ExternalID: externalID}
}
