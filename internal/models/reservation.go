package models

import "time"

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

// HoldsRoom reports whether a reservation in this status occupies its
// [check_in, check_out) interval for double-booking purposes.
func (s ReservationStatus) HoldsRoom() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCancelled, ReservationCheckedOut, ReservationNoShow:
		return true
	}
	return false
}

// HoldingStatuses is the set used in overlap queries.
var HoldingStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
	ReservationCheckedIn,
}

type ReservationSource string

const (
	SourceManual   ReservationSource = "manual"
	SourceExternal ReservationSource = "external"
)

// Reservation holds a room for a guest over a half-open date interval
// [CheckIn, CheckOut). ExternalID is globally unique when present and
// is the idempotency key for inbound reconciliation.
type Reservation struct {
	ID              uint              `gorm:"primaryKey;column:id"`
	EstablishmentID uint              `gorm:"column:establishment_id;index"`
	RoomID          uint              `gorm:"column:room_id;index"`
	GuestID         uint              `gorm:"column:guest_id;index"`
	CheckIn         time.Time         `gorm:"column:check_in"`
	CheckOut        time.Time         `gorm:"column:check_out"`
	NumGuests       int               `gorm:"column:num_guests"`
	TotalAmount     int64             `gorm:"column:total_amount"`
	Status          ReservationStatus `gorm:"column:status;index;default:'pending'"`
	Source          ReservationSource `gorm:"column:source;default:'manual'"`
	ExternalID      *string           `gorm:"column:external_id;uniqueIndex"`
	SyncedAt        *time.Time        `gorm:"column:synced_at"`
	Notes           string            `gorm:"column:notes"`

	Room  *Room  `gorm:"foreignKey:RoomID"`
	Guest *Guest `gorm:"foreignKey:GuestID"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Reservation) TableName() string { return "reservations" }
