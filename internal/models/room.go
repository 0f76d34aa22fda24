package models

import "time"

// Room is a local room owned by an establishment. ExternalID is the
// accommodation-type identifier in the external booking system; it is
// assigned once at setup and is the join key for both sync directions.
type Room struct {
	ID              uint    `gorm:"primaryKey;column:id"`
	EstablishmentID uint    `gorm:"column:establishment_id;uniqueIndex:idx_rooms_number;uniqueIndex:idx_rooms_external"`
	RoomNumber      string  `gorm:"column:room_number;uniqueIndex:idx_rooms_number"`
	ExternalID      *string `gorm:"column:external_id;uniqueIndex:idx_rooms_external"`
	PricePerNight   int64   `gorm:"column:price_per_night"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Room) TableName() string { return "rooms" }
