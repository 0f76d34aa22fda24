package models

import "time"

// Guest is created by staff or by the reconciliation job when an
// external booking references an unknown email. Email is the natural
// dedup key; guests without one are never deduplicated.
type Guest struct {
	ID       uint   `gorm:"primaryKey;column:id"`
	FullName string `gorm:"column:full_name"`
	Email    string `gorm:"column:email;index"`
	Phone    string `gorm:"column:phone"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Guest) TableName() string { return "guests" }
