package models

import "time"

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is an append-only ledger entry. Amounts are integer minor
// currency units and are never updated in place; corrections are new
// entries, refunds, or explicit deletions. Exactly one of
// ReservationID / PayableID is set.
type Payment struct {
	ID            uint          `gorm:"primaryKey;column:id"`
	ReservationID *uint         `gorm:"column:reservation_id;index"`
	PayableID     *uint         `gorm:"column:payable_id;index"`
	Amount        int64         `gorm:"column:amount"`
	Method        string        `gorm:"column:method"`
	Status        PaymentStatus `gorm:"column:status;default:'completed'"`
	PaidAt        time.Time     `gorm:"column:paid_at"`
	RegisteredBy  string        `gorm:"column:registered_by"`
	ReceiptURL    string        `gorm:"column:receipt_url"`
	ReceiptHash   string        `gorm:"column:receipt_hash"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Payment) TableName() string { return "payments" }
