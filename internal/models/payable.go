package models

import "time"

type PayableDirection string

const (
	DirectionPayable    PayableDirection = "payable"    // money the establishment owes
	DirectionReceivable PayableDirection = "receivable" // money owed to the establishment
)

// Payable is a third-party debt or credit settled through the same
// payment ledger as reservations: completed payments accumulate
// against TotalAmount under the identical balance invariant.
type Payable struct {
	ID              uint             `gorm:"primaryKey;column:id"`
	EstablishmentID uint             `gorm:"column:establishment_id;index"`
	Direction       PayableDirection `gorm:"column:direction"`
	Counterparty    string           `gorm:"column:counterparty"`
	Concept         string           `gorm:"column:concept"`
	TotalAmount     int64            `gorm:"column:total_amount"`
	DueDate         *time.Time       `gorm:"column:due_date"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Payable) TableName() string { return "payables" }
