package models

import "time"

const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncLogEntry records the outcome of one reconciliation run. Rows are
// append-only and never mutated; they are the audit trail for
// diagnosing repeated failures or silent skips.
type SyncLogEntry struct {
	ID                  uint   `gorm:"primaryKey;column:id"`
	RunID               string `gorm:"column:run_id;uniqueIndex"`
	Source              string `gorm:"column:source"`
	Status              string `gorm:"column:status"`
	Message             string `gorm:"column:message"`
	ReservationsFound   int    `gorm:"column:reservations_found"`
	ReservationsCreated int    `gorm:"column:reservations_created"`
	ReservationsSkipped int    `gorm:"column:reservations_skipped"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SyncLogEntry) TableName() string { return "sync_log_entries" }
