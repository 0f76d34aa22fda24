package repos

import (
	"log"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"gorm.io/gorm"
)

type SyncLogRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewSyncLogRepo(db *gorm.DB, lg *log.Logger) *SyncLogRepo {
	return &SyncLogRepo{db: db, lg: lg}
}

// Append writes one audit row per reconciliation run. Entries are
// never updated afterwards.
func (r *SyncLogRepo) Append(entry *models.SyncLogEntry) error {
	return r.db.Create(entry).Error
}

func (r *SyncLogRepo) Recent(n int) ([]models.SyncLogEntry, error) {
	if n <= 0 {
		n = 20
	}
	var entries []models.SyncLogEntry
	err := r.db.
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&entries).
		Error
	return entries, err
}
