package repos

import (
	"errors"
	"log"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationsRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewReservationsRepo(db *gorm.DB, lg *log.Logger) *ReservationsRepo {
	return &ReservationsRepo{db: db, lg: lg}
}

func (r *ReservationsRepo) GetByID(id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.Preload("Room").Preload("Guest").First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// GetForUpdate loads the reservation under a row lock, so concurrent
// writers validating against its balance serialize for the rest of the
// transaction. Databases without row locks fall back to their own
// write serialization.
func (r *ReservationsRepo) GetForUpdate(id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// FindByExternalID looks up the local counterpart of an external
// booking. external_id is the reconciliation idempotency key; a miss
// returns (nil, nil).
func (r *ReservationsRepo) FindByExternalID(externalID string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.Where("external_id = ?", externalID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CountOverlapping counts reservations that hold the room over any part
// of the half-open interval [checkIn, checkOut). Cancelled and no-show
// rows do not occupy the interval.
func (r *ReservationsRepo) CountOverlapping(roomID uint, checkIn, checkOut time.Time, excludeID uint) (int64, error) {
	var count int64
	q := r.db.
		Model(&models.Reservation{}).
		Where("room_id = ? AND status IN ?", roomID, models.HoldingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReservationsRepo) Create(res *models.Reservation) error {
	return r.db.Create(res).Error
}

// CreateIdempotent inserts a reservation keyed by external_id,
// silently doing nothing when a row with that external_id already
// exists. The unique index is the last resort against a concurrent
// reconcile run inserting the same booking; created=false means the
// insert lost that race (or the row was already there).
func (r *ReservationsRepo) CreateIdempotent(res *models.Reservation) (created bool, err error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(res)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateStatus touches only status and synced_at, leaving every other
// field alone: staff edits win over re-sync.
func (r *ReservationsRepo) UpdateStatus(id uint, status models.ReservationStatus, syncedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if syncedAt != nil {
		updates["synced_at"] = *syncedAt
	}
	return r.db.
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

// SetExternalRef records the identifier returned by a successful
// outbound push.
func (r *ReservationsRepo) SetExternalRef(id uint, externalID string, syncedAt time.Time) error {
	return r.db.
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"external_id": externalID,
			"synced_at":   syncedAt,
		}).
		Error
}

func (r *ReservationsRepo) Delete(id uint) error {
	return r.db.Delete(&models.Reservation{}, id).Error
}
