package repos

import (
	"errors"
	"log"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomsRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewRoomsRepo(db *gorm.DB, lg *log.Logger) *RoomsRepo {
	return &RoomsRepo{db: db, lg: lg}
}

// ResolveByExternalID maps an external accommodation-type identifier to
// a local room. A miss returns (nil, nil): the caller treats it as
// "no mapped room, skip", not as a failure.
func (r *RoomsRepo) ResolveByExternalID(establishmentID uint, externalID string) (*models.Room, error) {
	if externalID == "" {
		return nil, nil
	}
	var room models.Room
	err := r.db.
		Where("establishment_id = ? AND external_id = ?", establishmentID, externalID).
		First(&room).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomsRepo) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// GetForUpdate loads the room under a row lock. Reservation creates
// lock the room before the overlap check so two concurrent creates for
// the same room serialize instead of both seeing zero overlaps.
func (r *RoomsRepo) GetForUpdate(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}
