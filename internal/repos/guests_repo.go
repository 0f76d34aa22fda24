package repos

import (
	"errors"
	"log"
	"strings"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"gorm.io/gorm"
)

type GuestsRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewGuestsRepo(db *gorm.DB, lg *log.Logger) *GuestsRepo {
	return &GuestsRepo{db: db, lg: lg}
}

func (r *GuestsRepo) GetByID(id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.First(&guest, id).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindOrCreateByEmail dedups guests on email. A blank email always
// creates a fresh guest; there is nothing to match on.
func (r *GuestsRepo) FindOrCreateByEmail(fullName, email, phone string) (*models.Guest, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email != "" {
		var existing models.Guest
		err := r.db.Where("email = ?", email).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	guest := models.Guest{
		FullName: strings.TrimSpace(fullName),
		Email:    email,
		Phone:    strings.TrimSpace(phone),
	}
	if err := r.db.Create(&guest).Error; err != nil {
		return nil, err
	}
	r.lg.Printf("Created guest %d (%s)", guest.ID, guest.Email)
	return &guest, nil
}
