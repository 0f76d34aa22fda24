package repos

import (
	"log"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayablesRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewPayablesRepo(db *gorm.DB, lg *log.Logger) *PayablesRepo {
	return &PayablesRepo{db: db, lg: lg}
}

func (r *PayablesRepo) GetByID(id uint) (*models.Payable, error) {
	var p models.Payable
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForUpdate loads the payable under a row lock; payment writes
// against it serialize the same way reservation payments do.
func (r *PayablesRepo) GetForUpdate(id uint) (*models.Payable, error) {
	var p models.Payable
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayablesRepo) Create(p *models.Payable) error {
	return r.db.Create(p).Error
}
