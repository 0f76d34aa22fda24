package repos

import (
	"log"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"gorm.io/gorm"
)

type PaymentsRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewPaymentsRepo(db *gorm.DB, lg *log.Logger) *PaymentsRepo {
	return &PaymentsRepo{db: db, lg: lg}
}

func (r *PaymentsRepo) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SumCompletedByReservation is the paid amount: refunded rows do not
// count toward it.
func (r *PaymentsRepo) SumCompletedByReservation(reservationID uint) (int64, error) {
	var sum int64
	err := r.db.
		Model(&models.Payment{}).
		Where("reservation_id = ? AND status = ?", reservationID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).
		Error
	return sum, err
}

func (r *PaymentsRepo) SumCompletedByPayable(payableID uint) (int64, error) {
	var sum int64
	err := r.db.
		Model(&models.Payment{}).
		Where("payable_id = ? AND status = ?", payableID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).
		Error
	return sum, err
}

func (r *PaymentsRepo) ListByReservation(reservationID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Where("reservation_id = ?", reservationID).
		Order("paid_at, id").
		Find(&payments).
		Error
	return payments, err
}

func (r *PaymentsRepo) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

// MarkRefunded flips a ledger entry to refunded. The row itself stays:
// the ledger is append-only apart from explicit staff deletions.
func (r *PaymentsRepo) MarkRefunded(id uint) error {
	return r.db.
		Model(&models.Payment{}).
		Where("id = ?", id).
		Update("status", models.PaymentRefunded).
		Error
}

func (r *PaymentsRepo) Delete(id uint) error {
	return r.db.Delete(&models.Payment{}, id).Error
}

func (r *PaymentsRepo) DeleteByReservation(reservationID uint) error {
	return r.db.
		Where("reservation_id = ?", reservationID).
		Delete(&models.Payment{}).
		Error
}
