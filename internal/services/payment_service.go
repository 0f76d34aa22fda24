package services

import (
	"fmt"
	"log"
	"time"

	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/models"
	"github.com/franciscodevccp/hotel-costa-demo-sub000/internal/repos"
	"gorm.io/gorm"
)

// Balance is derived, never stored: there is no cached "paid" column
// to drift out of step with the ledger.
type Balance struct {
	Total   int64
	Paid    int64
	Pending int64
}

type SettlementState string

const (
	SettlementPending  SettlementState = "pending"
	SettlementPartial  SettlementState = "partial"
	SettlementComplete SettlementState = "complete"
)

func (b Balance) Settlement() SettlementState {
	switch {
	case b.Paid == 0:
		return SettlementPending
	case b.Paid < b.Total:
		return SettlementPartial
	default:
		return SettlementComplete
	}
}

// ComputeBalance is the single owner of balance arithmetic: everywhere
// a paid/pending figure is shown, it comes from here.
func ComputeBalance(total int64, payments []models.Payment) Balance {
	var paid int64
	for _, p := range payments {
		if p.Status == models.PaymentCompleted {
			paid += p.Amount
		}
	}
	return Balance{Total: total, Paid: paid, Pending: total - paid}
}

// PaymentService is the append-only payment ledger for reservations
// and for payable/receivable entities. The write path enforces
// sum(completed) <= total inside one transaction per target, so two
// concurrent payments cannot jointly over-pay against a stale balance.
type PaymentService struct {
	DB     *gorm.DB
	Logger *log.Logger

	Now func() time.Time
}

func NewPaymentService(db *gorm.DB, lg *log.Logger) *PaymentService {
	return &PaymentService{DB: db, Logger: lg, Now: time.Now}
}

type RecordPaymentInput struct {
	Amount       int64  `validate:"min=1"`
	Method       string `validate:"required"`
	RegisteredBy string
	ReceiptURL   string
	ReceiptHash  string
}

func (s *PaymentService) RecordReservationPayment(reservationID uint, in RecordPaymentInput) (*models.Payment, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	lg := s.Logger
	var payment *models.Payment

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	// the row lock serializes concurrent payments against the same
	// reservation: the second writer sees the first's committed sum
	res, err := repos.NewReservationsRepo(tx, lg).GetForUpdate(reservationID)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("load reservation %d: %w", reservationID, err)
	}

	pr := repos.NewPaymentsRepo(tx, lg)
	paid, err := pr.SumCompletedByReservation(reservationID)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("sum payments for reservation %d: %w", reservationID, err)
	}
	if in.Amount > res.TotalAmount-paid {
		_ = tx.Rollback()
		return nil, ErrAmountExceedsBalance
	}

	payment = &models.Payment{
		ReservationID: &res.ID,
		Amount:        in.Amount,
		Method:        in.Method,
		Status:        models.PaymentCompleted,
		PaidAt:        s.Now(),
		RegisteredBy:  in.RegisteredBy,
		ReceiptURL:    in.ReceiptURL,
		ReceiptHash:   in.ReceiptHash,
	}
	if err := pr.Create(payment); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("record payment: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// RecordPayablePayment applies the identical ledger invariant to a
// payable/receivable.
func (s *PaymentService) RecordPayablePayment(payableID uint, in RecordPaymentInput) (*models.Payment, error) {
	if err := validate.Struct(in); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	lg := s.Logger
	var payment *models.Payment

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	payable, err := repos.NewPayablesRepo(tx, lg).GetForUpdate(payableID)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("load payable %d: %w", payableID, err)
	}

	pr := repos.NewPaymentsRepo(tx, lg)
	paid, err := pr.SumCompletedByPayable(payableID)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("sum payments for payable %d: %w", payableID, err)
	}
	if in.Amount > payable.TotalAmount-paid {
		_ = tx.Rollback()
		return nil, ErrAmountExceedsBalance
	}

	payment = &models.Payment{
		PayableID:    &payable.ID,
		Amount:       in.Amount,
		Method:       in.Method,
		Status:       models.PaymentCompleted,
		PaidAt:       s.Now(),
		RegisteredBy: in.RegisteredBy,
		ReceiptURL:   in.ReceiptURL,
		ReceiptHash:  in.ReceiptHash,
	}
	if err := pr.Create(payment); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("record payable payment: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ReservationBalance(reservationID uint) (Balance, error) {
	var res models.Reservation
	if err := s.DB.First(&res, reservationID).Error; err != nil {
		return Balance{}, fmt.Errorf("load reservation %d: %w", reservationID, err)
	}
	payments, err := repos.NewPaymentsRepo(s.DB, s.Logger).ListByReservation(reservationID)
	if err != nil {
		return Balance{}, err
	}
	return ComputeBalance(res.TotalAmount, payments), nil
}

// DeletePayment is the staff correction path. No balance re-validation
// is needed: removing a row only decreases the paid total.
func (s *PaymentService) DeletePayment(paymentID uint) error {
	return repos.NewPaymentsRepo(s.DB, s.Logger).Delete(paymentID)
}

// RefundPayment reverses a completed entry. The row stays in the
// ledger with status refunded and stops counting toward the paid
// amount.
func (s *PaymentService) RefundPayment(paymentID uint) error {
	pr := repos.NewPaymentsRepo(s.DB, s.Logger)
	p, err := pr.GetByID(paymentID)
	if err != nil {
		return err
	}
	if p.Status == models.PaymentRefunded {
		return validationErrorf("payment %d is already refunded", paymentID)
	}
	return pr.MarkRefunded(paymentID)
}
