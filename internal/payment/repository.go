package payment

import (
	"context"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/billing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	paymentNotFoundMsg = "Payment not found"
	duplicateTxnMsg    = "This bKash transaction ID has already been submitted"
)

type Repository interface {
	// Submit locks the bill, runs check against it, then inserts p and moves
	// the bill to pending-verification.
	Submit(ctx context.Context, p *Payment, check func(b *billing.Bill) error) (*billing.Bill, error)

	// Decide locks the payment and its bill, lets fn apply the admin's
	// decision to both, and saves them in one transaction.
	Decide(ctx context.Context, id uint, fn func(p *Payment, b *billing.Bill) error) (*Payment, error)

	GetByID(ctx context.Context, id uint) (*Payment, error)
	ListByUser(ctx context.Context, userID uint) ([]Payment, error)
	ListPending(ctx context.Context) ([]Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]Payment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func lockBill(tx *gorm.DB, id uint) (*billing.Bill, error) {
	var bill billing.Bill
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bill, id).Error; err != nil {
		return nil, database.TranslateError(err, "Bill not found", "")
	}
	return &bill, nil
}

func saveBillState(tx *gorm.DB, bill *billing.Bill) error {
	return tx.Model(bill).Select("status", "payment_id").Updates(bill).Error
}

func (r *repository) Submit(ctx context.Context, p *Payment, check func(b *billing.Bill) error) (*billing.Bill, error) {
	var bill *billing.Bill
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if bill, err = lockBill(tx, p.BillID); err != nil {
			return err
		}
		if err := check(bill); err != nil {
			return err
		}

		if err := tx.Omit("Bill", "User").Create(p).Error; err != nil {
			return database.TranslateError(err, paymentNotFoundMsg, duplicateTxnMsg)
		}

		bill.Status = billing.StatusPendingVerification
		bill.PaymentID = &p.ID
		return saveBillState(tx, bill)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *repository) Decide(ctx context.Context, id uint, fn func(p *Payment, b *billing.Bill) error) (*Payment, error) {
	var payment Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, id).Error
		if err != nil {
			return database.TranslateError(err, paymentNotFoundMsg, "")
		}
		bill, err := lockBill(tx, payment.BillID)
		if err != nil {
			return err
		}
		if err := fn(&payment, bill); err != nil {
			return err
		}

		err = tx.Model(&payment).
			Select("status", "verified_by", "verified_at", "rejection_reason").
			Updates(&payment).Error
		if err != nil {
			return err
		}
		if err := saveBillState(tx, bill); err != nil {
			return err
		}
		payment.Bill = bill
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).
		Preload("Bill").
		Preload("User").
		First(&p, id).Error
	if err != nil {
		return nil, database.TranslateError(err, paymentNotFoundMsg, "")
	}
	return &p, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Preload("Bill").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) ListPending(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Preload("Bill.Flat").
		Preload("User").
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) List(ctx context.Context, filter PaymentFilter) ([]Payment, error) {
	query := r.db.WithContext(ctx).Model(&Payment{}).Preload("Bill").Preload("User")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var payments []Payment
	err := query.Order("created_at DESC").Find(&payments).Error
	return payments, err
}
