package billing

import (
	"context"

	"github.com/housefit/apartment-management-backend/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	billNotFoundMsg = "Bill not found"
	billExistsMsg   = "Bill already exists for this flat and month"
)

type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id uint) (*Bill, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]Bill, error)
	List(ctx context.Context, filter BillFilter) ([]Bill, error)
	LatestUnpaidForTenant(ctx context.Context, tenantID uint) (*Bill, error)

	// Mutate loads the bill under a row lock, lets fn change it and saves
	// the charge columns, total and due date in the same transaction.
	Mutate(ctx context.Context, id uint, fn func(b *Bill) error) (*Bill, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Bill) error {
	err := r.db.WithContext(ctx).Omit("Flat").Create(b).Error
	return database.TranslateError(err, billNotFoundMsg, billExistsMsg)
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Bill, error) {
	var b Bill
	if err := r.db.WithContext(ctx).Preload("Flat").First(&b, id).Error; err != nil {
		return nil, database.TranslateError(err, billNotFoundMsg, "")
	}
	return &b, nil
}

func (r *repository) ListByTenant(ctx context.Context, tenantID uint) ([]Bill, error) {
	var bills []Bill
	err := r.db.WithContext(ctx).
		Preload("Flat").
		Where("tenant_id = ?", tenantID).
		Order("month DESC").
		Find(&bills).Error
	return bills, err
}

func (r *repository) List(ctx context.Context, filter BillFilter) ([]Bill, error) {
	query := r.db.WithContext(ctx).Model(&Bill{}).Preload("Flat")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.FlatID != nil {
		query = query.Where("flat_id = ?", *filter.FlatID)
	}

	var bills []Bill
	err := query.Order("month DESC, id DESC").Find(&bills).Error
	return bills, err
}

func (r *repository) LatestUnpaidForTenant(ctx context.Context, tenantID uint) (*Bill, error) {
	var b Bill
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status <> ?", tenantID, StatusPaid).
		Order("month DESC").
		First(&b).Error
	if err != nil {
		return nil, database.TranslateError(err, "No unpaid bill found for the tenant", "")
	}
	return &b, nil
}

func (r *repository) Mutate(ctx context.Context, id uint, fn func(b *Bill) error) (*Bill, error) {
	var bill Bill
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bill, id).Error; err != nil {
			return database.TranslateError(err, billNotFoundMsg, "")
		}
		if err := fn(&bill); err != nil {
			return err
		}
		return tx.Model(&bill).
			Select("rent", "electricity", "gas", "water", "maintenance", "cleaning", "garbage", "discount", "total", "due_date").
			Updates(&bill).Error
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}
