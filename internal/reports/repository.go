package reports

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	GetBills(ctx context.Context, month, status string) ([]BillReportRow, error)
	// GetPayments filters on created_at when start is non-zero.
	GetPayments(ctx context.Context, status string, start, end time.Time) ([]PaymentReportRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBills(ctx context.Context, month, status string) ([]BillReportRow, error) {
	query := r.db.WithContext(ctx).Table("bills b").
		Select(`
			b.id,
			b.month,
			f.flat_number,
			CONCAT(u.first_name, ' ', u.last_name) as tenant_name,
			u.email as tenant_email,
			b.rent,
			b.electricity + b.gas + b.water as utilities,
			b.maintenance + b.cleaning + b.garbage as services,
			b.discount,
			b.total,
			b.status,
			b.due_date
		`).
		Joins("LEFT JOIN flats f ON b.flat_id = f.id").
		Joins("LEFT JOIN users u ON b.tenant_id = u.id")
	if month != "" {
		query = query.Where("b.month = ?", month)
	}
	if status != "" {
		query = query.Where("b.status = ?", status)
	}

	var out []BillReportRow
	err := query.Order("b.month DESC, f.flat_number ASC").Scan(&out).Error
	return out, err
}

func (r *repository) GetPayments(ctx context.Context, status string, start, end time.Time) ([]PaymentReportRow, error) {
	query := r.db.WithContext(ctx).Table("payments p").
		Select(`
			p.id,
			p.bill_id,
			b.month as bill_month,
			CONCAT(u.first_name, ' ', u.last_name) as tenant_name,
			p.amount,
			p.bkash_transaction_id,
			p.bkash_phone_number,
			p.status,
			p.created_at,
			p.verified_at
		`).
		Joins("LEFT JOIN bills b ON p.bill_id = b.id").
		Joins("LEFT JOIN users u ON p.user_id = u.id")
	if status != "" {
		query = query.Where("p.status = ?", status)
	}
	if !start.IsZero() {
		query = query.Where("p.created_at BETWEEN ? AND ?", start, end)
	}

	var out []PaymentReportRow
	err := query.Order("p.created_at DESC").Scan(&out).Error
	return out, err
}
