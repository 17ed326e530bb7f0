package booking

import (
	"context"

	"github.com/housefit/apartment-management-backend/database"
	"gorm.io/gorm"
)

const bookingNotFoundMsg = "Booking not found"

type Repository interface {
	Create(ctx context.Context, b *BookingRequest) error
	GetByID(ctx context.Context, id uint) (*BookingRequest, error)
	ListByVisitor(ctx context.Context, visitorID uint) ([]BookingRequest, error)
	List(ctx context.Context, status string) ([]BookingRequest, error)
	Review(ctx context.Context, id uint, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *BookingRequest) error {
	return r.db.WithContext(ctx).Omit("Visitor", "Flat").Create(b).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*BookingRequest, error) {
	var b BookingRequest
	err := r.db.WithContext(ctx).
		Preload("Visitor").
		Preload("Flat").
		First(&b, id).Error
	if err != nil {
		return nil, database.TranslateError(err, bookingNotFoundMsg, "")
	}
	return &b, nil
}

func (r *repository) ListByVisitor(ctx context.Context, visitorID uint) ([]BookingRequest, error) {
	var bookings []BookingRequest
	err := r.db.WithContext(ctx).
		Preload("Flat").
		Where("visitor_id = ?", visitorID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) List(ctx context.Context, status string) ([]BookingRequest, error) {
	query := r.db.WithContext(ctx).Preload("Visitor").Preload("Flat")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []BookingRequest
	err := query.Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *repository) Review(ctx context.Context, id uint, fields map[string]interface{}) error {
	return database.ReviewPending(r.db.WithContext(ctx), &BookingRequest{}, id, fields, bookingNotFoundMsg)
}
