package leave

import (
	"context"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/property"
	"gorm.io/gorm"
)

const leaveNotFoundMsg = "Leave request not found"

type Repository interface {
	Create(ctx context.Context, l *LeaveRequest) error
	GetByID(ctx context.Context, id uint) (*LeaveRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]LeaveRequest, error)
	List(ctx context.Context, status string) ([]LeaveRequest, error)

	// Approve decides the request and releases the tenant's flat in one
	// transaction.
	Approve(ctx context.Context, id uint, fields map[string]interface{}) error
	Reject(ctx context.Context, id uint, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("User", "Flat").Create(l).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Flat").
		First(&l, id).Error
	if err != nil {
		return nil, database.TranslateError(err, leaveNotFoundMsg, "")
	}
	return &l, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Flat").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) List(ctx context.Context, status string) ([]LeaveRequest, error) {
	query := r.db.WithContext(ctx).Preload("User").Preload("Flat")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []LeaveRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) Approve(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l LeaveRequest
		if err := tx.Select("id", "user_id", "flat_id").First(&l, id).Error; err != nil {
			return database.TranslateError(err, leaveNotFoundMsg, "")
		}
		if err := database.ReviewPending(tx, &LeaveRequest{}, id, fields, leaveNotFoundMsg); err != nil {
			return err
		}

		err := tx.Model(&property.Flat{}).
			Where("id = ? AND (current_tenant_id = ? OR current_tenant_id IS NULL)", l.FlatID, l.UserID).
			Updates(map[string]interface{}{
				"status":            property.StatusAvailable,
				"current_tenant_id": nil,
			}).Error
		if err != nil {
			return err
		}

		return tx.Table("users").
			Where("id = ? AND flat_id = ?", l.UserID, l.FlatID).
			Update("flat_id", nil).Error
	})
}

func (r *repository) Reject(ctx context.Context, id uint, fields map[string]interface{}) error {
	return database.ReviewPending(r.db.WithContext(ctx), &LeaveRequest{}, id, fields, leaveNotFoundMsg)
}
