package notification

import (
	"context"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListVisible(ctx context.Context, userID uint, role string, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uint, role string) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uint, role string) error
	MarkAllAsRead(ctx context.Context, userID uint) (int64, error)

	// FCM device tokens
	SaveDeviceToken(ctx context.Context, token *DeviceToken) error
	RemoveDeviceToken(ctx context.Context, userID uint, token string) error
	DeviceTokensForUser(ctx context.Context, userID uint) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// visibleTo scopes a query to rows addressed to the user, their role, or everyone.
func visibleTo(userID uint, role string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipient_id = ? OR recipient_role = ? OR recipient_role = ?", userID, role, RoleAll)
	}
}

func (r *repository) ListVisible(ctx context.Context, userID uint, role string, limit int) ([]Notification, error) {
	var items []Notification
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(userID, role)).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repository) CountUnread(ctx context.Context, userID uint, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(visibleTo(userID, role)).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkAsRead(ctx context.Context, id, userID uint, role string) error {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Scopes(visibleTo(userID, role)).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Notification not found")
	}
	return nil
}

func (r *repository) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// SaveDeviceToken inserts the token or moves an existing one to this user.
func (r *repository) SaveDeviceToken(ctx context.Context, token *DeviceToken) error {
	token.LastUsedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "last_used_at", "updated_at"}),
		}).
		Create(token).Error
}

func (r *repository) RemoveDeviceToken(ctx context.Context, userID uint, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&DeviceToken{}).Error
}

func (r *repository) DeviceTokensForUser(ctx context.Context, userID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&DeviceToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	return tokens, err
}
