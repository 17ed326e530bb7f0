package auth

import (
	"context"
	"time"

	"github.com/housefit/apartment-management-backend/database"
	"gorm.io/gorm"
)

const userExistsMsg = "User already exists with this email or username"

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, filter UserFilter) ([]User, error)
	Delete(ctx context.Context, id uint) error
	CountByRole(ctx context.Context, role Role) (int64, error)

	// Refresh-token allow-list
	StoreRefreshToken(ctx context.Context, token *RefreshToken) error
	ConsumeRefreshToken(ctx context.Context, userID uint, tokenHash string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID uint, tokenHash string) error
	DeleteAllRefreshTokens(ctx context.Context, userID uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return database.TranslateError(err, "User not found", userExistsMsg)
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		return nil, database.TranslateError(err, "User not found", "")
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	if err != nil {
		return nil, database.TranslateError(err, "User not found", "")
	}
	return &u, nil
}

func (r *repository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("LOWER(email) = LOWER(?) OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return database.TranslateError(res.Error, "User not found", "Phone number is already in use")
	}
	if res.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, "User not found", "")
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter UserFilter) ([]User, error) {
	var users []User
	q := r.db.WithContext(ctx).Model(&User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like, like)
	}
	err := q.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&RefreshToken{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.TranslateError(gorm.ErrRecordNotFound, "User not found", "")
		}
		return nil
	})
}

func (r *repository) CountByRole(ctx context.Context, role Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *repository) StoreRefreshToken(ctx context.Context, token *RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// ConsumeRefreshToken deletes the entry and reports whether it was present
// and unexpired. Deleting is what makes each refresh token single use.
func (r *repository) ConsumeRefreshToken(ctx context.Context, userID uint, tokenHash string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ? AND expires_at > ?", userID, tokenHash, time.Now()).
		Delete(&RefreshToken{})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) DeleteRefreshToken(ctx context.Context, userID uint, tokenHash string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userID, tokenHash).
		Delete(&RefreshToken{}).Error
}

func (r *repository) DeleteAllRefreshTokens(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&RefreshToken{}).Error
}
