package tree

import (
	"context"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"gorm.io/gorm"
)

const treeNotFoundMsg = "Tree submission not found"

type Repository interface {
	Create(ctx context.Context, t *TreeSubmission) error
	GetByID(ctx context.Context, id uint) (*TreeSubmission, error)
	ListByUser(ctx context.Context, userID uint) ([]TreeSubmission, error)
	List(ctx context.Context, status, month string) ([]TreeSubmission, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	TopTenant(ctx context.Context) (*LeaderboardEntry, error)

	// Approve decides the submission and credits points to the submitter in
	// one transaction.
	Approve(ctx context.Context, id uint, points int, fields map[string]interface{}) error
	Reject(ctx context.Context, id uint, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *TreeSubmission) error {
	return r.db.WithContext(ctx).Omit("User").Create(t).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*TreeSubmission, error) {
	var t TreeSubmission
	if err := r.db.WithContext(ctx).Preload("User").First(&t, id).Error; err != nil {
		return nil, database.TranslateError(err, treeNotFoundMsg, "")
	}
	return &t, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]TreeSubmission, error) {
	var trees []TreeSubmission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&trees).Error
	return trees, err
}

func (r *repository) List(ctx context.Context, status, month string) ([]TreeSubmission, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if month != "" {
		query = query.Where("month = ?", month)
	}

	var trees []TreeSubmission
	err := query.Order("created_at DESC").Find(&trees).Error
	return trees, err
}

func tenants(db *gorm.DB) *gorm.DB {
	return db.Table("users").
		Select("id", "first_name", "last_name", "tree_points").
		Where("role = ?", auth.RoleTenant)
}

func (r *repository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.db.WithContext(ctx).
		Scopes(tenants).
		Order("tree_points DESC, id ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

func (r *repository) TopTenant(ctx context.Context) (*LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.db.WithContext(ctx).
		Scopes(tenants).
		Where("tree_points > 0").
		Order("tree_points DESC, id ASC").
		Limit(1).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.NotFound("No eligible tenant")
	}
	return &entries[0], nil
}

func (r *repository) Approve(ctx context.Context, id uint, points int, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t TreeSubmission
		if err := tx.Select("id", "user_id").First(&t, id).Error; err != nil {
			return database.TranslateError(err, treeNotFoundMsg, "")
		}
		if err := database.ReviewPending(tx, &TreeSubmission{}, id, fields, treeNotFoundMsg); err != nil {
			return err
		}
		return tx.Table("users").
			Where("id = ?", t.UserID).
			Update("tree_points", gorm.Expr("tree_points + ?", points)).Error
	})
}

func (r *repository) Reject(ctx context.Context, id uint, fields map[string]interface{}) error {
	return database.ReviewPending(r.db.WithContext(ctx), &TreeSubmission{}, id, fields, treeNotFoundMsg)
}
