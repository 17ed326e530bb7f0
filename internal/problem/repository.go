package problem

import (
	"context"
	"time"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"gorm.io/gorm"
)

const (
	problemNotFoundMsg = "Problem not found"
	notAssignableMsg   = "Problem can only be assigned while open or assigned"
)

type Repository interface {
	Create(ctx context.Context, p *ProblemReport) error
	GetByID(ctx context.Context, id uint) (*ProblemReport, error)
	ListByReporter(ctx context.Context, userID uint) ([]ProblemReport, error)
	ListByAssignee(ctx context.Context, employeeID uint) ([]ProblemReport, error)
	List(ctx context.Context, filter ProblemFilter) ([]ProblemReport, error)

	Assign(ctx context.Context, id, employeeID uint, at time.Time, notes string) error
	// Transition moves a report to fields["status"] only if it is currently
	// in one of from.
	Transition(ctx context.Context, id uint, from []string, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *ProblemReport) error {
	return r.db.WithContext(ctx).Omit("Reporter", "Flat", "Assignee").Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*ProblemReport, error) {
	var p ProblemReport
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Flat").
		Preload("Assignee.User").
		First(&p, id).Error
	if err != nil {
		return nil, database.TranslateError(err, problemNotFoundMsg, "")
	}
	return &p, nil
}

func (r *repository) ListByReporter(ctx context.Context, userID uint) ([]ProblemReport, error) {
	var problems []ProblemReport
	err := r.db.WithContext(ctx).
		Preload("Assignee.User").
		Where("reported_by = ?", userID).
		Order("created_at DESC").
		Find(&problems).Error
	return problems, err
}

func (r *repository) ListByAssignee(ctx context.Context, employeeID uint) ([]ProblemReport, error) {
	var problems []ProblemReport
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Flat").
		Where("assigned_to = ?", employeeID).
		Order("created_at DESC").
		Find(&problems).Error
	return problems, err
}

func (r *repository) List(ctx context.Context, filter ProblemFilter) ([]ProblemReport, error) {
	query := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Flat").
		Preload("Assignee.User")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var problems []ProblemReport
	err := query.Order("created_at DESC").Find(&problems).Error
	return problems, err
}

func (r *repository) Assign(ctx context.Context, id, employeeID uint, at time.Time, notes string) error {
	fields := map[string]interface{}{
		"assigned_to": employeeID,
		"assigned_at": at,
		"status":      StatusAssigned,
	}
	if notes != "" {
		fields["admin_notes"] = notes
	}
	return r.conditionalUpdate(ctx, id, []string{StatusOpen, StatusAssigned}, fields, notAssignableMsg)
}

func (r *repository) Transition(ctx context.Context, id uint, from []string, fields map[string]interface{}) error {
	return r.conditionalUpdate(ctx, id, from, fields, "Invalid status transition")
}

func (r *repository) conditionalUpdate(ctx context.Context, id uint, from []string, fields map[string]interface{}, conflict string) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&ProblemReport{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&ProblemReport{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound(problemNotFoundMsg)
	}
	return apperrors.Conflict(conflict)
}
