package employee

import (
	"context"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"gorm.io/gorm"
)

const (
	employeeNotFoundMsg = "Employee not found"
	profileNotFoundMsg  = "Employee profile not found"
	raiseNotFoundMsg    = "Salary raise request not found"
	employeeExistsMsg   = "Employee ID already exists"
	pendingRaiseMsg     = "You already have a pending salary raise request"
)

type Repository interface {
	// Create stores the employee and promotes the linked user to the
	// employee role in one transaction.
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id uint) (*Employee, error)
	GetByUserID(ctx context.Context, userID uint) (*Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	// Delete removes the employee and reverts the user to a visitor.
	Delete(ctx context.Context, id uint) error

	// ===== Salary raises =====
	HasPendingRaise(ctx context.Context, employeeID uint) (bool, error)
	CreateRaise(ctx context.Context, r *SalaryRaise) error
	GetRaise(ctx context.Context, id uint) (*SalaryRaise, error)
	ListRaisesByEmployee(ctx context.Context, employeeID uint) ([]SalaryRaise, error)
	ListRaises(ctx context.Context, status string) ([]SalaryRaise, error)
	ApproveRaise(ctx context.Context, id uint, fields map[string]interface{}) error
	RejectRaise(ctx context.Context, id uint, fields map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("users").Where("id = ?", e.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NotFound("User not found")
		}

		if err := tx.Model(&Employee{}).Where("user_id = ?", e.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("User is already an employee")
		}

		if err := tx.Omit("User").Create(e).Error; err != nil {
			return database.TranslateError(err, "", employeeExistsMsg)
		}
		return tx.Table("users").
			Where("id = ?", e.UserID).
			Update("role", auth.RoleEmployee).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Employee, error) {
	var e Employee
	if err := r.db.WithContext(ctx).Preload("User").First(&e, id).Error; err != nil {
		return nil, database.TranslateError(err, employeeNotFoundMsg, "")
	}
	return &e, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uint) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&e).Error
	if err != nil {
		return nil, database.TranslateError(err, profileNotFoundMsg, "")
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var employees []Employee
	err := query.Order("created_at DESC").Find(&employees).Error
	return employees, err
}

func (r *repository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Employee{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(employeeNotFoundMsg)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e Employee
		if err := tx.Select("id", "user_id").First(&e, id).Error; err != nil {
			return database.TranslateError(err, employeeNotFoundMsg, "")
		}
		if err := tx.Delete(&Employee{}, id).Error; err != nil {
			return err
		}
		return tx.Table("users").
			Where("id = ? AND role = ?", e.UserID, auth.RoleEmployee).
			Update("role", auth.RoleVisitor).Error
	})
}

// ===== Salary raises =====

func (r *repository) HasPendingRaise(ctx context.Context, employeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SalaryRaise{}).
		Where("employee_id = ? AND status = ?", employeeID, RaisePending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateRaise(ctx context.Context, raise *SalaryRaise) error {
	err := r.db.WithContext(ctx).Omit("Employee").Create(raise).Error
	return database.TranslateError(err, "", pendingRaiseMsg)
}

func (r *repository) GetRaise(ctx context.Context, id uint) (*SalaryRaise, error) {
	var raise SalaryRaise
	if err := r.db.WithContext(ctx).Preload("Employee.User").First(&raise, id).Error; err != nil {
		return nil, database.TranslateError(err, raiseNotFoundMsg, "")
	}
	return &raise, nil
}

func (r *repository) ListRaisesByEmployee(ctx context.Context, employeeID uint) ([]SalaryRaise, error) {
	var raises []SalaryRaise
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&raises).Error
	return raises, err
}

func (r *repository) ListRaises(ctx context.Context, status string) ([]SalaryRaise, error) {
	query := r.db.WithContext(ctx).Preload("Employee.User")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var raises []SalaryRaise
	err := query.Order("created_at DESC").Find(&raises).Error
	return raises, err
}

func (r *repository) ApproveRaise(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var raise SalaryRaise
		if err := tx.Select("id", "employee_id", "requested_salary").First(&raise, id).Error; err != nil {
			return database.TranslateError(err, raiseNotFoundMsg, "")
		}
		if err := database.ReviewPending(tx, &SalaryRaise{}, id, fields, raiseNotFoundMsg); err != nil {
			return err
		}
		return tx.Model(&Employee{}).
			Where("id = ?", raise.EmployeeID).
			Update("salary", raise.RequestedSalary).Error
	})
}

func (r *repository) RejectRaise(ctx context.Context, id uint, fields map[string]interface{}) error {
	return database.ReviewPending(r.db.WithContext(ctx), &SalaryRaise{}, id, fields, raiseNotFoundMsg)
}
