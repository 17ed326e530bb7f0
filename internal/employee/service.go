package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, adminID uint, in CreateInput) (*Employee, error)
	GetByID(ctx context.Context, id uint) (*Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Update(ctx context.Context, adminID, id uint, in UpdateInput) (*Employee, error)
	Delete(ctx context.Context, adminID, id uint) error

	Profile(ctx context.Context, userID uint) (*Employee, error)
	RequestRaise(ctx context.Context, userID uint, in RaiseInput) (*SalaryRaise, error)
	MyRaises(ctx context.Context, userID uint) ([]SalaryRaise, error)

	ListRaises(ctx context.Context, status string) ([]SalaryRaise, error)
	ApproveRaise(ctx context.Context, adminID, id uint, response string) (*SalaryRaise, error)
	RejectRaise(ctx context.Context, adminID, id uint, response string) (*SalaryRaise, error)
}

type service struct {
	repo     Repository
	notifier notification.Notifier
	auditSvc auditlog.Service
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier notification.Notifier, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		auditSvc: auditSvc,
		log:      log,
		now:      time.Now,
	}
}

// ===== Admin CRUD =====

func (s *service) Create(ctx context.Context, adminID uint, in CreateInput) (*Employee, error) {
	e := &Employee{
		UserID:      in.UserID,
		EmployeeID:  strings.TrimSpace(in.EmployeeID),
		Department:  in.Department,
		Designation: strings.TrimSpace(in.Designation),
		Status:      in.Status,
		JoinDate:    s.now(),
	}
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.JoinDate != nil && !in.JoinDate.IsZero() {
		e.JoinDate = in.JoinDate.Time
	}
	if e.Status == "" {
		e.Status = StatusActive
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "EMPLOYEE_CREATED", "employee", e.ID, map[string]interface{}{
		"user_id":     e.UserID,
		"employee_id": e.EmployeeID,
		"department":  e.Department,
	})

	return s.repo.GetByID(ctx, e.ID)
}

func (s *service) GetByID(ctx context.Context, id uint) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, adminID, id uint, in UpdateInput) (*Employee, error) {
	fields := in.fields()
	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
		s.audit(ctx, adminID, "EMPLOYEE_UPDATED", "employee", id, fields)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, adminID, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, adminID, "EMPLOYEE_DELETED", "employee", id, nil)
	return nil
}

// ===== Self service =====

func (s *service) Profile(ctx context.Context, userID uint) (*Employee, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) RequestRaise(ctx context.Context, userID uint, in RaiseInput) (*SalaryRaise, error) {
	if in.RequestedSalary <= 0 {
		return nil, apperrors.Validation("Requested salary must be greater than zero")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, apperrors.Validation("Reason is required")
	}

	e, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.HasPendingRaise(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.Conflict(pendingRaiseMsg)
	}

	raise := &SalaryRaise{
		EmployeeID:      e.ID,
		CurrentSalary:   e.Salary,
		RequestedSalary: in.RequestedSalary,
		Reason:          reason,
		Status:          RaisePending,
	}
	if err := s.repo.CreateRaise(ctx, raise); err != nil {
		return nil, err
	}

	name := e.EmployeeID
	if e.User != nil {
		name = e.User.FullName()
	}
	if err := s.notifier.NotifyRole(ctx, string(auth.RoleAdmin), notification.Message{
		Title:        "New Salary Raise Request",
		Message:      fmt.Sprintf("%s requested a salary of %.2f", name, raise.RequestedSalary),
		Type:         notification.TypeInfo,
		Category:     notification.CategoryGeneral,
		RelatedID:    &raise.ID,
		RelatedModel: "SalaryRaise",
	}); err != nil {
		s.log.Warn("⚠️ Admin notification failed", zap.Uint("raise_id", raise.ID), zap.Error(err))
	}
	return raise, nil
}

func (s *service) MyRaises(ctx context.Context, userID uint) ([]SalaryRaise, error) {
	e, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListRaisesByEmployee(ctx, e.ID)
}

// ===== Admin raise review =====

func (s *service) ListRaises(ctx context.Context, status string) ([]SalaryRaise, error) {
	return s.repo.ListRaises(ctx, status)
}

func (s *service) ApproveRaise(ctx context.Context, adminID, id uint, response string) (*SalaryRaise, error) {
	if err := s.repo.ApproveRaise(ctx, id, s.decision(adminID, RaiseApproved, response)); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "SALARY_RAISE_APPROVED", "salary_raise", id, nil)

	raise, err := s.repo.GetRaise(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyEmployee(ctx, raise, notification.Message{
		Title:   "Salary Raise Approved",
		Message: fmt.Sprintf("Your salary raise to %.2f has been approved.", raise.RequestedSalary),
		Type:    notification.TypeSuccess,
	})
	return raise, nil
}

func (s *service) RejectRaise(ctx context.Context, adminID, id uint, response string) (*SalaryRaise, error) {
	if err := s.repo.RejectRaise(ctx, id, s.decision(adminID, RaiseRejected, response)); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "SALARY_RAISE_REJECTED", "salary_raise", id, nil)

	raise, err := s.repo.GetRaise(ctx, id)
	if err != nil {
		return nil, err
	}
	msg := "Your salary raise request has been rejected."
	if raise.AdminResponse != "" {
		msg += " " + raise.AdminResponse
	}
	s.notifyEmployee(ctx, raise, notification.Message{
		Title:   "Salary Raise Rejected",
		Message: msg,
		Type:    notification.TypeWarning,
	})
	return raise, nil
}

func (s *service) decision(adminID uint, status, response string) map[string]interface{} {
	return map[string]interface{}{
		"status":         status,
		"admin_response": strings.TrimSpace(response),
		"reviewed_by":    adminID,
		"reviewed_at":    s.now(),
	}
}

func (s *service) notifyEmployee(ctx context.Context, raise *SalaryRaise, msg notification.Message) {
	if raise.Employee == nil {
		return
	}
	msg.Category = notification.CategoryGeneral
	msg.RelatedID = &raise.ID
	msg.RelatedModel = "SalaryRaise"
	if err := s.notifier.NotifyUser(ctx, raise.Employee.UserID, msg); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", raise.Employee.UserID), zap.Error(err))
	}
}

func (s *service) audit(ctx context.Context, adminID uint, action, entity string, id uint, details map[string]interface{}) {
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: entity,
		EntityID:   &id,
		Details:    details,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
