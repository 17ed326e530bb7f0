package problem

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/employee"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"go.uber.org/zap"
)

type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*auth.User, error)
}

type EmployeeLookup interface {
	GetByID(ctx context.Context, id uint) (*employee.Employee, error)
	GetByUserID(ctx context.Context, userID uint) (*employee.Employee, error)
}

type Service interface {
	Submit(ctx context.Context, userID uint, in SubmitInput, images []string) (*ProblemReport, error)
	MyReports(ctx context.Context, userID uint) ([]ProblemReport, error)
	Get(ctx context.Context, userID uint, role string, id uint) (*ProblemReport, error)
	List(ctx context.Context, filter ProblemFilter) ([]ProblemReport, error)
	Assign(ctx context.Context, adminID, id uint, in AssignInput) (*ProblemReport, error)
	UpdateStatus(ctx context.Context, userID uint, role string, id uint, in StatusInput) (*ProblemReport, error)
	AssignedToMe(ctx context.Context, userID uint) ([]ProblemReport, error)
}

type service struct {
	repo      Repository
	users     UserLookup
	employees EmployeeLookup
	notifier  notification.Notifier
	auditSvc  auditlog.Service
	log       *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, users UserLookup, employees EmployeeLookup, notifier notification.Notifier, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{
		repo:      repo,
		users:     users,
		employees: employees,
		notifier:  notifier,
		auditSvc:  auditSvc,
		log:       log,
		now:       time.Now,
	}
}

func (s *service) Submit(ctx context.Context, userID uint, in SubmitInput, images []string) (*ProblemReport, error) {
	p := &ProblemReport{
		ReportedBy:  userID,
		FlatID:      in.FlatID,
		BuildingID:  in.BuildingID,
		Category:    in.Category,
		Priority:    in.Priority,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Images:      images,
		Status:      StatusOpen,
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.FlatID == nil {
		reporter, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		p.FlatID = reporter.FlatID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyRole(ctx, string(auth.RoleAdmin), notification.Message{
		Title:        "New Problem Report",
		Message:      fmt.Sprintf("%s (%s, %s priority)", p.Title, p.Category, p.Priority),
		Type:         notification.TypeWarning,
		Category:     notification.CategoryProblem,
		RelatedID:    &p.ID,
		RelatedModel: "ProblemReport",
	}); err != nil {
		s.log.Warn("⚠️ Admin notification failed", zap.Uint("problem_id", p.ID), zap.Error(err))
	}
	return p, nil
}

func (s *service) MyReports(ctx context.Context, userID uint) ([]ProblemReport, error) {
	return s.repo.ListByReporter(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID uint, role string, id uint) (*ProblemReport, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == string(auth.RoleAdmin) || p.ReportedBy == userID {
		return p, nil
	}
	if p.Assignee != nil && p.Assignee.UserID == userID {
		return p, nil
	}
	return nil, apperrors.Forbidden("Not authorized to view this problem")
}

func (s *service) List(ctx context.Context, filter ProblemFilter) ([]ProblemReport, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Assign(ctx context.Context, adminID, id uint, in AssignInput) (*ProblemReport, error) {
	emp, err := s.employees.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp.Status != employee.StatusActive {
		return nil, apperrors.Validation("Employee is not active")
	}

	if err := s.repo.Assign(ctx, id, emp.ID, s.now(), strings.TrimSpace(in.AdminNotes)); err != nil {
		return nil, err
	}
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     "PROBLEM_ASSIGNED",
		EntityType: "problem",
		EntityID:   &id,
		Details:    map[string]interface{}{"employee_id": emp.ID},
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", "PROBLEM_ASSIGNED"), zap.Error(err))
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if emp.User != nil {
		s.notifier.SendEmail(ctx, emp.User.Email,
			notification.ProblemAssignedEmail(emp.User.FullName(), p.Title, p.Category, p.Priority))
	}
	s.notify(ctx, emp.UserID, p, notification.Message{
		Title:   "New Problem Assigned",
		Message: "You have been assigned: " + p.Title,
		Type:    notification.TypeInfo,
	})
	return p, nil
}

func (s *service) UpdateStatus(ctx context.Context, userID uint, role string, id uint, in StatusInput) (*ProblemReport, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	admin := role == string(auth.RoleAdmin)
	if !admin {
		emp, err := s.employees.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p.AssignedTo == nil || *p.AssignedTo != emp.ID {
			return nil, apperrors.Forbidden("You are not assigned to this problem")
		}
		if in.Status == StatusClosed {
			return nil, apperrors.Forbidden("Only an admin can close a problem")
		}
	}

	from := allowedFrom(in.Status, admin)
	if !contains(from, p.Status) {
		return nil, apperrors.Conflict(fmt.Sprintf("Cannot change problem status from %s to %s", p.Status, in.Status))
	}

	fields := map[string]interface{}{"status": in.Status}
	if in.Status == StatusResolved {
		fields["resolved_at"] = s.now()
	}
	if notes := strings.TrimSpace(in.AdminNotes); notes != "" && admin {
		fields["admin_notes"] = notes
	}
	if err := s.repo.Transition(ctx, id, from, fields); err != nil {
		return nil, err
	}

	p, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	msgType := notification.TypeInfo
	if p.Status == StatusResolved {
		msgType = notification.TypeSuccess
	}
	s.notify(ctx, p.ReportedBy, p, notification.Message{
		Title:   "Problem Status Updated",
		Message: fmt.Sprintf("Your report \"%s\" is now %s.", p.Title, p.Status),
		Type:    msgType,
	})
	return p, nil
}

func (s *service) AssignedToMe(ctx context.Context, userID uint) ([]ProblemReport, error) {
	emp, err := s.employees.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByAssignee(ctx, emp.ID)
}

func (s *service) notify(ctx context.Context, userID uint, p *ProblemReport, msg notification.Message) {
	msg.Category = notification.CategoryProblem
	msg.RelatedID = &p.ID
	msg.RelatedModel = "ProblemReport"
	if err := s.notifier.NotifyUser(ctx, userID, msg); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
