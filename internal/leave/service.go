package leave

import (
	"context"
	"strings"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"github.com/housefit/apartment-management-backend/internal/property"
	"go.uber.org/zap"
)

type FlatLookup interface {
	GetFlat(ctx context.Context, id uint) (*property.Flat, error)
}

type Service interface {
	Submit(ctx context.Context, userID uint, in SubmitInput) (*LeaveRequest, error)
	MyRequests(ctx context.Context, userID uint) ([]LeaveRequest, error)
	List(ctx context.Context, status string) ([]LeaveRequest, error)
	Approve(ctx context.Context, adminID, id uint, notes string) (*LeaveRequest, error)
	Reject(ctx context.Context, adminID, id uint, notes string) (*LeaveRequest, error)
}

type service struct {
	repo     Repository
	flats    FlatLookup
	notifier notification.Notifier
	auditSvc auditlog.Service
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, flats FlatLookup, notifier notification.Notifier, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{
		repo:     repo,
		flats:    flats,
		notifier: notifier,
		auditSvc: auditSvc,
		log:      log,
		now:      time.Now,
	}
}

func (s *service) Submit(ctx context.Context, userID uint, in SubmitInput) (*LeaveRequest, error) {
	if in.StartDate == nil || in.StartDate.IsZero() || in.EndDate == nil || in.EndDate.IsZero() {
		return nil, apperrors.Validation("Start date and end date are required")
	}
	start, end := in.StartDate.UTC(), in.EndDate.UTC()

	windowStart, windowEnd := nextMonthWindow(s.now())
	if start.Before(windowStart) || !start.Before(windowEnd) {
		return nil, apperrors.Validation("Start date must be within the next calendar month")
	}
	if !end.After(start) {
		return nil, apperrors.Validation("End date must be after start date")
	}

	flat, err := s.flats.GetFlat(ctx, in.FlatID)
	if err != nil {
		return nil, err
	}

	l := &LeaveRequest{
		UserID:           userID,
		FlatID:           flat.ID,
		StartDate:        start,
		EndDate:          end,
		Reason:           strings.TrimSpace(in.Reason),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		Status:           StatusPending,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyRole(ctx, string(auth.RoleAdmin), notification.Message{
		Title:        "New Leave Request",
		Message:      "A tenant has requested to leave flat " + flat.FlatNumber,
		Type:         notification.TypeInfo,
		Category:     notification.CategoryLeave,
		RelatedID:    &l.ID,
		RelatedModel: "LeaveRequest",
	}); err != nil {
		s.log.Warn("⚠️ Admin notification failed", zap.Uint("leave_id", l.ID), zap.Error(err))
	}

	l.Flat = flat
	return l, nil
}

func (s *service) MyRequests(ctx context.Context, userID uint) ([]LeaveRequest, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) List(ctx context.Context, status string) ([]LeaveRequest, error) {
	return s.repo.List(ctx, status)
}

func (s *service) Approve(ctx context.Context, adminID, id uint, notes string) (*LeaveRequest, error) {
	fields := s.decision(adminID, StatusApproved, notes)
	if err := s.repo.Approve(ctx, id, fields); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, id, "LEAVE_APPROVED")

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.User != nil {
		s.notifier.SendEmail(ctx, l.User.Email,
			notification.LeaveApprovedEmail(l.User.FullName(), l.StartDate, l.EndDate))
	}
	s.notify(ctx, l, notification.Message{
		Title:    "Leave Request Approved",
		Message:  "Your leave request has been approved.",
		Type:     notification.TypeSuccess,
		Category: notification.CategoryLeave,
	})
	return l, nil
}

func (s *service) Reject(ctx context.Context, adminID, id uint, notes string) (*LeaveRequest, error) {
	fields := s.decision(adminID, StatusRejected, notes)
	if err := s.repo.Reject(ctx, id, fields); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, id, "LEAVE_REJECTED")

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	msg := "Your leave request has been rejected."
	if l.AdminNotes != "" {
		msg += " " + l.AdminNotes
	}
	s.notify(ctx, l, notification.Message{
		Title:    "Leave Request Rejected",
		Message:  msg,
		Type:     notification.TypeWarning,
		Category: notification.CategoryLeave,
	})
	return l, nil
}

func (s *service) decision(adminID uint, status, notes string) map[string]interface{} {
	return map[string]interface{}{
		"status":      status,
		"admin_notes": strings.TrimSpace(notes),
		"reviewed_by": adminID,
		"reviewed_at": s.now(),
	}
}

func (s *service) audit(ctx context.Context, adminID, id uint, action string) {
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: "leave",
		EntityID:   &id,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *service) notify(ctx context.Context, l *LeaveRequest, msg notification.Message) {
	msg.RelatedID = &l.ID
	msg.RelatedModel = "LeaveRequest"
	if err := s.notifier.NotifyUser(ctx, l.UserID, msg); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", l.UserID), zap.Error(err))
	}
}
