package booking

import (
	"context"
	"strings"
	"time"

	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"github.com/housefit/apartment-management-backend/internal/property"
	"go.uber.org/zap"
)

// FlatLookup checks that a requested flat exists.
type FlatLookup interface {
	GetFlat(ctx context.Context, id uint) (*property.Flat, error)
}

type Service interface {
	Submit(ctx context.Context, userID uint, in SubmitInput) (*BookingRequest, error)
	MyBookings(ctx context.Context, userID uint) ([]BookingRequest, error)
	List(ctx context.Context, status string) ([]BookingRequest, error)
	Approve(ctx context.Context, adminID, id uint, response string) (*BookingRequest, error)
	Reject(ctx context.Context, adminID, id uint, reason string) (*BookingRequest, error)
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

func (s *service) Submit(ctx context.Context, userID uint, in SubmitInput) (*BookingRequest, error) {
	flat, err := s.flats.GetFlat(ctx, in.FlatID)
	if err != nil {
		return nil, err
	}

	b := &BookingRequest{
		VisitorID: userID,
		FlatID:    flat.ID,
		Message:   strings.TrimSpace(in.Message),
		Status:    StatusPending,
	}
	if in.RequestedDate != nil && !in.RequestedDate.IsZero() {
		d := in.RequestedDate.Time
		b.RequestedDate = &d
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyRole(ctx, string(auth.RoleAdmin), notification.Message{
		Title:        "New Booking Request",
		Message:      "A booking request was submitted for flat " + flat.FlatNumber,
		Type:         notification.TypeInfo,
		Category:     notification.CategoryBooking,
		RelatedID:    &b.ID,
		RelatedModel: "BookingRequest",
	}); err != nil {
		s.log.Warn("⚠️ Admin notification failed", zap.Uint("booking_id", b.ID), zap.Error(err))
	}

	b.Flat = flat
	return b, nil
}

func (s *service) MyBookings(ctx context.Context, userID uint) ([]BookingRequest, error) {
	return s.repo.ListByVisitor(ctx, userID)
}

func (s *service) List(ctx context.Context, status string) ([]BookingRequest, error) {
	return s.repo.List(ctx, status)
}

func (s *service) Approve(ctx context.Context, adminID, id uint, response string) (*BookingRequest, error) {
	b, err := s.decide(ctx, adminID, id, StatusApproved, response)
	if err != nil {
		return nil, err
	}

	if b.Visitor != nil {
		flatNumber := ""
		if b.Flat != nil {
			flatNumber = b.Flat.FlatNumber
		}
		s.notifier.SendEmail(ctx, b.Visitor.Email,
			notification.BookingApprovedEmail(b.Visitor.FullName(), flatNumber, b.RequestedDate))
	}
	s.notify(ctx, b, notification.Message{
		Title:    "Booking Approved",
		Message:  "Your booking request has been approved.",
		Type:     notification.TypeSuccess,
		Category: notification.CategoryBooking,
	})
	return b, nil
}

func (s *service) Reject(ctx context.Context, adminID, id uint, reason string) (*BookingRequest, error) {
	b, err := s.decide(ctx, adminID, id, StatusRejected, reason)
	if err != nil {
		return nil, err
	}

	msg := "Your booking request has been rejected."
	if b.AdminResponse != "" {
		msg += " " + b.AdminResponse
	}
	s.notify(ctx, b, notification.Message{
		Title:    "Booking Rejected",
		Message:  msg,
		Type:     notification.TypeWarning,
		Category: notification.CategoryBooking,
	})
	return b, nil
}

func (s *service) decide(ctx context.Context, adminID, id uint, status, text string) (*BookingRequest, error) {
	err := s.repo.Review(ctx, id, map[string]interface{}{
		"status":         status,
		"admin_response": strings.TrimSpace(text),
		"reviewed_by":    adminID,
		"reviewed_at":    s.now(),
	})
	if err != nil {
		return nil, err
	}

	action := "BOOKING_APPROVED"
	if status == StatusRejected {
		action = "BOOKING_REJECTED"
	}
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: "booking",
		EntityID:   &id,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) notify(ctx context.Context, b *BookingRequest, msg notification.Message) {
	msg.RelatedID = &b.ID
	msg.RelatedModel = "BookingRequest"
	if err := s.notifier.NotifyUser(ctx, b.VisitorID, msg); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", b.VisitorID), zap.Error(err))
	}
}
