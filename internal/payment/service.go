package payment

import (
	"context"
	"strings"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/billing"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"go.uber.org/zap"
)

// UserLookup resolves payers for notifications and email.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*auth.User, error)
}

type Service interface {
	Submit(ctx context.Context, tenantID uint, in SubmitInput) (*Payment, error)
	Verify(ctx context.Context, adminID, id uint) (*Payment, error)
	Reject(ctx context.Context, adminID, id uint, reason string) (*Payment, error)

	MyPayments(ctx context.Context, userID uint) ([]Payment, error)
	GetPayment(ctx context.Context, callerID uint, role string, id uint) (*Payment, error)
	Pending(ctx context.Context) ([]Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]Payment, error)
}

type service struct {
	repo     Repository
	users    UserLookup
	notifier notification.Notifier
	auditSvc auditlog.Service
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, users UserLookup, notifier notification.Notifier, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		auditSvc: auditSvc,
		log:      log,
		now:      time.Now,
	}
}

// =============================
// Tenant submission
// =============================

func (s *service) Submit(ctx context.Context, tenantID uint, in SubmitInput) (*Payment, error) {
	txnID := strings.TrimSpace(in.BkashTransactionID)
	if txnID == "" {
		return nil, apperrors.Validation("bKash transaction ID is required")
	}

	p := &Payment{
		BillID:             in.BillID,
		UserID:             tenantID,
		Amount:             in.Amount,
		BkashTransactionID: txnID,
		BkashPhoneNumber:   strings.TrimSpace(in.BkashPhoneNumber),
		Status:             StatusPending,
		ReceiptURL:         in.ReceiptURL,
	}

	bill, err := s.repo.Submit(ctx, p, func(b *billing.Bill) error {
		if b.TenantID != tenantID {
			return apperrors.Forbidden("Not authorized to pay this bill")
		}
		switch b.Status {
		case billing.StatusPaid:
			return apperrors.Conflict("Bill already paid")
		case billing.StatusPendingVerification:
			return apperrors.Conflict("A payment for this bill is already awaiting verification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("💳 Payment submitted",
		zap.Uint("payment_id", p.ID),
		zap.Uint("bill_id", bill.ID),
		zap.String("transaction_id", p.BkashTransactionID),
	)

	payer := "A tenant"
	if user, err := s.users.FindByID(ctx, tenantID); err == nil {
		payer = user.FullName()
	}
	if err := s.notifier.NotifyRole(ctx, string(auth.RoleAdmin), notification.Message{
		Title:        "New Payment Submission",
		Message:      payer + " submitted a payment for verification",
		Type:         notification.TypeInfo,
		Category:     notification.CategoryPayment,
		RelatedID:    &p.ID,
		RelatedModel: "Payment",
	}); err != nil {
		s.log.Warn("⚠️ Admin notification failed", zap.Uint("payment_id", p.ID), zap.Error(err))
	}

	p.Bill = bill
	return p, nil
}

// =============================
// Admin decisions
// =============================

func (s *service) Verify(ctx context.Context, adminID, id uint) (*Payment, error) {
	payment, err := s.repo.Decide(ctx, id, func(p *Payment, b *billing.Bill) error {
		if p.Status != StatusPending {
			return apperrors.Conflict("Payment has already been " + p.Status)
		}
		now := s.now()
		p.Status = StatusVerified
		p.VerifiedBy = &adminID
		p.VerifiedAt = &now
		b.Status = billing.StatusPaid
		return nil
	})
	if err != nil {
		s.auditFailure(ctx, adminID, "PAYMENT_VERIFIED", id, err)
		return nil, err
	}

	s.log.Info("✅ Payment verified", zap.Uint("payment_id", payment.ID), zap.Uint("admin_id", adminID))
	s.audit(ctx, adminID, "PAYMENT_VERIFIED", payment, nil)

	if user, err := s.users.FindByID(ctx, payment.UserID); err == nil {
		s.notifier.SendEmail(ctx, user.Email, notification.PaymentVerifiedEmail(
			user.FullName(), payment.Bill.Month, payment.Amount, payment.BkashTransactionID))
	} else {
		s.log.Warn("⚠️ Payer lookup failed", zap.Uint("user_id", payment.UserID), zap.Error(err))
	}
	s.notify(ctx, payment.UserID, notification.Message{
		Title:        "Payment Verified",
		Message:      "Your payment for " + payment.Bill.Month + " has been verified.",
		Type:         notification.TypeSuccess,
		Category:     notification.CategoryPayment,
		RelatedID:    &payment.ID,
		RelatedModel: "Payment",
	})
	return payment, nil
}

func (s *service) Reject(ctx context.Context, adminID, id uint, reason string) (*Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation("Rejection reason is required")
	}

	payment, err := s.repo.Decide(ctx, id, func(p *Payment, b *billing.Bill) error {
		if p.Status != StatusPending {
			return apperrors.Conflict("Payment has already been " + p.Status)
		}
		now := s.now()
		p.Status = StatusRejected
		p.RejectionReason = reason
		p.VerifiedBy = &adminID
		p.VerifiedAt = &now
		b.Status = billing.StatusUnpaid
		b.PaymentID = nil
		return nil
	})
	if err != nil {
		s.auditFailure(ctx, adminID, "PAYMENT_REJECTED", id, err)
		return nil, err
	}

	s.log.Info("🚫 Payment rejected", zap.Uint("payment_id", payment.ID), zap.Uint("admin_id", adminID))
	s.audit(ctx, adminID, "PAYMENT_REJECTED", payment, map[string]interface{}{"reason": reason})

	if user, err := s.users.FindByID(ctx, payment.UserID); err == nil {
		s.notifier.SendEmail(ctx, user.Email,
			notification.PaymentRejectedEmail(user.FullName(), payment.BkashTransactionID, reason))
	} else {
		s.log.Warn("⚠️ Payer lookup failed", zap.Uint("user_id", payment.UserID), zap.Error(err))
	}
	s.notify(ctx, payment.UserID, notification.Message{
		Title:        "Payment Rejected",
		Message:      "Your payment was rejected: " + reason,
		Type:         notification.TypeError,
		Category:     notification.CategoryPayment,
		RelatedID:    &payment.ID,
		RelatedModel: "Payment",
	})
	return payment, nil
}

// =============================
// Views
// =============================

func (s *service) MyPayments(ctx context.Context, userID uint) ([]Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetPayment(ctx context.Context, callerID uint, role string, id uint) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != callerID && role != string(auth.RoleAdmin) {
		return nil, apperrors.Forbidden("Not authorized")
	}
	return p, nil
}

func (s *service) Pending(ctx context.Context) ([]Payment, error) {
	return s.repo.ListPending(ctx)
}

func (s *service) List(ctx context.Context, filter PaymentFilter) ([]Payment, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) notify(ctx context.Context, userID uint, msg notification.Message) {
	if err := s.notifier.NotifyUser(ctx, userID, msg); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *service) audit(ctx context.Context, adminID uint, action string, p *Payment, extra map[string]interface{}) {
	details := map[string]interface{}{
		"bill_id":        p.BillID,
		"amount":         p.Amount,
		"transaction_id": p.BkashTransactionID,
	}
	for k, v := range extra {
		details[k] = v
	}
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: "payment",
		EntityID:   &p.ID,
		Details:    details,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *service) auditFailure(ctx context.Context, adminID uint, action string, id uint, cause error) {
	if apperrors.Is(cause, apperrors.KindNotFound) {
		return
	}
	_ = s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: "payment",
		EntityID:   &id,
		Details:    map[string]interface{}{"error": cause.Error()},
		Status:     auditlog.StatusFailure,
	})
}
