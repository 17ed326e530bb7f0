package billing

import (
	"context"
	"math"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"github.com/housefit/apartment-management-backend/internal/property"
	"go.uber.org/zap"
)

// FlatLookup resolves the flat a bill is generated for.
type FlatLookup interface {
	GetFlat(ctx context.Context, id uint) (*property.Flat, error)
}

// UserLookup resolves bill recipients for email delivery.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*auth.User, error)
}

type Service interface {
	Generate(ctx context.Context, adminID uint, in GenerateInput) (*Bill, error)
	Update(ctx context.Context, adminID, id uint, in UpdateInput) (*Bill, error)
	MyBills(ctx context.Context, tenantID uint) ([]Bill, error)
	GetBill(ctx context.Context, callerID uint, role string, id uint) (*Bill, error)
	List(ctx context.Context, filter BillFilter) ([]Bill, error)

	// ApplyRewardDiscount adds amount to the discount of the tenant's most
	// recent bill that is not paid yet.
	ApplyRewardDiscount(ctx context.Context, tenantID uint, amount float64) (*Bill, error)
}

type service struct {
	repo     Repository
	flats    FlatLookup
	users    UserLookup
	notifier notification.Notifier
	auditSvc auditlog.Service
	log      *zap.Logger
}

func NewService(repo Repository, flats FlatLookup, users UserLookup, notifier notification.Notifier, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{
		repo:     repo,
		flats:    flats,
		users:    users,
		notifier: notifier,
		auditSvc: auditSvc,
		log:      log,
	}
}

// =============================
// Admin
// =============================

func (s *service) Generate(ctx context.Context, adminID uint, in GenerateInput) (*Bill, error) {
	flat, err := s.flats.GetFlat(ctx, in.FlatID)
	if err != nil {
		return nil, err
	}

	var tenantID uint
	switch {
	case in.TenantID != nil && *in.TenantID != 0:
		tenantID = *in.TenantID
	case flat.CurrentTenantID != nil:
		tenantID = *flat.CurrentTenantID
	default:
		return nil, apperrors.Validation("Tenant is required for billing")
	}
	if in.DueDate == nil || in.DueDate.IsZero() {
		return nil, apperrors.Validation("Due date is required")
	}

	bill := &Bill{
		FlatID:      flat.ID,
		TenantID:    tenantID,
		Month:       in.Month,
		Rent:        valueOr(in.Rent, flat.Rent),
		Electricity: valueOr(in.Electricity, 0),
		Gas:         valueOr(in.Gas, 0),
		Water:       valueOr(in.Water, 0),
		Maintenance: valueOr(in.Maintenance, flat.DefaultMaintenance),
		Cleaning:    valueOr(in.Cleaning, flat.DefaultCleaning),
		Garbage:     valueOr(in.Garbage, flat.DefaultGarbage),
		Discount:    in.Discount,
		DueDate:     in.DueDate.Time,
		Status:      StatusUnpaid,
		GeneratedBy: adminID,
	}
	if err := checkDiscount(*bill); err != nil {
		return nil, err
	}
	bill.Total = ComputeTotal(*bill)

	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, err
	}

	s.log.Info("🧾 Bill generated",
		zap.Uint("bill_id", bill.ID),
		zap.Uint("flat_id", bill.FlatID),
		zap.String("month", bill.Month),
		zap.Float64("total", bill.Total),
	)
	s.audit(ctx, adminID, "BILL_GENERATED", bill.ID, map[string]interface{}{
		"flat_id": bill.FlatID,
		"month":   bill.Month,
		"total":   bill.Total,
	})

	if tenant, err := s.users.FindByID(ctx, tenantID); err == nil {
		s.notifier.SendEmail(ctx, tenant.Email,
			notification.BillGeneratedEmail(tenant.FullName(), bill.Month, bill.Total, bill.DueDate))
	} else {
		s.log.Warn("⚠️ Bill tenant lookup failed", zap.Uint("tenant_id", tenantID), zap.Error(err))
	}
	s.notify(ctx, tenantID, notification.Message{
		Title:        "New Bill Generated",
		Message:      "Your bill for " + bill.Month + " has been generated.",
		Type:         notification.TypeInfo,
		Category:     notification.CategoryBill,
		RelatedID:    &bill.ID,
		RelatedModel: "Bill",
	})

	bill.Flat = flat
	return bill, nil
}

func (s *service) Update(ctx context.Context, adminID, id uint, in UpdateInput) (*Bill, error) {
	bill, err := s.repo.Mutate(ctx, id, func(b *Bill) error {
		if b.Status == StatusPaid {
			return apperrors.Conflict("A paid bill cannot be edited")
		}
		in.apply(b)
		if err := checkDiscount(*b); err != nil {
			return err
		}
		b.Total = ComputeTotal(*b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "BILL_UPDATED", bill.ID, map[string]interface{}{"total": bill.Total})
	return bill, nil
}

func (s *service) List(ctx context.Context, filter BillFilter) ([]Bill, error) {
	return s.repo.List(ctx, filter)
}

// =============================
// Tenant
// =============================

func (s *service) MyBills(ctx context.Context, tenantID uint) ([]Bill, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

func (s *service) GetBill(ctx context.Context, callerID uint, role string, id uint) (*Bill, error) {
	bill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != string(auth.RoleAdmin) && bill.TenantID != callerID {
		return nil, apperrors.Forbidden("Not authorized to view this bill")
	}
	return bill, nil
}

// =============================
// Rewards
// =============================

func (s *service) ApplyRewardDiscount(ctx context.Context, tenantID uint, amount float64) (*Bill, error) {
	latest, err := s.repo.LatestUnpaidForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.repo.Mutate(ctx, latest.ID, func(b *Bill) error {
		if b.Status == StatusPaid {
			return apperrors.Conflict("Bill was paid before the reward could be applied")
		}
		// The discount never takes the bill below zero.
		b.Discount += math.Max(0, math.Min(amount, ComputeTotal(*b)))
		b.Total = ComputeTotal(*b)
		return nil
	})
}

func (s *service) notify(ctx context.Context, userID uint, msg notification.Message) {
	if err := s.notifier.NotifyUser(ctx, userID, msg); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *service) audit(ctx context.Context, adminID uint, action string, billID uint, details map[string]interface{}) {
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: "bill",
		EntityID:   &billID,
		Details:    details,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
