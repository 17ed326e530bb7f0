package reports

import (
	"context"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"go.uber.org/zap"
)

type Service interface {
	Bills(ctx context.Context, req BillReportRequest) ([]BillReportRow, error)
	ExportBills(ctx context.Context, userID uint, req BillReportRequest) (*File, error)
	Payments(ctx context.Context, req PaymentReportRequest) ([]PaymentReportRow, error)
	ExportPayments(ctx context.Context, userID uint, req PaymentReportRequest) (*File, error)
}

type service struct {
	repo     Repository
	exporter Exporter
	auditSvc auditlog.Service
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, exporter Exporter, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{
		repo:     repo,
		exporter: exporter,
		auditSvc: auditSvc,
		log:      log,
		now:      time.Now,
	}
}

// ===============================
// Bills
// ===============================

func (s *service) Bills(ctx context.Context, req BillReportRequest) ([]BillReportRow, error) {
	return s.repo.GetBills(ctx, req.Month, req.Status)
}

func (s *service) ExportBills(ctx context.Context, userID uint, req BillReportRequest) (*File, error) {
	details := map[string]interface{}{
		"report_type": ReportTypeBills,
		"format":      req.Format,
		"month":       req.Month,
		"status":      req.Status,
	}

	rows, err := s.Bills(ctx, req)
	if err != nil {
		s.audit(ctx, userID, details, err)
		return nil, err
	}
	file, err := s.exporter.Bills(req.Format, rows)
	if err != nil {
		s.audit(ctx, userID, details, err)
		return nil, apperrors.Validation(err.Error())
	}

	details["filename"] = file.Filename
	details["rows"] = len(rows)
	s.audit(ctx, userID, details, nil)
	return file, nil
}

// ===============================
// Payments
// ===============================

func (s *service) Payments(ctx context.Context, req PaymentReportRequest) ([]PaymentReportRow, error) {
	start, end, err := GetDateRange(s.now(), req.DateRange, req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.repo.GetPayments(ctx, req.Status, start, end)
}

func (s *service) ExportPayments(ctx context.Context, userID uint, req PaymentReportRequest) (*File, error) {
	details := map[string]interface{}{
		"report_type": ReportTypePayments,
		"format":      req.Format,
		"status":      req.Status,
		"date_range":  req.DateRange,
	}

	rows, err := s.Payments(ctx, req)
	if err != nil {
		s.audit(ctx, userID, details, err)
		return nil, err
	}
	file, err := s.exporter.Payments(req.Format, rows)
	if err != nil {
		s.audit(ctx, userID, details, err)
		return nil, apperrors.Validation(err.Error())
	}

	details["filename"] = file.Filename
	details["rows"] = len(rows)
	s.audit(ctx, userID, details, nil)
	return file, nil
}

func (s *service) audit(ctx context.Context, userID uint, details map[string]interface{}, failure error) {
	action, status := "REPORT_DOWNLOADED", auditlog.StatusSuccess
	if failure != nil {
		action, status = "REPORT_DOWNLOAD_FAILED", auditlog.StatusFailure
		details["error"] = failure.Error()
	}
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &userID,
		Action:     action,
		EntityType: "report",
		Details:    details,
		Status:     status,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
