package reports

import (
	"context"
	"testing"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	bills      []BillReportRow
	start, end time.Time
}

func (r *stubRepo) GetBills(context.Context, string, string) ([]BillReportRow, error) {
	return r.bills, nil
}

func (r *stubRepo) GetPayments(_ context.Context, _ string, start, end time.Time) ([]PaymentReportRow, error) {
	r.start, r.end = start, end
	return nil, nil
}

func newTestService(repo *stubRepo, audit *auditlogtest.Recorder) *service {
	svc := NewService(repo, newTestExporter(), audit, zap.NewNop()).(*service)
	svc.now = func() time.Time { return time.Date(2024, time.April, 20, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportBills_Audited(t *testing.T) {
	audit := &auditlogtest.Recorder{}
	svc := newTestService(&stubRepo{bills: sampleBills()}, audit)

	file, err := svc.ExportBills(context.Background(), 1, BillReportRequest{Month: "2024-04", Format: FormatCSV})
	require.NoError(t, err)
	assert.NotEmpty(t, file.Data)

	require.Len(t, audit.Entries, 1)
	entry := audit.Entries[0]
	assert.Equal(t, "REPORT_DOWNLOADED", entry.Action)
	assert.Equal(t, auditlog.StatusSuccess, entry.Status)
	assert.Equal(t, 1, entry.Details["rows"])
	assert.Equal(t, file.Filename, entry.Details["filename"])
}

func TestExportPayments_BadRange(t *testing.T) {
	audit := &auditlogtest.Recorder{}
	svc := newTestService(&stubRepo{}, audit)

	_, err := svc.ExportPayments(context.Background(), 1, PaymentReportRequest{DateRange: DateRangeCustom, Format: FormatPDF})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Equal(t, []string{"REPORT_DOWNLOAD_FAILED"}, audit.Actions())
	assert.Equal(t, auditlog.StatusFailure, audit.Entries[0].Status)
}

func TestPayments_Window(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo, &auditlogtest.Recorder{})

	_, err := svc.Payments(context.Background(), PaymentReportRequest{DateRange: DateRangeMonthly})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), repo.start)

	_, err = svc.Payments(context.Background(), PaymentReportRequest{})
	require.NoError(t, err)
	assert.True(t, repo.start.IsZero())
}
