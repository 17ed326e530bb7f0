package leave

import (
	"context"
	"testing"
	"time"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/notification/notificationtest"
	"github.com/housefit/apartment-management-backend/internal/property"
	"github.com/housefit/apartment-management-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	requests map[uint]*LeaveRequest
	released []uint
	nextID   uint
}

func (r *memRepo) Create(_ context.Context, l *LeaveRequest) error {
	r.nextID++
	l.ID = r.nextID
	cp := *l
	r.requests[l.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uint) (*LeaveRequest, error) {
	l, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NotFound(leaveNotFoundMsg)
	}
	cp := *l
	cp.User = &auth.User{ID: l.UserID, Email: "tenant@example.com", FirstName: "Rina", LastName: "Akter"}
	return &cp, nil
}

func (r *memRepo) ListByUser(context.Context, uint) ([]LeaveRequest, error) { return nil, nil }
func (r *memRepo) List(context.Context, string) ([]LeaveRequest, error) { return nil, nil }

func (r *memRepo) review(id uint, fields map[string]interface{}) error {
	l, ok := r.requests[id]
	if !ok {
		return apperrors.NotFound(leaveNotFoundMsg)
	}
	if l.Status != StatusPending {
		return apperrors.Conflict(database.AlreadyReviewedMsg)
	}
	l.Status = fields["status"].(string)
	l.AdminNotes = fields["admin_notes"].(string)
	return nil
}

func (r *memRepo) Approve(_ context.Context, id uint, fields map[string]interface{}) error {
	if err := r.review(id, fields); err != nil {
		return err
	}
	r.released = append(r.released, r.requests[id].FlatID)
	return nil
}

func (r *memRepo) Reject(_ context.Context, id uint, fields map[string]interface{}) error {
	return r.review(id, fields)
}

type flatStub struct{}

func (flatStub) GetFlat(_ context.Context, id uint) (*property.Flat, error) {
	if id != 4 {
		return nil, apperrors.NotFound("Flat not found")
	}
	return &property.Flat{ID: 4, FlatNumber: "2A"}, nil
}

var fixedNow = time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC)

func newTestService() (*memRepo, *notificationtest.Recorder, *auditlogtest.Recorder, Service) {
	repo := &memRepo{requests: map[uint]*LeaveRequest{}}
	notifier := &notificationtest.Recorder{}
	audit := &auditlogtest.Recorder{}
	svc := NewService(repo, flatStub{}, notifier, audit, zap.NewNop()).(*service)
	svc.now = func() time.Time { return fixedNow }
	return repo, notifier, audit, svc
}

func date(t *testing.T, s string) *utils.Date {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return &utils.Date{Time: d}
}

func TestNextMonthWindow(t *testing.T) {
	start, end := nextMonthWindow(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestSubmit_DateWindow(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr string
	}{
		{"today", "2024-05-15", "2024-06-20", "Start date must be within the next calendar month"},
		{"last day of this month", "2024-05-31", "2024-06-20", "Start date must be within the next calendar month"},
		{"first of the month after", "2024-07-01", "2024-07-05", "Start date must be within the next calendar month"},
		{"end equals start", "2024-06-10", "2024-06-10", "End date must be after start date"},
		{"end before start", "2024-06-10", "2024-06-09", "End date must be after start date"},
		{"first of next month", "2024-06-01", "2024-06-02", ""},
		{"last of next month", "2024-06-30", "2024-07-15", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, svc := newTestService()
			l, err := svc.Submit(context.Background(), 12, SubmitInput{
				FlatID:    4,
				StartDate: date(t, tt.start),
				EndDate:   date(t, tt.end),
				Reason:    "Moving out",
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.KindValidation))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusPending, l.Status)
		})
	}
}

func TestSubmit_MissingFlat(t *testing.T) {
	_, _, _, svc := newTestService()

	_, err := svc.Submit(context.Background(), 12, SubmitInput{
		FlatID:    9,
		StartDate: date(t, "2024-06-01"),
		EndDate:   date(t, "2024-06-30"),
		Reason:    "Moving out",
	})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestApprove_ReleasesFlatAndEmails(t *testing.T) {
	repo, notifier, audit, svc := newTestService()
	l, err := svc.Submit(context.Background(), 12, SubmitInput{
		FlatID:    4,
		StartDate: date(t, "2024-06-01"),
		EndDate:   date(t, "2024-06-30"),
		Reason:    "Moving out",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), 1, l.ID, " ok ")
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "ok", approved.AdminNotes)
	assert.Equal(t, []uint{4}, repo.released)
	require.Len(t, notifier.Mails, 1)
	assert.Equal(t, "tenant@example.com", notifier.Mails[0].To)
	require.Len(t, notifier.Users, 1)
	assert.Equal(t, uint(12), notifier.Users[0].UserID)
	assert.Equal(t, []string{"LEAVE_APPROVED"}, audit.Actions())

	_, err = svc.Reject(context.Background(), 1, l.ID, "late")
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestReject_KeepsFlat(t *testing.T) {
	repo, notifier, _, svc := newTestService()
	l, err := svc.Submit(context.Background(), 12, SubmitInput{
		FlatID:    4,
		StartDate: date(t, "2024-06-01"),
		EndDate:   date(t, "2024-06-30"),
		Reason:    "Moving out",
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), 1, l.ID, "Lease runs until December")
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Empty(t, repo.released)
	assert.Empty(t, notifier.Mails)
	require.Len(t, notifier.Users, 1)
	assert.Contains(t, notifier.Users[0].Msg.Message, "Lease runs until December")
}
