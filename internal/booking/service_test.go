package booking

import (
	"context"
	"sync"
	"testing"

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
	mu       sync.Mutex
	bookings map[uint]*BookingRequest
	visitor  *auth.User
	nextID   uint
}

func (r *memRepo) Create(_ context.Context, b *BookingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uint) (*BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.NotFound(bookingNotFoundMsg)
	}
	cp := *b
	cp.Visitor = r.visitor
	cp.Flat = &property.Flat{ID: b.FlatID, FlatNumber: "5C"}
	return &cp, nil
}

func (r *memRepo) ListByVisitor(context.Context, uint) ([]BookingRequest, error) { return nil, nil }
func (r *memRepo) List(context.Context, string) ([]BookingRequest, error) { return nil, nil }

func (r *memRepo) Review(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return apperrors.NotFound(bookingNotFoundMsg)
	}
	if b.Status != StatusPending {
		return apperrors.Conflict(database.AlreadyReviewedMsg)
	}
	b.Status = fields["status"].(string)
	b.AdminResponse = fields["admin_response"].(string)
	return nil
}

type flatStub struct{}

func (flatStub) GetFlat(_ context.Context, id uint) (*property.Flat, error) {
	if id != 3 {
		return nil, apperrors.NotFound("Flat not found")
	}
	return &property.Flat{ID: 3, FlatNumber: "5C"}, nil
}

func newTestService() (*memRepo, *notificationtest.Recorder, *auditlogtest.Recorder, Service) {
	repo := &memRepo{
		bookings: map[uint]*BookingRequest{},
		visitor:  &auth.User{ID: 30, Email: "visitor@example.com", FirstName: "Karim", LastName: "Hasan"},
	}
	notifier := &notificationtest.Recorder{}
	audit := &auditlogtest.Recorder{}
	return repo, notifier, audit, NewService(repo, flatStub{}, notifier, audit, zap.NewNop())
}

func TestSubmit_RequiresExistingFlat(t *testing.T) {
	_, _, _, svc := newTestService()

	_, err := svc.Submit(context.Background(), 30, SubmitInput{FlatID: 8})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestSubmit_PendingAndAdminsNotified(t *testing.T) {
	_, notifier, _, svc := newTestService()
	date, err := utils.ParseDate("2024-03-01")
	require.NoError(t, err)

	b, err := svc.Submit(context.Background(), 30, SubmitInput{FlatID: 3, Message: " visit please ", RequestedDate: &utils.Date{Time: date}})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "visit please", b.Message)
	require.NotNil(t, b.RequestedDate)
	require.Len(t, notifier.Roles, 1)
	assert.Equal(t, "admin", notifier.Roles[0].Role)
}

func TestApprove_EmailsVisitor(t *testing.T) {
	_, notifier, audit, svc := newTestService()
	b, err := svc.Submit(context.Background(), 30, SubmitInput{FlatID: 3})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), 1, b.ID, "Come at 5pm")
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "Come at 5pm", approved.AdminResponse)
	require.Len(t, notifier.Mails, 1)
	assert.Equal(t, "visitor@example.com", notifier.Mails[0].To)
	require.Len(t, notifier.Users, 1)
	assert.Equal(t, uint(30), notifier.Users[0].UserID)
	assert.Equal(t, []string{"BOOKING_APPROVED"}, audit.Actions())
}

func TestDecide_SecondDecisionConflicts(t *testing.T) {
	_, notifier, _, svc := newTestService()
	b, err := svc.Submit(context.Background(), 30, SubmitInput{FlatID: 3})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), 1, b.ID, "Flat no longer available")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), 1, b.ID, "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Empty(t, notifier.Mails)
}

func TestDecisionInput_Text(t *testing.T) {
	assert.Equal(t, "a", DecisionInput{AdminResponse: "a", Reason: "b"}.Text())
	assert.Equal(t, "b", DecisionInput{Reason: "b"}.Text())
}
