package problem

import (
	"context"
	"testing"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/employee"
	"github.com/housefit/apartment-management-backend/internal/notification/notificationtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	problems  map[uint]*ProblemReport
	employees map[uint]*employee.Employee
	nextID    uint
}

func (r *memRepo) Create(_ context.Context, p *ProblemReport) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.problems[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uint) (*ProblemReport, error) {
	p, ok := r.problems[id]
	if !ok {
		return nil, apperrors.NotFound(problemNotFoundMsg)
	}
	cp := *p
	if p.AssignedTo != nil {
		cp.Assignee = r.employees[*p.AssignedTo]
	}
	return &cp, nil
}

func (r *memRepo) ListByReporter(context.Context, uint) ([]ProblemReport, error) { return nil, nil }
func (r *memRepo) List(context.Context, ProblemFilter) ([]ProblemReport, error) { return nil, nil }

func (r *memRepo) ListByAssignee(_ context.Context, employeeID uint) ([]ProblemReport, error) {
	var out []ProblemReport
	for _, p := range r.problems {
		if p.AssignedTo != nil && *p.AssignedTo == employeeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memRepo) Assign(ctx context.Context, id, employeeID uint, _ time.Time, _ string) error {
	if err := r.Transition(ctx, id, []string{StatusOpen, StatusAssigned}, map[string]interface{}{"status": StatusAssigned}); err != nil {
		return err
	}
	r.problems[id].AssignedTo = &employeeID
	return nil
}

func (r *memRepo) Transition(_ context.Context, id uint, from []string, fields map[string]interface{}) error {
	p, ok := r.problems[id]
	if !ok {
		return apperrors.NotFound(problemNotFoundMsg)
	}
	if !contains(from, p.Status) {
		return apperrors.Conflict("Invalid status transition")
	}
	p.Status = fields["status"].(string)
	if _, ok := fields["resolved_at"]; ok {
		now := fixedNow
		p.ResolvedAt = &now
	}
	return nil
}

type userStub struct{}

func (userStub) FindByID(_ context.Context, id uint) (*auth.User, error) {
	flat := uint(7)
	return &auth.User{ID: id, FlatID: &flat}, nil
}

type employeeStub struct{ repo *memRepo }

func (s employeeStub) GetByID(_ context.Context, id uint) (*employee.Employee, error) {
	e, ok := s.repo.employees[id]
	if !ok {
		return nil, apperrors.NotFound("Employee not found")
	}
	return e, nil
}

func (s employeeStub) GetByUserID(_ context.Context, userID uint) (*employee.Employee, error) {
	for _, e := range s.repo.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return nil, apperrors.NotFound("Employee profile not found")
}

var fixedNow = time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)

const (
	reporterID     = uint(12)
	plumberUserID  = uint(40)
	inactiveUserID = uint(41)
)

func newTestService() (*memRepo, *notificationtest.Recorder, *auditlogtest.Recorder, Service) {
	repo := &memRepo{problems: map[uint]*ProblemReport{}}
	repo.employees = map[uint]*employee.Employee{
		1: {ID: 1, UserID: plumberUserID, Status: employee.StatusActive, User: &auth.User{ID: plumberUserID, Email: "plumber@example.com", FirstName: "Babul"}},
		2: {ID: 2, UserID: inactiveUserID, Status: employee.StatusInactive},
	}
	notifier := &notificationtest.Recorder{}
	audit := &auditlogtest.Recorder{}
	svc := NewService(repo, userStub{}, employeeStub{repo: repo}, notifier, audit, zap.NewNop()).(*service)
	svc.now = func() time.Time { return fixedNow }
	return repo, notifier, audit, svc
}

func report(t *testing.T, svc Service) *ProblemReport {
	t.Helper()
	p, err := svc.Submit(context.Background(), reporterID, SubmitInput{
		Category:    "plumbing",
		Title:       " Leaking pipe ",
		Description: "Kitchen sink pipe is leaking",
	}, nil)
	require.NoError(t, err)
	return p
}

func TestSubmit_Defaults(t *testing.T) {
	_, notifier, _, svc := newTestService()

	p := report(t, svc)

	assert.Equal(t, StatusOpen, p.Status)
	assert.Equal(t, PriorityMedium, p.Priority)
	assert.Equal(t, "Leaking pipe", p.Title)
	require.NotNil(t, p.FlatID)
	assert.Equal(t, uint(7), *p.FlatID)
	assert.NotNil(t, p.Images)
	require.Len(t, notifier.Roles, 1)
	assert.Equal(t, "New Problem Report", notifier.Roles[0].Msg.Title)
}

func TestAssign(t *testing.T) {
	_, notifier, audit, svc := newTestService()
	p := report(t, svc)

	assigned, err := svc.Assign(context.Background(), 1, p.ID, AssignInput{EmployeeID: 1})
	require.NoError(t, err)

	assert.Equal(t, StatusAssigned, assigned.Status)
	require.Len(t, notifier.Mails, 1)
	assert.Equal(t, "plumber@example.com", notifier.Mails[0].To)
	require.Len(t, notifier.Users, 1)
	assert.Equal(t, plumberUserID, notifier.Users[0].UserID)
	assert.Equal(t, []string{"PROBLEM_ASSIGNED"}, audit.Actions())
}

func TestAssign_InactiveEmployee(t *testing.T) {
	_, _, _, svc := newTestService()
	p := report(t, svc)

	_, err := svc.Assign(context.Background(), 1, p.ID, AssignInput{EmployeeID: 2})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = svc.Assign(context.Background(), 1, p.ID, AssignInput{EmployeeID: 9})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestStatusFlow_EmployeeThenAdmin(t *testing.T) {
	_, notifier, _, svc := newTestService()
	ctx := context.Background()
	p := report(t, svc)
	_, err := svc.Assign(ctx, 1, p.ID, AssignInput{EmployeeID: 1})
	require.NoError(t, err)

	// skipping in-progress is not allowed
	_, err = svc.UpdateStatus(ctx, plumberUserID, "employee", p.ID, StatusInput{Status: StatusResolved})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	got, err := svc.UpdateStatus(ctx, plumberUserID, "employee", p.ID, StatusInput{Status: StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)

	got, err = svc.UpdateStatus(ctx, plumberUserID, "employee", p.ID, StatusInput{Status: StatusResolved})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, got.Status)
	assert.NotNil(t, got.ResolvedAt)

	_, err = svc.UpdateStatus(ctx, plumberUserID, "employee", p.ID, StatusInput{Status: StatusClosed})
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	got, err = svc.UpdateStatus(ctx, 1, "admin", p.ID, StatusInput{Status: StatusClosed})
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got.Status)

	_, err = svc.UpdateStatus(ctx, 1, "admin", p.ID, StatusInput{Status: StatusClosed})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	// reporter hears about each step
	var titles []string
	for _, m := range notifier.Users {
		if m.UserID == reporterID {
			titles = append(titles, m.Msg.Title)
		}
	}
	assert.Len(t, titles, 3)
}

func TestUpdateStatus_OtherEmployeeForbidden(t *testing.T) {
	repo, _, _, svc := newTestService()
	ctx := context.Background()
	repo.employees[3] = &employee.Employee{ID: 3, UserID: 50, Status: employee.StatusActive}
	p := report(t, svc)
	_, err := svc.Assign(ctx, 1, p.ID, AssignInput{EmployeeID: 1})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, 50, "employee", p.ID, StatusInput{Status: StatusInProgress})
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestUpdateStatus_AdminClosesOpenReport(t *testing.T) {
	_, _, _, svc := newTestService()
	p := report(t, svc)

	got, err := svc.UpdateStatus(context.Background(), 1, "admin", p.ID, StatusInput{Status: StatusClosed, AdminNotes: "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got.Status)

	_, err = svc.Assign(context.Background(), 1, p.ID, AssignInput{EmployeeID: 1})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestGet_Visibility(t *testing.T) {
	_, _, _, svc := newTestService()
	ctx := context.Background()
	p := report(t, svc)
	_, err := svc.Assign(ctx, 1, p.ID, AssignInput{EmployeeID: 1})
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		userID uint
		role   string
		ok     bool
	}{
		{"reporter", reporterID, "tenant", true},
		{"assignee", plumberUserID, "employee", true},
		{"admin", 1, "admin", true},
		{"other tenant", 13, "tenant", false},
		{"unassigned employee", inactiveUserID, "employee", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Get(ctx, tc.userID, tc.role, p.ID)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
			}
		})
	}
}

func TestAssignedToMe(t *testing.T) {
	_, _, _, svc := newTestService()
	ctx := context.Background()
	p := report(t, svc)
	report(t, svc)
	_, err := svc.Assign(ctx, 1, p.ID, AssignInput{EmployeeID: 1})
	require.NoError(t, err)

	mine, err := svc.AssignedToMe(ctx, plumberUserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)

	_, err = svc.AssignedToMe(ctx, 999)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
