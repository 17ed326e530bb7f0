package tree

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/billing"
	"github.com/housefit/apartment-management-backend/internal/estimate"
	"github.com/housefit/apartment-management-backend/internal/notification/notificationtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	trees  map[uint]*TreeSubmission
	points map[uint]int
	nextID uint
}

func (r *memRepo) Create(_ context.Context, t *TreeSubmission) error {
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.trees[t.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uint) (*TreeSubmission, error) {
	t, ok := r.trees[id]
	if !ok {
		return nil, apperrors.NotFound(treeNotFoundMsg)
	}
	cp := *t
	cp.User = &auth.User{ID: t.UserID, Email: "tenant@example.com", FirstName: "Nila"}
	return &cp, nil
}

func (r *memRepo) ListByUser(context.Context, uint) ([]TreeSubmission, error) { return nil, nil }
func (r *memRepo) List(context.Context, string, string) ([]TreeSubmission, error) { return nil, nil }

func (r *memRepo) Leaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	return []LeaderboardEntry{{ID: 12, TreePoints: r.points[12]}}, nil
}

func (r *memRepo) TopTenant(context.Context) (*LeaderboardEntry, error) {
	var best *LeaderboardEntry
	for id, pts := range r.points {
		if pts > 0 && (best == nil || pts > best.TreePoints) {
			best = &LeaderboardEntry{ID: id, TreePoints: pts}
		}
	}
	if best == nil {
		return nil, apperrors.NotFound("No eligible tenant")
	}
	return best, nil
}

func (r *memRepo) review(id uint, fields map[string]interface{}) (*TreeSubmission, error) {
	t, ok := r.trees[id]
	if !ok {
		return nil, apperrors.NotFound(treeNotFoundMsg)
	}
	if t.Status != StatusPending {
		return nil, apperrors.Conflict(database.AlreadyReviewedMsg)
	}
	t.Status = fields["status"].(string)
	t.AdminDecision = fields["admin_decision"].(string)
	return t, nil
}

func (r *memRepo) Approve(_ context.Context, id uint, points int, fields map[string]interface{}) error {
	t, err := r.review(id, fields)
	if err != nil {
		return err
	}
	t.PointsAwarded = fields["points_awarded"].(int)
	r.points[t.UserID] += points
	return nil
}

func (r *memRepo) Reject(_ context.Context, id uint, fields map[string]interface{}) error {
	_, err := r.review(id, fields)
	return err
}

type fakeClassifier struct {
	verdict *estimate.TreeVerdict
	err     error
}

func (f fakeClassifier) VerifyTree(context.Context) (*estimate.TreeVerdict, error) {
	return f.verdict, f.err
}

func (fakeClassifier) Model() string { return "llama2" }

type fakeRewards struct {
	bill    *billing.Bill
	err     error
	applied []float64
}

func (f *fakeRewards) ApplyRewardDiscount(_ context.Context, _ uint, amount float64) (*billing.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.applied = append(f.applied, amount)
	f.bill.Discount += amount
	f.bill.Total = billing.ComputeTotal(*f.bill)
	return f.bill, nil
}

var fixedNow = time.Date(2024, time.April, 20, 8, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *memRepo
	rewards  *fakeRewards
	notifier *notificationtest.Recorder
	audit    *auditlogtest.Recorder
	svc      Service
}

func newFixture(classifier Classifier) *fixture {
	f := &fixture{
		repo:     &memRepo{trees: map[uint]*TreeSubmission{}, points: map[uint]int{12: 0}},
		rewards:  &fakeRewards{bill: &billing.Bill{ID: 70, Month: "2024-04", Rent: 25000, Electricity: 2000, Gas: 500, Water: 300, Maintenance: 1000, Total: 28800}},
		notifier: &notificationtest.Recorder{},
		audit:    &auditlogtest.Recorder{},
	}
	svc := NewService(f.repo, classifier, f.rewards, f.notifier, f.audit, zap.NewNop(), 10, 1000).(*service)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

var genuine = fakeClassifier{verdict: &estimate.TreeVerdict{Classification: estimate.ClassLikelyGenuine, Confidence: 0.9, Reasoning: "soil visible"}}

func submit(t *testing.T, f *fixture) *TreeSubmission {
	t.Helper()
	sub, err := f.svc.Submit(context.Background(), 12, "/uploads/trees/tree_12_1.jpg", SubmitInput{Location: "Rooftop", PlantedDate: "2024-04-18"})
	require.NoError(t, err)
	return sub
}

func TestSubmit_StoresVerdict(t *testing.T) {
	f := newFixture(genuine)

	sub := submit(t, f)

	analysis := sub.AIAnalysis.Data()
	assert.Equal(t, estimate.ClassLikelyGenuine, analysis.Classification)
	assert.Equal(t, 0.9, analysis.Confidence)
	assert.Equal(t, "llama2", analysis.ModelUsed)
	assert.Equal(t, "2024-04", sub.Month)
	assert.Equal(t, StatusPending, sub.Status)
	require.NotNil(t, sub.PlantedDate)
}

func TestSubmit_ClassifierFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		reasoning    string
		parseFailure bool
	}{
		{"unavailable", apperrors.Unavailable("AI service unavailable", errors.New("refused")), unavailableReasoning, false},
		{"invalid reply", &estimate.AIParseFailure{Raw: "oops", Err: errors.New("bad")}, invalidReasoning, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(fakeClassifier{err: tt.err})

			sub := submit(t, f)

			analysis := sub.AIAnalysis.Data()
			assert.Equal(t, estimate.ClassUncertain, analysis.Classification)
			assert.Zero(t, analysis.Confidence)
			assert.Equal(t, tt.reasoning, analysis.Reasoning)
			assert.Equal(t, tt.parseFailure, analysis.ParseFailure)
		})
	}
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(genuine)

	_, err := f.svc.Submit(context.Background(), 12, "", SubmitInput{Location: "Roof"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = f.svc.Submit(context.Background(), 12, "/uploads/trees/x.jpg", SubmitInput{Location: "Roof", PlantedDate: "yesterday"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestApprove_AwardsPointsOnce(t *testing.T) {
	f := newFixture(genuine)
	sub := submit(t, f)

	approved, err := f.svc.Approve(context.Background(), 1, sub.ID, "Nice tree")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, 10, approved.PointsAwarded)
	assert.Equal(t, 10, f.repo.points[12])
	require.Len(t, f.notifier.Mails, 1)
	assert.Equal(t, []string{"TREE_APPROVED"}, f.audit.Actions())

	_, err = f.svc.Approve(context.Background(), 1, sub.ID, "again")
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, 10, f.repo.points[12])
}

func TestReject_NoPoints(t *testing.T) {
	f := newFixture(genuine)
	sub := submit(t, f)

	rejected, err := f.svc.Reject(context.Background(), 1, sub.ID, "Indoor plant")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Zero(t, f.repo.points[12])
	assert.Empty(t, f.notifier.Mails)
	require.Len(t, f.notifier.Users, 1)
	assert.Contains(t, f.notifier.Users[0].Msg.Message, "Indoor plant")

	_, err = f.svc.Approve(context.Background(), 1, sub.ID, "")
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Zero(t, f.repo.points[12])
}

func TestAwardTop(t *testing.T) {
	f := newFixture(genuine)

	_, err := f.svc.AwardTop(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	f.repo.points[12] = 30
	admin := uint(1)
	reward, err := f.svc.AwardTop(context.Background(), &admin)
	require.NoError(t, err)

	assert.Equal(t, uint(12), reward.Tenant.ID)
	assert.Equal(t, 1000.0, reward.Discount)
	assert.Equal(t, 27800.0, reward.Total)
	assert.Equal(t, []float64{1000}, f.rewards.applied)
	require.Len(t, f.notifier.Users, 1)
	assert.Equal(t, "Tree Points Reward Applied", f.notifier.Users[0].Msg.Title)
	assert.Equal(t, []string{"TREE_REWARD_APPLIED"}, f.audit.Actions())
}

func TestAwardTop_NoUnpaidBill(t *testing.T) {
	f := newFixture(genuine)
	f.repo.points[12] = 5
	f.rewards.err = apperrors.NotFound("No unpaid bill found for the tenant")

	_, err := f.svc.AwardTop(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Empty(t, f.notifier.Users)
}

func TestLeaderboard_Month(t *testing.T) {
	f := newFixture(genuine)

	month, entries, err := f.svc.Leaderboard(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2024-04", month)
	assert.Len(t, entries, 1)

	month, _, err = f.svc.Leaderboard(context.Background(), "2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", month)

	_, _, err = f.svc.Leaderboard(context.Background(), "January")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestStartRewardSchedule_Disabled(t *testing.T) {
	c, err := StartRewardSchedule("", nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = StartRewardSchedule("not a spec", nil, zap.NewNop())
	assert.Error(t, err)
}
