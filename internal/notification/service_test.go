package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	created []*Notification
	tokens  map[uint][]string
	saved   []*DeviceToken
	readErr error
}

func (r *fakeRepo) Create(_ context.Context, n *Notification) error {
	n.ID = uint(len(r.created) + 1)
	r.created = append(r.created, n)
	return nil
}

func (r *fakeRepo) ListVisible(context.Context, uint, string, int) ([]Notification, error) {
	return nil, nil
}

func (r *fakeRepo) CountUnread(context.Context, uint, string) (int64, error) { return 3, nil }

func (r *fakeRepo) MarkAsRead(context.Context, uint, uint, string) error { return r.readErr }

func (r *fakeRepo) MarkAllAsRead(context.Context, uint) (int64, error) { return 0, nil }

func (r *fakeRepo) SaveDeviceToken(_ context.Context, t *DeviceToken) error {
	r.saved = append(r.saved, t)
	return nil
}

func (r *fakeRepo) RemoveDeviceToken(context.Context, uint, string) error { return nil }

func (r *fakeRepo) DeviceTokensForUser(_ context.Context, userID uint) ([]string, error) {
	return r.tokens[userID], nil
}

type fakePublisher struct {
	channels []string
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, _ []byte) error {
	p.channels = append(p.channels, channel)
	return p.err
}

type fakePusher struct {
	tokens []string
}

func (p *fakePusher) Push(_ context.Context, tokens []string, _, _ string, _ map[string]string) error {
	p.tokens = append(p.tokens, tokens...)
	return nil
}

type fakeDispatcher struct {
	jobs []EmailJob
	err  error
}

func (d *fakeDispatcher) Enqueue(_ context.Context, job EmailJob) error {
	d.jobs = append(d.jobs, job)
	return d.err
}

type fixture struct {
	repo       *fakeRepo
	publisher  *fakePublisher
	pusher     *fakePusher
	dispatcher *fakeDispatcher
	audit      *auditlogtest.Recorder
	svc        Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:       &fakeRepo{tokens: map[uint][]string{}},
		publisher:  &fakePublisher{},
		pusher:     &fakePusher{},
		dispatcher: &fakeDispatcher{},
		audit:      &auditlogtest.Recorder{},
	}
	f.svc = NewService(f.repo, f.publisher, f.pusher, f.dispatcher, f.audit, zap.NewNop())
	return f
}

func TestNotifyUserStoresPublishesAndPushes(t *testing.T) {
	f := newFixture()
	f.repo.tokens[7] = []string{"tok-a", "tok-b"}

	err := f.svc.NotifyUser(context.Background(), 7, Message{
		Title:    "Payment Verified",
		Message:  "Your payment was verified",
		Type:     TypeSuccess,
		Category: CategoryPayment,
	})
	require.NoError(t, err)

	require.Len(t, f.repo.created, 1)
	n := f.repo.created[0]
	require.NotNil(t, n.RecipientID)
	assert.Equal(t, uint(7), *n.RecipientID)
	assert.Nil(t, n.RecipientRole)
	assert.Equal(t, []string{"notifications:user:7"}, f.publisher.channels)
	assert.Equal(t, []string{"tok-a", "tok-b"}, f.pusher.tokens)
}

func TestNotifyUserDefaultsUnknownTypeAndCategory(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.NotifyUser(context.Background(), 1, Message{Title: "t", Message: "m", Type: "loud", Category: "misc"}))

	assert.Equal(t, TypeInfo, f.repo.created[0].Type)
	assert.Equal(t, CategoryGeneral, f.repo.created[0].Category)
}

func TestNotifyUserIgnoresPublishFailure(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("redis down")

	assert.NoError(t, f.svc.NotifyUser(context.Background(), 1, Message{Title: "t", Message: "m"}))
	assert.Len(t, f.repo.created, 1)
}

func TestNotifyRolePublishesOnRoleChannel(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.NotifyRole(context.Background(), "admin", Message{Title: "New payment", Message: "Verify it"}))

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, "admin", *f.repo.created[0].RecipientRole)
	assert.Equal(t, []string{"notifications:role:admin"}, f.publisher.channels)
	assert.Empty(t, f.pusher.tokens)
}

func TestSendEmailSwallowsDispatchErrors(t *testing.T) {
	f := newFixture()
	f.dispatcher.err = errors.New("kafka unavailable")

	f.svc.SendEmail(context.Background(), "a@example.com", Email{Subject: "Hi", HTML: "<p>x</p>"})
	f.svc.SendEmail(context.Background(), "", Email{Subject: "skipped"})

	require.Len(t, f.dispatcher.jobs, 1)
	assert.Equal(t, "a@example.com", f.dispatcher.jobs[0].To)
}

func TestBroadcastDefaultsToAllAndAudits(t *testing.T) {
	f := newFixture()

	n, err := f.svc.Broadcast(context.Background(), BroadcastInput{Title: " Water outage ", Message: "Tomorrow 9-12", SenderID: 1})
	require.NoError(t, err)

	assert.Equal(t, RoleAll, *n.RecipientRole)
	assert.Equal(t, "Water outage", n.Title)
	assert.Equal(t, TypeInfo, n.Type)
	assert.Equal(t, CategoryGeneral, n.Category)
	assert.Equal(t, []string{"notifications:role:all"}, f.publisher.channels)
	assert.Equal(t, []string{"NOTIFICATION_BROADCAST"}, f.audit.Actions())
}

func TestBroadcastRejectsUnknownRole(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Broadcast(context.Background(), BroadcastInput{Title: "Rent", Message: "Due Friday", Role: "tennat", SenderID: 1})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Empty(t, f.publisher.channels)
	assert.Empty(t, f.audit.Actions())

	n, err := f.svc.Broadcast(context.Background(), BroadcastInput{Title: "Rent", Message: "Due Friday", Role: "tenant", SenderID: 1})
	require.NoError(t, err)
	assert.Equal(t, "tenant", *n.RecipientRole)
}

func TestBroadcastRejectsInvalidType(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Broadcast(context.Background(), BroadcastInput{Title: "x", Message: "y", Type: "shout"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Empty(t, f.repo.created)
}

func TestListForUserReturnsEmptySlice(t *testing.T) {
	f := newFixture()

	items, unread, err := f.svc.ListForUser(context.Background(), 1, "tenant")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Equal(t, int64(3), unread)
}

func TestMarkAsReadPassesThroughNotFound(t *testing.T) {
	f := newFixture()
	f.repo.readErr = apperrors.NotFound("Notification not found")

	err := f.svc.MarkAsRead(context.Background(), 9, 1, "tenant")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestRegisterDeviceRequiresToken(t *testing.T) {
	f := newFixture()

	err := f.svc.RegisterDevice(context.Background(), 1, "  ", "web")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	require.NoError(t, f.svc.RegisterDevice(context.Background(), 1, "abc", "android"))
	require.Len(t, f.repo.saved, 1)
	assert.Equal(t, "abc", f.repo.saved[0].Token)
}
