package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/housefit/apartment-management-backend/config"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog/auditlogtest"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"github.com/housefit/apartment-management-backend/internal/notification/notificationtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	mu      sync.Mutex
	users   map[uint]*User
	refresh map[string]RefreshToken
	nextID  uint
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[uint]*User{}, refresh: map[string]RefreshToken{}}
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return apperrors.Conflict(userExistsMsg)
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

func (r *memRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("User not found")
	}
	for k, v := range fields {
		switch k {
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "profile_image":
			u.ProfileImage = v.(string)
		case "role":
			u.Role = v.(Role)
		case "phone":
			p := v.(string)
			u.Phone = &p
		}
	}
	return nil
}

func (r *memRepo) List(context.Context, UserFilter) ([]User, error) { return nil, nil }

func (r *memRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memRepo) CountByRole(_ context.Context, role Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) StoreRefreshToken(_ context.Context, t *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh[t.TokenHash] = *t
	return nil
}

func (r *memRepo) ConsumeRefreshToken(_ context.Context, userID uint, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.refresh[hash]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(r.refresh, hash)
	return true, nil
}

func (r *memRepo) DeleteRefreshToken(_ context.Context, _ uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refresh, hash)
	return nil
}

func (r *memRepo) DeleteAllRefreshTokens(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.refresh {
		if t.UserID == userID {
			delete(r.refresh, k)
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    7 * 24 * time.Hour,
		FrontendURL:      "http://localhost:5173/",
	}
}

type authFixture struct {
	repo  *memRepo
	store TokenStore
	mails *notificationtest.Recorder
	audit *auditlogtest.Recorder
	svc   *service
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		repo:  newMemRepo(),
		store: NewMemoryTokenStore(),
		mails: &notificationtest.Recorder{},
		audit: &auditlogtest.Recorder{},
	}
	f.svc = NewService(f.repo, f.store, f.mails, f.audit, testConfig(), zap.NewNop()).(*service)
	return f
}

func registerInput(username, email string) RegisterInput {
	return RegisterInput{
		Username:  username,
		Email:     email,
		Password:  "secret123",
		FirstName: "Rahim",
		LastName:  "Uddin",
	}
}

func TestRegisterDefaultsToVisitorAndIssuesTokens(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.Register(context.Background(), registerInput("rahim", "Rahim@Example.com"))
	require.NoError(t, err)

	assert.Equal(t, RoleVisitor, res.User.Role)
	assert.Equal(t, "rahim@example.com", res.User.Email)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Len(t, f.repo.refresh, 1)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	f := newAuthFixture()
	in := registerInput("boss", "boss@example.com")
	in.Role = "admin"

	_, err := f.svc.Register(context.Background(), in)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), registerInput("other", "rahim@example.com"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, userExistsMsg, err.Error())
}

func TestLoginWrongPasswordIsUnauthenticated(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "rahim@example.com", Password: "wrong"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))

	res, err := f.svc.Login(context.Background(), LoginInput{Email: "rahim@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "rahim", res.User.Username)
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture()
	res, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)

	pair, err := f.svc.Refresh(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, pair.RefreshToken)

	// The consumed token is no longer on the allow-list.
	_, err = f.svc.Refresh(context.Background(), res.RefreshToken)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture()
	res, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), res.AccessToken)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
}

func TestLogoutAllRevokesEveryRefreshToken(t *testing.T) {
	f := newAuthFixture()
	res, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)
	_, err = f.svc.Login(context.Background(), LoginInput{Email: "rahim@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Len(t, f.repo.refresh, 2)

	require.NoError(t, f.svc.Logout(context.Background(), res.User.ID, "", true))
	assert.Empty(t, f.repo.refresh)
}

func TestAuthenticateDistinguishesExpiredAndInvalid(t *testing.T) {
	f := newAuthFixture()
	res, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)

	user, err := f.svc.Authenticate(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	_, err = f.svc.Authenticate(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))

	f.svc.tokens.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = f.svc.Authenticate(context.Background(), res.AccessToken)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindTokenExpired))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture()

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, f.mails.Mails)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "rahim@example.com"))
	require.Len(t, f.mails.Mails, 1)
	html := f.mails.Mails[0].HTML
	i := strings.Index(html, "token=")
	require.Greater(t, i, 0)
	token := html[i+len("token=") : i+len("token=")+32]
	assert.Contains(t, html, "http://localhost:5173/reset-password?token=")

	require.NoError(t, f.svc.ResetPassword(context.Background(), token, "newsecret"))
	assert.Empty(t, f.repo.refresh, "reset revokes refresh tokens")

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "rahim@example.com", Password: "newsecret"})
	assert.NoError(t, err)

	err = f.svc.ResetPassword(context.Background(), token, "again123")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation), "token is single use")
}

func TestUpdateUserChangesRoleAndAudits(t *testing.T) {
	f := newAuthFixture()
	res, err := f.svc.Register(context.Background(), registerInput("rahim", "rahim@example.com"))
	require.NoError(t, err)

	role := "tenant"
	user, err := f.svc.UpdateUser(context.Background(), 99, res.User.ID, UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, RoleTenant, user.Role)
	assert.Equal(t, []string{"USER_UPDATED"}, f.audit.Actions())

	bad := "superuser"
	_, err = f.svc.UpdateUser(context.Background(), 99, res.User.ID, UpdateUserInput{Role: &bad})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.DeleteUser(context.Background(), 1, 1)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestSeedAdminOnlyOnce(t *testing.T) {
	f := newAuthFixture()

	require.NoError(t, f.svc.SeedAdmin(context.Background(), "admin@housefit.local", "admin123"))
	require.NoError(t, f.svc.SeedAdmin(context.Background(), "admin@housefit.local", "admin123"))

	n, _ := f.repo.CountByRole(context.Background(), RoleAdmin)
	assert.Equal(t, int64(1), n)
}

func TestEveryRoleCanReceiveBroadcasts(t *testing.T) {
	for _, r := range allRoles {
		assert.True(t, notification.IsValidRecipientRole(string(r)), r)
	}
}
