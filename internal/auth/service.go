package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/housefit/apartment-management-backend/config"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenTTL    = 15 * time.Minute
	resetTokenPrefix = "reset:"
)

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uint, refreshToken string, all bool) error

	// Authenticate resolves an access token to the current user record.
	Authenticate(ctx context.Context, accessToken string) (*User, error)

	Me(ctx context.Context, userID uint) (*User, error)
	UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*User, error)
	UpdateProfileImage(ctx context.Context, userID uint, imageURL string) (*User, error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	// Admin
	ListUsers(ctx context.Context, filter UserFilter) ([]User, error)
	UpdateUser(ctx context.Context, adminID, userID uint, in UpdateUserInput) (*User, error)
	DeleteUser(ctx context.Context, adminID, userID uint) error
	SeedAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo        Repository
	tokens      *tokenIssuer
	resetStore  TokenStore
	notifier    notification.Notifier
	auditSvc    auditlog.Service
	frontendURL string
	log         *zap.Logger
}

func NewService(repo Repository, resetStore TokenStore, notifier notification.Notifier, auditSvc auditlog.Service, cfg *config.Config, log *zap.Logger) Service {
	return &service{
		repo: repo,
		tokens: &tokenIssuer{
			accessSecret:  []byte(cfg.JWTAccessSecret),
			refreshSecret: []byte(cfg.JWTRefreshSecret),
			accessTTL:     cfg.JWTAccessTTL,
			refreshTTL:    cfg.JWTRefreshTTL,
			now:           time.Now,
		},
		resetStore:  resetStore,
		notifier:    notifier,
		auditSvc:    auditSvc,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		log:         log,
	}
}

// =============================
// Register / Login
// =============================

type RegisterInput struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"omitempty,bdphone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role := RoleVisitor
	if in.Role != "" {
		r, ok := ParseRole(strings.ToLower(in.Role))
		if !ok {
			return nil, apperrors.Validation("Invalid role")
		}
		if r == RoleAdmin {
			return nil, apperrors.Forbidden("Admin registration is not allowed")
		}
		role = r
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict(userExistsMsg)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if in.Phone != "" {
		phone := in.Phone
		user.Phone = &phone
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("👤 User registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &AuthResult{User: user, TokenPair: *pair}, nil
}

func (s *service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Unauthenticated("Invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	pair, err := s.issueAndStore(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, TokenPair: *pair}, nil
}

func (s *service) issueAndStore(ctx context.Context, user *User) (*TokenPair, error) {
	pair, refreshExp, err := s.tokens.issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.StoreRefreshToken(ctx, &RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(pair.RefreshToken),
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, err
	}
	return &pair, nil
}

// =============================
// Refresh / Logout
// =============================

// Refresh rotates the pair: the presented token is removed from the
// allow-list and a new one stored.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.parseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.ConsumeRefreshToken(ctx, claims.UserID, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Unauthenticated("Invalid refresh token")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthenticated("Invalid refresh token")
	}
	return s.issueAndStore(ctx, user)
}

func (s *service) Logout(ctx context.Context, userID uint, refreshToken string, all bool) error {
	if all {
		return s.repo.DeleteAllRefreshTokens(ctx, userID)
	}
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, userID, hashToken(refreshToken))
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	claims, err := s.tokens.parseAccess(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Unauthenticated("User not found. Authorization denied.").WithCode("TOKEN_INVALID")
		}
		return nil, err
	}
	return user, nil
}

// =============================
// Profile
// =============================

type ProfileInput struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,bdphone"`
}

func (s *service) Me(ctx context.Context, userID uint) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*User, error) {
	fields := map[string]interface{}{}
	if in.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfileImage(ctx context.Context, userID uint, imageURL string) (*User, error) {
	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"profile_image": imageURL}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

// =============================
// Password reset
// =============================

// ForgotPassword succeeds silently for unknown emails.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil
		}
		return err
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.resetStore.Set(ctx, resetTokenPrefix+token, strconv.FormatUint(uint64(user.ID), 10), resetTokenTTL); err != nil {
		return apperrors.Unavailable("Could not save reset token", err)
	}

	link := s.frontendURL + "/reset-password?token=" + token
	s.notifier.SendEmail(ctx, user.Email, notification.PasswordResetEmail(user.FirstName, link))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.Validation("Password must be at least 6 characters")
	}

	key := resetTokenPrefix + token
	val, err := s.resetStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return apperrors.Validation("Invalid or expired token")
		}
		return apperrors.Unavailable("Could not read reset token", err)
	}

	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return apperrors.Validation("Invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, uint(id), map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}

	_ = s.resetStore.Del(ctx, key)
	if err := s.repo.DeleteAllRefreshTokens(ctx, uint(id)); err != nil {
		s.log.Warn("⚠️ Failed to revoke refresh tokens after reset", zap.Uint64("user_id", id), zap.Error(err))
	}
	return nil
}

// =============================
// Admin user management
// =============================

type UpdateUserInput struct {
	Role   *string `json:"role"`
	FlatID *uint   `json:"flatId"`
}

func (s *service) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	if filter.Role != "" {
		if _, ok := ParseRole(filter.Role); !ok {
			return nil, apperrors.Validation("Invalid role")
		}
	}
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (s *service) UpdateUser(ctx context.Context, adminID, userID uint, in UpdateUserInput) (*User, error) {
	fields := map[string]interface{}{}
	details := map[string]interface{}{}
	if in.Role != nil {
		role, ok := ParseRole(*in.Role)
		if !ok {
			return nil, apperrors.Validation("Invalid role")
		}
		if adminID == userID && role != RoleAdmin {
			return nil, apperrors.Validation("You cannot change your own role")
		}
		fields["role"] = role
		details["role"] = role
	}
	if in.FlatID != nil {
		if *in.FlatID == 0 {
			fields["flat_id"] = nil
		} else {
			fields["flat_id"] = *in.FlatID
		}
		details["flat_id"] = *in.FlatID
	}
	if len(fields) == 0 {
		return nil, apperrors.Validation("Nothing to update")
	}

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	s.audit(ctx, adminID, "USER_UPDATED", userID, details)
	return s.repo.FindByID(ctx, userID)
}

func (s *service) DeleteUser(ctx context.Context, adminID, userID uint) error {
	if adminID == userID {
		return apperrors.Validation("You cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.audit(ctx, adminID, "USER_DELETED", userID, nil)
	return nil
}

// SeedAdmin creates the first admin account when none exists.
func (s *service) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	count, err := s.repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &User{
		Username:     "admin",
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		FirstName:    "System",
		LastName:     "Admin",
		IsVerified:   true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	s.log.Info("🔑 Admin account seeded", zap.String("email", admin.Email))
	return nil
}

func (s *service) audit(ctx context.Context, adminID uint, action string, userID uint, details map[string]interface{}) {
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &adminID,
		Action:     action,
		EntityType: "user",
		EntityID:   &userID,
		Details:    details,
	}); err != nil {
		s.log.Warn("⚠️ Audit log error", zap.Error(err))
	}
}
