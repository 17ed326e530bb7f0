package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
)

// AccessClaims is carried by every access token.
type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func (t *tokenIssuer) issue(user *User) (TokenPair, time.Time, error) {
	now := t.now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	})
	accessToken, err := access.SignedString(t.accessSecret)
	if err != nil {
		return TokenPair{}, time.Time{}, err
	}

	refreshExp := now.Add(t.refreshTTL)
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	})
	refreshToken, err := refresh.SignedString(t.refreshSecret)
	if err != nil {
		return TokenPair{}, time.Time{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, refreshExp, nil
}

// parseAccess distinguishes an expired token from a malformed one.
func (t *tokenIssuer) parseAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.TokenExpired("Token expired. Please refresh your token.").WithCode("TOKEN_EXPIRED")
		}
		return nil, apperrors.Unauthenticated("Invalid token. Authorization denied.").WithCode("TOKEN_INVALID")
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, apperrors.Unauthenticated("Invalid token. Authorization denied.").WithCode("TOKEN_INVALID")
	}
	return claims, nil
}

func (t *tokenIssuer) parseRefresh(raw string) (*refreshClaims, error) {
	claims := &refreshClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.refreshSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.Unauthenticated("Invalid refresh token")
	}
	return claims, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
