package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/utils"
)

// Authenticator resolves an access token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.User, error)
}

// AuthMiddleware requires a valid bearer token and stores the user in the
// context under "user" and "user_id".
func AuthMiddleware(a Authenticator) gin.HandlerFunc {
	return authenticate(a, false)
}

// StreamAuthMiddleware also accepts ?token= since EventSource cannot set
// request headers.
func StreamAuthMiddleware(a Authenticator) gin.HandlerFunc {
	return authenticate(a, true)
}

func authenticate(a Authenticator, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			utils.RespondError(c, apperrors.Unauthenticated("No token provided. Authorization denied."))
			return
		}

		user, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		c.Set("user", user)
		utils.SetIdentity(c, user.ID, user.Email, string(user.Role))
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*auth.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	u, ok := v.(*auth.User)
	return u, ok
}
