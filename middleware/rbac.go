package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/utils"
)

// RequireRole allows the request through only for the listed roles. It must
// run after AuthMiddleware.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := "Access denied. Required role: " + strings.Join(names, " or ")

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.RespondError(c, apperrors.Unauthenticated("Authentication required."))
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		utils.RespondError(c, apperrors.Forbidden(denied))
	}
}

// RequireCapability checks the caller's role against the capability table.
func RequireCapability(capability Capability) gin.HandlerFunc {
	return RequireRole(RolesWith(capability)...)
}
