package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxEmail  = "email"
)

// SetIdentity stores the authenticated caller on the gin context.
func SetIdentity(c *gin.Context, userID uint, email, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxEmail, email)
	c.Set(ctxRole, role)
}

// CurrentUserID returns the authenticated user's id, or 0.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// CurrentRole returns the authenticated user's role, or "".
func CurrentRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// ParseIDParam reads a positive numeric path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid " + name)
	}
	return uint(id), nil
}

// QueryInt reads an integer query parameter, falling back to def.
func QueryInt(c *gin.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return def
}
