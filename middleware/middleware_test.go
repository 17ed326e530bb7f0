package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthenticator map[string]*auth.User

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*auth.User, error) {
	switch token {
	case "expired":
		return nil, apperrors.TokenExpired("Token expired. Please refresh your token.").WithCode("TOKEN_EXPIRED")
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, apperrors.Unauthenticated("Invalid token. Authorization denied.").WithCode("TOKEN_INVALID")
}

var users = fakeAuthenticator{
	"admin-token":   {ID: 1, Email: "admin@example.com", Role: auth.RoleAdmin},
	"visitor-token": {ID: 2, Email: "v@example.com", Role: auth.RoleVisitor},
	"tenant-token":  {ID: 3, Email: "t@example.com", Role: auth.RoleTenant},
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admin := r.Group("/api/admin", AuthMiddleware(users), RequireRole(auth.RoleAdmin))
	admin.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	r.POST("/api/bookings", AuthMiddleware(users), RequireCapability(CapSubmitBooking), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.GET("/api/notifications/stream", StreamAuthMiddleware(users), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func do(r http.Handler, method, path, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAdminRouteWithoutToken(t *testing.T) {
	w, body := do(newRouter(), http.MethodGet, "/api/admin/users", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No token provided. Authorization denied.", body["message"])
}

func TestAdminRouteAsVisitorIsForbidden(t *testing.T) {
	w, body := do(newRouter(), http.MethodGet, "/api/admin/users", "visitor-token")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Required role: admin", body["message"])
}

func TestAdminRouteAsAdmin(t *testing.T) {
	w, body := do(newRouter(), http.MethodGet, "/api/admin/users", "admin-token")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["user_id"])
}

func TestExpiredAndInvalidTokensCarryCodes(t *testing.T) {
	w, body := do(newRouter(), http.MethodGet, "/api/admin/users", "expired")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])

	w, body = do(newRouter(), http.MethodGet, "/api/admin/users", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", body["code"])
}

func TestCapabilityGate(t *testing.T) {
	r := newRouter()

	w, _ := do(r, http.MethodPost, "/api/bookings", "tenant-token")
	assert.Equal(t, http.StatusCreated, w.Code)

	w, body := do(r, http.MethodPost, "/api/bookings", "admin-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Required role: tenant", body["message"])
}

func TestVisitorCannotSubmitBooking(t *testing.T) {
	w, body := do(newRouter(), http.MethodPost, "/api/bookings", "visitor-token")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Access denied. Required role: tenant", body["message"])
}

func TestStreamAcceptsQueryToken(t *testing.T) {
	w, _ := do(newRouter(), http.MethodGet, "/api/notifications/stream?token=tenant-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCapabilityTable(t *testing.T) {
	assert.True(t, Can(auth.RoleAdmin, CapVerifyPayments))
	assert.False(t, Can(auth.RoleTenant, CapVerifyPayments))
	assert.True(t, Can(auth.RoleEmployee, CapUpdateProblem))
	assert.Equal(t, []auth.Role{auth.RoleAdmin, auth.RoleEmployee}, RolesWith(CapUpdateProblem))
	assert.Equal(t, []auth.Role{auth.RoleTenant}, RolesWith(CapSubmitBooking))
	assert.Empty(t, Capabilities[auth.RoleVisitor])

	for role := range Capabilities {
		_, ok := auth.ParseRole(string(role))
		assert.True(t, ok, "unknown role %q in capability table", role)
	}
}

func TestAuditMiddlewarePutsIPInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware())
	var got string
	r.GET("/", func(c *gin.Context) {
		got = auditlog.IPFrom(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", got)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
