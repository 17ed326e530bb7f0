package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-05-03T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("03/05/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var body struct {
		From Date  `json:"from"`
		To   *Date `json:"to"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"from":"2024-06-01","to":null}`), &body))
	assert.Equal(t, "2024-06", MonthKey(body.From.Time))
	assert.True(t, body.To == nil || body.To.IsZero())

	out, err := json.Marshal(body.From)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-01"`, string(out))
}

func TestMonthAndPhonePatterns(t *testing.T) {
	assert.True(t, IsValidMonth("2024-12"))
	assert.False(t, IsValidMonth("2024-13"))
	assert.False(t, IsValidMonth("24-01"))

	assert.True(t, IsValidPhone("01712345678"))
	assert.False(t, IsValidPhone("+8801712345678"))
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperrors.Validation("Month is required"), http.StatusBadRequest, "Month is required"},
		{"conflict is 400", apperrors.Conflict("Bill already paid"), http.StatusBadRequest, "Bill already paid"},
		{"wrapped not found", fmt.Errorf("load: %w", apperrors.NotFound("Bill not found")), http.StatusNotFound, "Bill not found"},
		{"forbidden", apperrors.Forbidden("Not your bill"), http.StatusForbidden, "Not your bill"},
		{"unavailable", apperrors.Unavailable("AI service is not running", errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "AI service is not running"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondError(c, tt.err)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}
