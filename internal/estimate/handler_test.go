package estimate

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ollamaURL = "http://127.0.0.1:11435"

func newRouter(gen *fakeGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(gen, inventory, zap.NewNop()), ollamaURL)

	r := gin.New()
	r.POST("/api/predict/flat-price", h.FlatPrice)
	r.POST("/api/predict/area-suggestion", h.AreaSuggestion)
	r.POST("/api/predict/budget-from-area", h.BudgetFromArea)
	r.GET("/api/predict/health", h.Health)
	return r
}

func do(r http.Handler, method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&buf).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

var (
	priceReq  = gin.H{"area": 1100, "bedrooms": 2, "location": "Dhanmondi"}
	areaReq   = gin.H{"budget": 27000, "bedrooms": 2}
	budgetReq = gin.H{"area": 1000, "bedrooms": 2}
)

func TestFlatPrice_ServiceDownIs503WithHint(t *testing.T) {
	w, body := do(newRouter(&fakeGenerator{err: errDown}), http.MethodPost, "/api/predict/flat-price", priceReq)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Prediction service unavailable", body["message"])
	assert.Equal(t, "Make sure Ollama is running at "+ollamaURL, body["suggestion"])
}

func TestInvalidReplyIs500OnEveryEndpoint(t *testing.T) {
	r := newRouter(&fakeGenerator{reply: "not json at all"})

	for path, payload := range map[string]interface{}{
		"/api/predict/flat-price":       priceReq,
		"/api/predict/area-suggestion":  areaReq,
		"/api/predict/budget-from-area": budgetReq,
	} {
		t.Run(path, func(t *testing.T) {
			w, body := do(r, http.MethodPost, path, payload)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "AI returned invalid JSON response", body["message"])
		})
	}
}

func TestSuggestions_ServiceDownFallsBack(t *testing.T) {
	r := newRouter(&fakeGenerator{err: errDown})

	w, body := do(r, http.MethodPost, "/api/predict/area-suggestion", areaReq)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["fallback"])

	w, body = do(r, http.MethodPost, "/api/predict/budget-from-area", budgetReq)
	require.Equal(t, http.StatusOK, w.Code)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, true, data["fallback"])
}

func TestFlatPrice_MissingFieldsIs400(t *testing.T) {
	w, body := do(newRouter(&fakeGenerator{}), http.MethodPost, "/api/predict/flat-price", gin.H{"area": 900})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Area, bedrooms, and location are required", body["message"])
}

func TestHealth(t *testing.T) {
	w, body := do(newRouter(&fakeGenerator{}), http.MethodGet, "/api/predict/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = do(newRouter(&fakeGenerator{err: errDown}), http.MethodGet, "/api/predict/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Make sure Ollama is running at "+ollamaURL, body["suggestion"])
}
