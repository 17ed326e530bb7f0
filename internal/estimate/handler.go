package estimate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/utils"
)

type Handler struct {
	service   Service
	ollamaURL string
}

func NewHandler(s Service, ollamaURL string) *Handler {
	return &Handler{service: s, ollamaURL: ollamaURL}
}

// FlatPrice godoc
// @Summary Estimate monthly rent for a flat
// @Tags Predict
// @Accept json
// @Produce json
// @Param body body FlatPriceInput true "Flat"
// @Success 200 {object} PriceResult
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /predict/flat-price [post]
func (h *Handler) FlatPrice(c *gin.Context) {
	var req FlatPriceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Area, bedrooms, and location are required",
		})
		return
	}

	result, err := h.service.PredictFlatPrice(c.Request.Context(), req)
	if err != nil {
		h.respondAIError(c, err, "Prediction service unavailable")
		return
	}
	utils.Respond(c, http.StatusOK, result)
}

// AreaSuggestion godoc
// @Summary Suggest a flat size for a budget
// @Description Falls back to market statistics when the model is unavailable.
// @Tags Predict
// @Accept json
// @Produce json
// @Param body body AreaSuggestionInput true "Budget"
// @Success 200 {object} AreaResult
// @Failure 500 {object} map[string]interface{}
// @Router /predict/area-suggestion [post]
func (h *Handler) AreaSuggestion(c *gin.Context) {
	var req AreaSuggestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Budget and bedrooms are required",
		})
		return
	}

	result, err := h.service.SuggestArea(c.Request.Context(), req)
	if err != nil {
		h.respondAIError(c, err, "Suggestion service unavailable")
		return
	}
	utils.Respond(c, http.StatusOK, result)
}

// BudgetFromArea godoc
// @Summary Suggest a monthly budget for a flat size
// @Description Falls back to market statistics when the model is unavailable.
// @Tags Predict
// @Accept json
// @Produce json
// @Param body body BudgetFromAreaInput true "Area"
// @Success 200 {object} BudgetResult
// @Failure 500 {object} map[string]interface{}
// @Router /predict/budget-from-area [post]
func (h *Handler) BudgetFromArea(c *gin.Context) {
	var req BudgetFromAreaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Area and bedrooms are required",
		})
		return
	}

	result, err := h.service.BudgetFromArea(c.Request.Context(), req)
	if err != nil {
		h.respondAIError(c, err, "Budget suggestion service unavailable")
		return
	}
	utils.Respond(c, http.StatusOK, result)
}

// Health godoc
// @Summary Check the text generation service
// @Tags Predict
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /predict/health [get]
func (h *Handler) Health(c *gin.Context) {
	status, err := h.service.Health(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":    false,
			"message":    "Ollama is not reachable",
			"data":       status,
			"suggestion": h.suggestion(),
		})
		return
	}
	utils.Respond(c, http.StatusOK, status)
}

func (h *Handler) respondAIError(c *gin.Context, err error, unavailableMsg string) {
	var parseErr *AIParseFailure
	switch {
	case errors.As(err, &parseErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "AI returned invalid JSON response",
		})
	case apperrors.Is(err, apperrors.KindDependencyUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":    false,
			"message":    unavailableMsg,
			"error":      err.Error(),
			"suggestion": h.suggestion(),
		})
	default:
		utils.RespondError(c, err)
	}
}

func (h *Handler) suggestion() string {
	return "Make sure Ollama is running at " + h.ollamaURL
}
