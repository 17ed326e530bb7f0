package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs godoc
// @Summary List audit logs
// @Tags Admin
// @Produce json
// @Param user_id query int false "Filter by user ID"
// @Param action query string false "Filter by action (partial match)"
// @Param entity_type query string false "Filter by entity type"
// @Param status query string false "success or failure"
// @Param from_date query string false "YYYY-MM-DD"
// @Param to_date query string false "YYYY-MM-DD"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} PaginatedAuditLogs
// @Security BearerAuth
// @Router /admin/audit-logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		Status:     c.Query("status"),
		Page:       utils.QueryInt(c, "page", 1),
		Limit:      utils.QueryInt(c, "limit", 20),
	}

	if s := c.Query("user_id"); s != "" {
		if uid, err := strconv.ParseUint(s, 10, 32); err == nil {
			v := uint(uid)
			filter.UserID = &v
		}
	}

	if s := c.Query("from_date"); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			utils.RespondError(c, apperrors.Validation("Invalid from_date format. Use YYYY-MM-DD"))
			return
		}
		filter.FromDate = &from
	}
	if s := c.Query("to_date"); s != "" {
		to, err := time.Parse("2006-01-02", s)
		if err != nil {
			utils.RespondError(c, apperrors.Validation("Invalid to_date format. Use YYYY-MM-DD"))
			return
		}
		endOfDay := to.Add(24*time.Hour - time.Second)
		filter.ToDate = &endOfDay
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, result)
}

// GetAuditLogByID godoc
// @Summary Get one audit log
// @Tags Admin
// @Produce json
// @Param id path int true "Audit log ID"
// @Success 200 {object} AuditLogResponse
// @Security BearerAuth
// @Router /admin/audit-logs/{id} [get]
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	log, err := h.service.GetAuditLogByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, log)
}
