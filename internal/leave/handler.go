package leave

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// Submit godoc
// @Summary Request to leave a flat
// @Description Start date must fall within the next calendar month.
// @Tags Leave
// @Accept json
// @Produce json
// @Param body body SubmitInput true "Leave request"
// @Success 201 {object} LeaveRequest
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leave [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	l, err := h.service.Submit(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Leave request submitted", gin.H{"leaveRequest": l})
}

// MyRequests godoc
// @Summary My leave requests
// @Tags Leave
// @Produce json
// @Success 200 {array} LeaveRequest
// @Security BearerAuth
// @Router /leave/my-requests [get]
func (h *Handler) MyRequests(c *gin.Context) {
	requests, err := h.service.MyRequests(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(requests), "data": gin.H{"leaveRequests": requests}})
}

// List godoc
// @Summary List leave requests
// @Tags Admin
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} LeaveRequest
// @Security BearerAuth
// @Router /admin/leave [get]
func (h *Handler) List(c *gin.Context) {
	requests, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(requests), "data": gin.H{"leaveRequests": requests}})
}

// Approve godoc
// @Summary Approve a leave request
// @Description Releases the tenant's flat.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Leave request ID"
// @Param body body DecisionInput false "Notes"
// @Success 200 {object} LeaveRequest
// @Security BearerAuth
// @Router /admin/leave/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req DecisionInput
	_ = c.ShouldBindJSON(&req)

	l, err := h.service.Approve(c.Request.Context(), utils.CurrentUserID(c), id, req.AdminNotes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Leave request approved", gin.H{"leaveRequest": l})
}

// Reject godoc
// @Summary Reject a leave request
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Leave request ID"
// @Param body body DecisionInput false "Notes"
// @Success 200 {object} LeaveRequest
// @Security BearerAuth
// @Router /admin/leave/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req DecisionInput
	_ = c.ShouldBindJSON(&req)

	l, err := h.service.Reject(c.Request.Context(), utils.CurrentUserID(c), id, req.AdminNotes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Leave request rejected", gin.H{"leaveRequest": l})
}
