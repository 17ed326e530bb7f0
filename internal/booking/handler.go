package booking

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
// @Summary Request to book a flat
// @Tags Bookings
// @Accept json
// @Produce json
// @Param body body SubmitInput true "Booking"
// @Success 201 {object} BookingRequest
// @Security BearerAuth
// @Router /bookings [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	booking, err := h.service.Submit(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Booking request submitted", gin.H{"booking": booking})
}

// MyBookings godoc
// @Summary My booking requests
// @Tags Bookings
// @Produce json
// @Success 200 {array} BookingRequest
// @Security BearerAuth
// @Router /bookings/my-bookings [get]
func (h *Handler) MyBookings(c *gin.Context) {
	bookings, err := h.service.MyBookings(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bookings), "data": gin.H{"bookings": bookings}})
}

// List godoc
// @Summary List booking requests
// @Tags Admin
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} BookingRequest
// @Security BearerAuth
// @Router /admin/bookings [get]
func (h *Handler) List(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bookings), "data": gin.H{"bookings": bookings}})
}

// Approve godoc
// @Summary Approve a booking request
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param body body DecisionInput false "Response"
// @Success 200 {object} BookingRequest
// @Security BearerAuth
// @Router /admin/bookings/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject godoc
// @Summary Reject a booking request
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param body body DecisionInput false "Reason"
// @Success 200 {object} BookingRequest
// @Security BearerAuth
// @Router /admin/bookings/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *Handler) decide(c *gin.Context, approve bool) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req DecisionInput
	// The note is optional.
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	adminID := utils.CurrentUserID(c)
	if approve {
		booking, err := h.service.Approve(ctx, adminID, id, req.Text())
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.RespondMessage(c, http.StatusOK, "Booking approved", gin.H{"booking": booking})
		return
	}

	booking, err := h.service.Reject(ctx, adminID, id, req.Text())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Booking rejected", gin.H{"booking": booking})
}
