package payment

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
// @Summary Submit a bKash payment for a bill
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body SubmitInput true "Payment"
// @Success 201 {object} Payment
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	payment, err := h.service.Submit(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Payment submitted successfully. Awaiting verification.", gin.H{"payment": payment})
}

// MyPayments godoc
// @Summary My payments, newest first
// @Tags Payments
// @Produce json
// @Success 200 {array} Payment
// @Security BearerAuth
// @Router /payments/my-payments [get]
func (h *Handler) MyPayments(c *gin.Context) {
	payments, err := h.service.MyPayments(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(payments), "data": gin.H{"payments": payments}})
}

// GetPayment godoc
// @Summary Get a payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} Payment
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *Handler) GetPayment(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	payment, err := h.service.GetPayment(c.Request.Context(), utils.CurrentUserID(c), utils.CurrentRole(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"payment": payment})
}

// Pending godoc
// @Summary Payments awaiting verification, oldest first
// @Tags Admin
// @Produce json
// @Success 200 {array} Payment
// @Security BearerAuth
// @Router /admin/payments/pending [get]
func (h *Handler) Pending(c *gin.Context) {
	payments, err := h.service.Pending(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(payments), "data": gin.H{"payments": payments}})
}

// Verify godoc
// @Summary Verify a payment
// @Tags Admin
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} Payment
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/payments/{id}/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	payment, err := h.service.Verify(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Payment verified", gin.H{"payment": payment})
}

// Reject godoc
// @Summary Reject a payment
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param body body RejectInput true "Reason"
// @Success 200 {object} Payment
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/payments/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req RejectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	payment, err := h.service.Reject(c.Request.Context(), utils.CurrentUserID(c), id, req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Payment rejected", gin.H{"payment": payment})
}
