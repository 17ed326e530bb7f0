package billing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/utils"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// MyBills godoc
// @Summary My bills, newest month first
// @Tags Bills
// @Produce json
// @Success 200 {array} Bill
// @Security BearerAuth
// @Router /bills/my-bills [get]
func (h *Handler) MyBills(c *gin.Context) {
	bills, err := h.service.MyBills(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bills), "data": gin.H{"bills": bills}})
}

// GetBill godoc
// @Summary Get a bill
// @Tags Bills
// @Produce json
// @Param id path int true "Bill ID"
// @Success 200 {object} Bill
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bills/{id} [get]
func (h *Handler) GetBill(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	bill, err := h.service.GetBill(c.Request.Context(), utils.CurrentUserID(c), utils.CurrentRole(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"bill": bill})
}

// Generate godoc
// @Summary Generate a monthly bill
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body GenerateInput true "Bill"
// @Success 201 {object} Bill
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bills/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	bill, err := h.service.Generate(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Bill generated successfully", gin.H{"bill": bill})
}

// Update godoc
// @Summary Edit bill charges
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Bill ID"
// @Param body body UpdateInput true "Charges"
// @Success 200 {object} Bill
// @Security BearerAuth
// @Router /admin/bills/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	bill, err := h.service.Update(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Bill updated successfully", gin.H{"bill": bill})
}

// List godoc
// @Summary List bills
// @Tags Admin
// @Produce json
// @Param status query string false "unpaid, pending-verification or paid"
// @Param month query string false "YYYY-MM"
// @Param flatId query int false "Flat ID"
// @Success 200 {array} Bill
// @Security BearerAuth
// @Router /admin/bills [get]
func (h *Handler) List(c *gin.Context) {
	filter := BillFilter{Status: c.Query("status"), Month: c.Query("month")}
	if v, err := strconv.ParseUint(c.Query("flatId"), 10, 32); err == nil {
		id := uint(v)
		filter.FlatID = &id
	}

	bills, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(bills), "data": gin.H{"bills": bills}})
}
