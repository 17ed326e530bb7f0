package employee

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

// ===== Admin =====

// Create godoc
// @Summary Create an employee from an existing user
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body CreateInput true "Employee"
// @Success 201 {object} Employee
// @Security BearerAuth
// @Router /admin/employees [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	e, err := h.service.Create(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusCreated, gin.H{"employee": e})
}

// List godoc
// @Summary List employees
// @Tags Admin
// @Produce json
// @Param department query string false "Department"
// @Param status query string false "active, inactive or on-leave"
// @Success 200 {array} Employee
// @Security BearerAuth
// @Router /admin/employees [get]
func (h *Handler) List(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context(), EmployeeFilter{
		Department: c.Query("department"),
		Status:     c.Query("status"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(employees), "data": gin.H{"employees": employees}})
}

// Update godoc
// @Summary Update an employee
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param body body UpdateInput true "Fields"
// @Success 200 {object} Employee
// @Security BearerAuth
// @Router /admin/employees/{id} [put]
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

	e, err := h.service.Update(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"employee": e})
}

// Delete godoc
// @Summary Delete an employee
// @Tags Admin
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/employees/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Employee deleted", nil)
}

// ListRaises godoc
// @Summary List salary raise requests
// @Tags Admin
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} SalaryRaise
// @Security BearerAuth
// @Router /admin/salary-raises [get]
func (h *Handler) ListRaises(c *gin.Context) {
	raises, err := h.service.ListRaises(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(raises), "data": gin.H{"raises": raises}})
}

// ApproveRaise godoc
// @Summary Approve a salary raise
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Raise ID"
// @Param body body RaiseDecisionInput false "Response"
// @Success 200 {object} SalaryRaise
// @Security BearerAuth
// @Router /admin/salary-raises/{id}/approve [post]
func (h *Handler) ApproveRaise(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req RaiseDecisionInput
	_ = c.ShouldBindJSON(&req)

	raise, err := h.service.ApproveRaise(c.Request.Context(), utils.CurrentUserID(c), id, req.AdminResponse)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Salary raise approved", gin.H{"raise": raise})
}

// RejectRaise godoc
// @Summary Reject a salary raise
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Raise ID"
// @Param body body RaiseDecisionInput false "Response"
// @Success 200 {object} SalaryRaise
// @Security BearerAuth
// @Router /admin/salary-raises/{id}/reject [post]
func (h *Handler) RejectRaise(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req RaiseDecisionInput
	_ = c.ShouldBindJSON(&req)

	raise, err := h.service.RejectRaise(c.Request.Context(), utils.CurrentUserID(c), id, req.AdminResponse)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Salary raise rejected", gin.H{"raise": raise})
}

// ===== Employee self service =====

// Profile godoc
// @Summary My employee profile
// @Tags Employees
// @Produce json
// @Success 200 {object} Employee
// @Security BearerAuth
// @Router /employees/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	e, err := h.service.Profile(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"employee": e})
}

// RequestRaise godoc
// @Summary Request a salary raise
// @Tags Employees
// @Accept json
// @Produce json
// @Param body body RaiseInput true "Raise"
// @Success 201 {object} SalaryRaise
// @Security BearerAuth
// @Router /employees/salary-raise [post]
func (h *Handler) RequestRaise(c *gin.Context) {
	var req RaiseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	raise, err := h.service.RequestRaise(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Salary raise request submitted successfully", gin.H{"raise": raise})
}

// MyRaises godoc
// @Summary My salary raise requests
// @Tags Employees
// @Produce json
// @Success 200 {array} SalaryRaise
// @Security BearerAuth
// @Router /employees/salary-raises [get]
func (h *Handler) MyRaises(c *gin.Context) {
	raises, err := h.service.MyRaises(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(raises), "data": gin.H{"raises": raises}})
}
