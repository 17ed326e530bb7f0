package property

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

// ===============================
// Buildings
// ===============================

// CreateBuilding godoc
// @Summary Create a building
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body BuildingInput true "Building"
// @Success 201 {object} Building
// @Security BearerAuth
// @Router /admin/buildings [post]
func (h *Handler) CreateBuilding(c *gin.Context) {
	var req BuildingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	building, err := h.service.CreateBuilding(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Building created successfully", gin.H{"building": building})
}

// ListBuildings godoc
// @Summary List buildings
// @Tags Buildings
// @Produce json
// @Success 200 {array} Building
// @Router /buildings [get]
// @Router /admin/buildings [get]
func (h *Handler) ListBuildings(c *gin.Context) {
	buildings, err := h.service.ListBuildings(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(buildings), "data": gin.H{"buildings": buildings}})
}

// GetBuilding godoc
// @Summary Get a building
// @Tags Buildings
// @Produce json
// @Param id path int true "Building ID"
// @Success 200 {object} Building
// @Router /buildings/{id} [get]
// @Router /admin/buildings/{id} [get]
func (h *Handler) GetBuilding(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	building, err := h.service.GetBuilding(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"building": building})
}

// UpdateBuilding godoc
// @Summary Update a building
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Building ID"
// @Param body body BuildingInput true "Building"
// @Success 200 {object} Building
// @Security BearerAuth
// @Router /admin/buildings/{id} [put]
func (h *Handler) UpdateBuilding(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req BuildingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	building, err := h.service.UpdateBuilding(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Building updated successfully", gin.H{"building": building})
}

// ===============================
// Flats (public)
// ===============================

// ListFlats godoc
// @Summary List flats
// @Tags Flats
// @Produce json
// @Param status query string false "available (default), occupied or maintenance"
// @Param minRent query number false "Minimum rent"
// @Param maxRent query number false "Maximum rent"
// @Param bedrooms query int false "Bedroom count"
// @Param buildingId query int false "Building ID"
// @Success 200 {array} Flat
// @Router /flats [get]
func (h *Handler) ListFlats(c *gin.Context) {
	filter := FlatFilter{Status: c.Query("status")}
	if v, err := strconv.ParseFloat(c.Query("minRent"), 64); err == nil {
		filter.MinRent = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxRent"), 64); err == nil {
		filter.MaxRent = &v
	}
	if v, err := strconv.Atoi(c.Query("bedrooms")); err == nil {
		filter.Bedrooms = &v
	}
	if v, err := strconv.ParseUint(c.Query("buildingId"), 10, 32); err == nil {
		id := uint(v)
		filter.BuildingID = &id
	}

	flats, err := h.service.ListFlats(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(flats), "data": gin.H{"flats": flats}})
}

// SearchFlats godoc
// @Summary Search available flats
// @Tags Flats
// @Produce json
// @Param q query string true "Flat number or description text"
// @Success 200 {array} Flat
// @Router /flats/search [get]
func (h *Handler) SearchFlats(c *gin.Context) {
	flats, err := h.service.SearchFlats(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(flats), "data": gin.H{"flats": flats}})
}

// GetFlat godoc
// @Summary Get a flat
// @Tags Flats
// @Produce json
// @Param id path int true "Flat ID"
// @Success 200 {object} Flat
// @Failure 404 {object} map[string]interface{}
// @Router /flats/{id} [get]
func (h *Handler) GetFlat(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	flat, err := h.service.GetFlat(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"flat": flat})
}

// ===============================
// Flats (owner)
// ===============================

// MyFlats godoc
// @Summary Flats I own
// @Tags Flats
// @Produce json
// @Success 200 {array} Flat
// @Security BearerAuth
// @Router /flats/my-flats [get]
func (h *Handler) MyFlats(c *gin.Context) {
	flats, err := h.service.MyFlats(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(flats), "data": gin.H{"flats": flats}})
}

// UpdateFare godoc
// @Summary Update the fare of a flat I own
// @Tags Flats
// @Accept json
// @Produce json
// @Param id path int true "Flat ID"
// @Param body body FareInput true "Fare"
// @Success 200 {object} Flat
// @Failure 403 {object} map[string]interface{}
// @Security BearerAuth
// @Router /flats/my-flats/{id}/fare [put]
func (h *Handler) UpdateFare(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req FareInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	flat, err := h.service.UpdateFare(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Flat fare updated successfully", gin.H{"flat": flat})
}

// ===============================
// Flats (admin)
// ===============================

// CreateFlat godoc
// @Summary Create a flat
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body FlatInput true "Flat"
// @Success 201 {object} Flat
// @Security BearerAuth
// @Router /admin/flats [post]
func (h *Handler) CreateFlat(c *gin.Context) {
	var req FlatInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	flat, err := h.service.CreateFlat(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Flat created successfully", gin.H{"flat": flat})
}

// UpdateFlat godoc
// @Summary Update a flat
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Flat ID"
// @Param body body FlatUpdate true "Fields to change"
// @Success 200 {object} Flat
// @Security BearerAuth
// @Router /admin/flats/{id} [put]
func (h *Handler) UpdateFlat(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req FlatUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	flat, err := h.service.UpdateFlat(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Flat updated successfully", gin.H{"flat": flat})
}

// DeleteFlat godoc
// @Summary Delete a flat
// @Tags Admin
// @Param id path int true "Flat ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/flats/{id} [delete]
func (h *Handler) DeleteFlat(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.service.DeleteFlat(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Flat deleted successfully", nil)
}

type assignTenantRequest struct {
	TenantID uint `json:"tenantId" binding:"required"`
}

// AssignTenant godoc
// @Summary Move a tenant into a flat
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Flat ID"
// @Param body body assignTenantRequest true "Tenant"
// @Success 200 {object} Flat
// @Security BearerAuth
// @Router /admin/flats/{id}/tenant [put]
func (h *Handler) AssignTenant(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req assignTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	flat, err := h.service.AssignTenant(c.Request.Context(), utils.CurrentUserID(c), id, req.TenantID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Tenant assigned successfully", gin.H{"flat": flat})
}
