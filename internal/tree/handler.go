package tree

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/utils"
)

type ImageStore interface {
	Save(fh *multipart.FileHeader, field string, userID uint) (string, error)
}

type Handler struct {
	service Service
	images  ImageStore
}

func NewHandler(s Service, images ImageStore) *Handler {
	return &Handler{service: s, images: images}
}

// Submit godoc
// @Summary Submit a planted tree for review
// @Description The photo is classified by the AI service; submission never fails because of it.
// @Tags Trees
// @Accept mpfd
// @Produce json
// @Param tree formData file true "Tree photo"
// @Param location formData string true "Location"
// @Param plantedDate formData string false "YYYY-MM-DD"
// @Success 201 {object} TreeSubmission
// @Security BearerAuth
// @Router /trees/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	fh, err := c.FormFile("tree")
	if err != nil {
		utils.RespondError(c, apperrors.Validation("Tree image is required"))
		return
	}

	userID := utils.CurrentUserID(c)
	url, err := h.images.Save(fh, "tree", userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	submission, err := h.service.Submit(c.Request.Context(), userID, url, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Tree submission created. Awaiting admin review.", gin.H{"submission": submission})
}

// MySubmissions godoc
// @Summary My tree submissions
// @Tags Trees
// @Produce json
// @Success 200 {array} TreeSubmission
// @Security BearerAuth
// @Router /trees/my-submissions [get]
func (h *Handler) MySubmissions(c *gin.Context) {
	submissions, err := h.service.MySubmissions(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(submissions), "data": gin.H{"submissions": submissions}})
}

// Leaderboard godoc
// @Summary Top tenants by tree points
// @Tags Trees
// @Produce json
// @Param month path string true "YYYY-MM"
// @Success 200 {array} LeaderboardEntry
// @Router /trees/leaderboard [get]
// @Router /trees/leaderboard/{month} [get]
func (h *Handler) Leaderboard(c *gin.Context) {
	month, entries, err := h.service.Leaderboard(c.Request.Context(), c.Param("month"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "month": month, "data": gin.H{"leaderboard": entries}})
}

// List godoc
// @Summary List tree submissions
// @Tags Admin
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param month query string false "YYYY-MM"
// @Success 200 {array} TreeSubmission
// @Security BearerAuth
// @Router /admin/trees [get]
func (h *Handler) List(c *gin.Context) {
	trees, err := h.service.List(c.Request.Context(), c.Query("status"), c.Query("month"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(trees), "data": gin.H{"trees": trees}})
}

// Approve godoc
// @Summary Approve a tree submission and award points
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param body body DecisionInput false "Decision"
// @Success 200 {object} TreeSubmission
// @Security BearerAuth
// @Router /admin/trees/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req DecisionInput
	_ = c.ShouldBindJSON(&req)

	t, err := h.service.Approve(c.Request.Context(), utils.CurrentUserID(c), id, req.AdminDecision)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Tree approved", gin.H{"tree": t})
}

// Reject godoc
// @Summary Reject a tree submission
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param body body DecisionInput false "Decision"
// @Success 200 {object} TreeSubmission
// @Security BearerAuth
// @Router /admin/trees/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req DecisionInput
	_ = c.ShouldBindJSON(&req)

	t, err := h.service.Reject(c.Request.Context(), utils.CurrentUserID(c), id, req.AdminDecision)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Tree rejected", gin.H{"tree": t})
}

// AwardTop godoc
// @Summary Apply the top-tenant tree reward
// @Tags Admin
// @Produce json
// @Success 200 {object} Reward
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/trees/award-top [post]
func (h *Handler) AwardTop(c *gin.Context) {
	adminID := utils.CurrentUserID(c)
	reward, err := h.service.AwardTop(c.Request.Context(), &adminID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Tree points reward applied", gin.H{"reward": reward})
}
