package problem

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/utils"
)

// maxProblemImages caps the attachments stored per report.
const maxProblemImages = 5

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
// @Summary Report a problem
// @Description Accepts JSON, or multipart with up to five images in the "problem" field.
// @Tags Problems
// @Accept json,mpfd
// @Produce json
// @Param body body SubmitInput true "Problem"
// @Success 201 {object} ProblemReport
// @Security BearerAuth
// @Router /problems [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitInput
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	userID := utils.CurrentUserID(c)
	var images []string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			utils.RespondBindError(c, err)
			return
		}
		files := form.File["problem"]
		if len(files) > maxProblemImages {
			files = files[:maxProblemImages]
		}
		for _, fh := range files {
			url, err := h.images.Save(fh, "problem", userID)
			if err != nil {
				utils.RespondError(c, err)
				return
			}
			images = append(images, url)
		}
	}

	p, err := h.service.Submit(c.Request.Context(), userID, req, images)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Problem reported", gin.H{"problem": p})
}

// MyReports godoc
// @Summary My problem reports
// @Tags Problems
// @Produce json
// @Success 200 {array} ProblemReport
// @Security BearerAuth
// @Router /problems/my-reports [get]
func (h *Handler) MyReports(c *gin.Context) {
	problems, err := h.service.MyReports(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(problems), "data": gin.H{"problems": problems}})
}

// Get godoc
// @Summary Get a problem report
// @Tags Problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} ProblemReport
// @Failure 403 {object} map[string]interface{}
// @Security BearerAuth
// @Router /problems/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	p, err := h.service.Get(c.Request.Context(), utils.CurrentUserID(c), utils.CurrentRole(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"problem": p})
}

// UpdateStatus godoc
// @Summary Move a problem report forward
// @Description assigned → in-progress → resolved by the assignee or an admin; admins may also close.
// @Tags Problems
// @Accept json
// @Produce json
// @Param id path int true "Problem ID"
// @Param body body StatusInput true "Status"
// @Success 200 {object} ProblemReport
// @Security BearerAuth
// @Router /problems/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req StatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	p, err := h.service.UpdateStatus(c.Request.Context(), utils.CurrentUserID(c), utils.CurrentRole(c), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Problem status updated", gin.H{"problem": p})
}

// AssignedToMe godoc
// @Summary Problems assigned to me
// @Tags Employees
// @Produce json
// @Success 200 {array} ProblemReport
// @Security BearerAuth
// @Router /employees/problems [get]
func (h *Handler) AssignedToMe(c *gin.Context) {
	problems, err := h.service.AssignedToMe(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(problems), "data": gin.H{"problems": problems}})
}

// List godoc
// @Summary List problem reports
// @Tags Admin
// @Produce json
// @Param status query string false "Status"
// @Param category query string false "Category"
// @Param priority query string false "Priority"
// @Success 200 {array} ProblemReport
// @Security BearerAuth
// @Router /admin/problems [get]
func (h *Handler) List(c *gin.Context) {
	problems, err := h.service.List(c.Request.Context(), ProblemFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(problems), "data": gin.H{"problems": problems}})
}

// Assign godoc
// @Summary Assign a problem to an employee
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Problem ID"
// @Param body body AssignInput true "Assignment"
// @Success 200 {object} ProblemReport
// @Security BearerAuth
// @Router /admin/problems/{id}/assign [post]
func (h *Handler) Assign(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req AssignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	p, err := h.service.Assign(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Problem assigned", gin.H{"problem": p})
}
