package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/utils"
)

// uploadHandler stores one image sent under the form field named by :field
// and returns its public URL.
//
// @Summary Upload an image
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param field path string true "Form field, also selects the folder (tree, flat, profile, problem)"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /upload/{field} [post]
func uploadHandler(uploader *utils.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		field := c.Param("field")
		fh, err := c.FormFile(field)
		if err != nil {
			utils.RespondError(c, apperrors.Validation("No file uploaded"))
			return
		}

		url, err := uploader.Save(fh, field, utils.CurrentUserID(c))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.RespondMessage(c, http.StatusCreated, "File uploaded successfully", gin.H{"url": url})
	}
}
