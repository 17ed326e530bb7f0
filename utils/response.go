package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"go.uber.org/zap"
)

// Respond writes the success envelope.
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// RespondMessage writes the success envelope with a message.
func RespondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// RespondError maps err to its status and writes the error envelope.
// Unexpected errors are logged and surfaced as 500 with the raw message.
func RespondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := kind.HTTPStatus()

	if kind == apperrors.KindUnexpected {
		if logger, ok := c.Get("logger"); ok {
			if l, ok := logger.(*zap.Logger); ok {
				l.Error("❌ request failed",
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			}
		}
		c.AbortWithStatusJSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	var appErr *apperrors.Error
	errors.As(err, &appErr)

	body := gin.H{"success": false, "message": appErr.Message}
	if appErr.Code != "" {
		body["code"] = appErr.Code
	} else if kind == apperrors.KindTokenExpired {
		body["code"] = kind.String()
	}
	c.AbortWithStatusJSON(status, body)
}

// RespondBindError reports a request-binding failure as a validation error.
func RespondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}
