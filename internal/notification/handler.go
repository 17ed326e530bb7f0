package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/utils"
)

type Handler struct {
	service    Service
	subscriber Subscriber
}

func NewHandler(s Service, subscriber Subscriber) *Handler {
	return &Handler{service: s, subscriber: subscriber}
}

// List godoc
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications [get]
func (h *Handler) List(c *gin.Context) {
	items, unread, err := h.service.ListForUser(c.Request.Context(), utils.CurrentUserID(c), utils.CurrentRole(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{
		"notifications": items,
		"unreadCount":   unread,
	})
}

// MarkAsRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), id, utils.CurrentUserID(c), utils.CurrentRole(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllAsRead godoc
// @Summary Mark all my notifications as read
// @Tags Notifications
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.service.MarkAllAsRead(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": updated})
}

// Stream godoc
// @Summary Live notification stream (SSE)
// @Tags Notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	messages, closeSub := h.subscriber.Subscribe(ctx, UserChannel(userID), RoleChannel(role), RoleChannel(RoleAll))
	defer closeSub()

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	for {
		select {
		case payload, ok := <-messages:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: notification\n"))
			_, _ = c.Writer.Write([]byte("data: " + payload + "\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

type registerDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"omitempty,oneof=android ios web"`
}

// RegisterDevice godoc
// @Summary Register an FCM device token
// @Tags Notifications
// @Accept json
// @Param body body registerDeviceRequest true "Device token"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications/devices [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	if err := h.service.RegisterDevice(c.Request.Context(), utils.CurrentUserID(c), req.Token, req.Platform); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Device registered", nil)
}

// RemoveDevice godoc
// @Summary Remove an FCM device token
// @Tags Notifications
// @Param token path string true "Device token"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications/devices/{token} [delete]
func (h *Handler) RemoveDevice(c *gin.Context) {
	if err := h.service.RemoveDevice(c.Request.Context(), utils.CurrentUserID(c), c.Param("token")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Device removed", nil)
}

// Broadcast godoc
// @Summary Broadcast a notification to a role
// @Tags Admin
// @Accept json
// @Param body body BroadcastInput true "Broadcast"
// @Success 201 {object} Notification
// @Security BearerAuth
// @Router /admin/notifications/broadcast [post]
func (h *Handler) Broadcast(c *gin.Context) {
	var in BroadcastInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	in.SenderID = utils.CurrentUserID(c)

	n, err := h.service.Broadcast(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "Notification broadcast", gin.H{"notification": n})
}
