package auth

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/utils"
)

// ImageStore persists an uploaded image and returns its public URL.
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

// ===============================
// Registration / Login
// ===============================

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterInput true "Registration"
// @Success 201 {object} AuthResult
// @Failure 400 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusCreated, "User registered successfully", result)
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginInput true "Credentials"
// @Success 200 {object} AuthResult
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Login successful", result)
}

// ===============================
// Tokens
// ===============================

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body refreshRequest true "Refresh token"
// @Success 200 {object} TokenPair
// @Failure 401 {object} map[string]interface{}
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, pair)
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	All          bool   `json:"all"`
}

// Logout godoc
// @Summary Revoke a refresh token (or all of them)
// @Tags Auth
// @Accept json
// @Param body body logoutRequest false "Token to revoke"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req logoutRequest
	// An empty body is a valid logout.
	_ = c.ShouldBindJSON(&req)
	if c.Query("all") == "true" {
		req.All = true
	}

	if err := h.service.Logout(c.Request.Context(), utils.CurrentUserID(c), req.RefreshToken, req.All); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Logged out successfully", nil)
}

// ===============================
// Profile
// ===============================

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} User
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Respond(c, http.StatusOK, gin.H{"user": user})
}

// UpdateProfile godoc
// @Summary Update name and phone
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ProfileInput true "Profile fields"
// @Success 200 {object} User
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

// UpdateProfileImage godoc
// @Summary Upload a profile image
// @Tags Auth
// @Accept multipart/form-data
// @Produce json
// @Param profile formData file true "Image"
// @Success 200 {object} User
// @Security BearerAuth
// @Router /auth/profile/image [put]
func (h *Handler) UpdateProfileImage(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	fh, err := c.FormFile("profile")
	if err != nil {
		utils.RespondBindError(c, err)
		return
	}

	url, err := h.images.Save(fh, "profile", userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	user, err := h.service.UpdateProfileImage(c.Request.Context(), userID, url)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Profile image updated", gin.H{"user": user})
}

// ===============================
// Password reset
// ===============================

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary Email a password reset link
// @Tags Auth
// @Accept json
// @Param body body forgotPasswordRequest true "Email"
// @Success 200 {object} map[string]interface{}
// @Router /auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "If the email exists, a reset link has been sent", nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags Auth
// @Accept json
// @Param body body resetPasswordRequest true "Token and password"
// @Success 200 {object} map[string]interface{}
// @Router /auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Password has been reset successfully", nil)
}

// ===============================
// Admin
// ===============================

// ListUsers godoc
// @Summary List users
// @Tags Admin
// @Produce json
// @Param role query string false "Role filter"
// @Param search query string false "Username, email or name"
// @Success 200 {array} User
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": gin.H{"users": users}})
}

// UpdateUser godoc
// @Summary Change a user's role or flat
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body UpdateUserInput true "Fields"
// @Success 200 {object} User
// @Security BearerAuth
// @Router /admin/users/{id}/role [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var req UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondBindError(c, err)
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "User updated successfully", gin.H{"user": user})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags Admin
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondMessage(c, http.StatusOK, "User deleted successfully", nil)
}
