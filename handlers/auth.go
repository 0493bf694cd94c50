package handlers

import (
	"net/http"

	"wheelstrust/models"
	"wheelstrust/services/user"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and the current account.
type AuthHandler struct {
	UserService user.UserService
}

func NewAuthHandler(us user.UserService) *AuthHandler {
	return &AuthHandler{UserService: us}
}

// RegisterHandler handles POST /auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("User registered", zap.String("userId", resp.User.ID))
	utils.Message(c, http.StatusCreated, "User registered successfully", resp)
}

// LoginHandler handles POST /auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, resp)
}

// MeHandler handles GET /auth/me.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	a := actor(c)
	u, err := h.UserService.GetUser(c.Request.Context(), a, a.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, u)
}

// UpdateMeHandler handles PUT /auth/me.
func (h *AuthHandler) UpdateMeHandler(c *gin.Context) {
	var req models.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.UserService.UpdateProfile(c.Request.Context(), actor(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Profile updated", u)
}

// ChangePasswordHandler handles PUT /auth/password.
func (h *AuthHandler) ChangePasswordHandler(c *gin.Context) {
	var req models.PasswordChange
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.ChangePassword(c.Request.Context(), actor(c), req); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Password updated", nil)
}

// UpdateFCMTokenHandler handles PUT /auth/me/fcm-token.
func (h *AuthHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req models.FCMTokenUpdate
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.SetFCMToken(c.Request.Context(), actor(c), req.Token); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Push token registered", nil)
}
