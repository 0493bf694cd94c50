package handlers

import (
	"net/http"

	"wheelstrust/models"
	"wheelstrust/services/user"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var userFilters = utils.Filterable{
	"role":   utils.StringField,
	"status": utils.StringField,
	"email":  utils.StringField,
}

// UserHandler serves account administration.
type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(us user.UserService) *UserHandler {
	return &UserHandler{UserService: us}
}

// ListUsersHandler handles GET /users (admin).
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	q, ok := listQuery(c, userFilters)
	if !ok {
		return
	}
	users, page, err := h.UserService.ListUsers(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Page(c, "users", users, page)
}

// GetUserHandler handles GET /users/:id (self or admin).
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	u, err := h.UserService.GetUser(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, u)
}

// UpdateUserStatusHandler handles PATCH /users/:id/status (admin).
func (h *UserHandler) UpdateUserStatusHandler(c *gin.Context) {
	var req models.UserStatusUpdate
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.UserService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("User status changed", zap.String("userId", u.ID), zap.String("status", u.Status))
	utils.Message(c, http.StatusOK, "User status updated", u)
}

// DeleteUserHandler handles DELETE /users/:id (self or admin).
func (h *UserHandler) DeleteUserHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.UserService.DeleteUser(c.Request.Context(), actor(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("User deleted", zap.String("userId", id))
	utils.Message(c, http.StatusOK, "User deleted", nil)
}
