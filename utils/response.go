package utils

import (
	"net/http"

	"wheelstrust/models"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK writes 200 with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

// Message writes status with a message and optional data.
func Message(c *gin.Context, status int, message string, data any) {
	c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

// Page writes a paginated list under key.
func Page(c *gin.Context, key string, items any, pagination models.Pagination) {
	OK(c, gin.H{key: items, "pagination": pagination})
}
