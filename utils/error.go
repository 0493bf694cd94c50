package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wheelstrust/database/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Error kinds carried in the envelope's type field.
const (
	KindValidation   = "ValidationError"
	KindNotFound     = "NotFound"
	KindForbidden    = "Forbidden"
	KindUnauthorized = "Unauthorized"
	KindDuplicateKey = "DuplicateKey"
	KindConflict     = "Conflict"
	KindRateLimited  = "RateLimited"
	KindServerError  = "ServerError"
)

// AppError is an error with a known HTTP status and envelope shape.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Wrap attaches an underlying cause to e.
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// FieldDetails names the offending field in an error's details.
type FieldDetails struct {
	Field string `json:"field"`
}

func ValidationError(message string, details any) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: KindValidation, Message: message, Details: details}
}

// MissingField is a ValidationError naming a required field.
func MissingField(field string) *AppError {
	return ValidationError(fmt.Sprintf("%s is required", field), FieldDetails{Field: field})
}

// InvalidField is a ValidationError naming a malformed field.
func InvalidField(field, message string) *AppError {
	return ValidationError(message, FieldDetails{Field: field})
}

func NotFound(resource string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: KindNotFound, Message: resource + " not found"}
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "Not authorized to perform this action"
	}
	return &AppError{Status: http.StatusForbidden, Code: KindForbidden, Message: message}
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return &AppError{Status: http.StatusUnauthorized, Code: KindUnauthorized, Message: message}
}

func DuplicateKey(message string) *AppError {
	if message == "" {
		message = "Duplicate field value entered"
	}
	return &AppError{Status: http.StatusBadRequest, Code: KindDuplicateKey, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: KindConflict, Message: message}
}

func RateLimited() *AppError {
	return &AppError{Status: http.StatusTooManyRequests, Code: KindRateLimited, Message: "Too many requests, please try again later"}
}

func ServerError(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: KindServerError, Message: "Server Error", Err: err}
}

// ErrorBody is the inner object of the error envelope.
type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ToAppError classifies any error into the taxonomy.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fromValidationErrors(verrs)
	}

	var (
		timeErr   *time.ParseError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NotFound("Resource")
	case errors.Is(err, repository.ErrDuplicate), mongo.IsDuplicateKeyError(err):
		return DuplicateKey("").Wrap(err)
	case errors.As(err, &timeErr):
		return ValidationError("Invalid date format", nil).Wrap(err)
	case errors.As(err, &typeErr):
		return InvalidField(typeErr.Field, fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type)).Wrap(err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ValidationError("Request body is not valid JSON", nil).Wrap(err)
	}
	return ServerError(err)
}

func fromValidationErrors(verrs validator.ValidationErrors) *AppError {
	fields := make([]map[string]string, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		msg := fmt.Sprintf("%s failed on %s", field, fe.Tag())
		if fe.Tag() == "required" {
			msg = field + " is required"
		}
		fields = append(fields, map[string]string{"field": field, "rule": fe.Tag()})
		messages = append(messages, msg)
	}
	return ValidationError(strings.Join(messages, ", "), fields).Wrap(verrs)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ErrorHandler recovers panics and renders the last error pushed with c.Error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", rec), zap.String("path", c.Request.URL.Path))
				writeError(c, ServerError(fmt.Errorf("panic: %v", rec)))
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, ToAppError(c.Errors.Last().Err))
	}
}

func writeError(c *gin.Context, appErr *AppError) {
	logger := GetLogger()
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(appErr.Message, zap.Error(appErr.Err), zap.String("path", c.Request.URL.Path))
	} else {
		logger.Debug(appErr.Message, zap.String("type", appErr.Code), zap.Int("status", appErr.Status))
	}
	c.JSON(appErr.Status, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    appErr.Status,
			Type:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// JSONError aborts the request with the given application error.
func JSONError(c *gin.Context, appErr *AppError) {
	writeError(c, appErr)
	c.Abort()
}
