package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/shared/apperror"
)

// Response là envelope chung cho mọi endpoint
type Response struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	ErrorCode  string      `json:"errorCode,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Success responses
// success flag được suy ra từ status code (< 400)
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		StatusCode: statusCode,
		Success:    statusCode < http.StatusBadRequest,
		Message:    message,
		Data:       data,
	})
}

// Error responses
func Error(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		StatusCode: statusCode,
		Success:    false,
		Message:    message,
		ErrorCode:  code,
		Details:    details,
	})
}

// FromError render error theo apperror taxonomy.
// Internal/upstream errors không lộ chi tiết ra client.
func FromError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := appErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	Error(c, status, string(appErr.Code), appErr.Message, nil)
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, string(apperror.CodeValidation), message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, string(apperror.CodeUnauthenticated), message, nil)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, string(apperror.CodeForbidden), message, nil)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, string(apperror.CodeNotFound), message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, string(apperror.CodeInternal), message, nil)
}
