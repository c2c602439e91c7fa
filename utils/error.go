package utils

import (
	"errors"
	"net/http"

	"recicleaqui/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Code:    "INTERNAL",
					Message: "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code apperr.Code, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

// RespondError writes err as a JSON error. Domain errors keep their code,
// message and details; anything else is logged and answered with a
// generic 500.
func RespondError(c *gin.Context, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		JSONError(c, e.HTTPStatus(), e.Code, e.Message, e.Details)
		return
	}
	GetLogger().Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	JSONError(c, http.StatusInternalServerError, "INTERNAL", "Internal Server Error", nil)
}
