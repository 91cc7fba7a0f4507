package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for successful API responses.
// Data is always present, even when nil.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorBody describes a failure inside ErrorResponse.
type ErrorBody struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
}

// ErrorResponse defines the uniform structure for failed API responses.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// Success writes a success envelope with the given status code.
func Success(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error writes a failure envelope and aborts the remaining handlers.
func Error(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Message:    message,
			Code:       code,
			StatusCode: status,
		},
	})
}

// RecoverInternalError is the panic handler given to the zap recovery
// middleware. The panic itself has already been logged.
func RecoverInternalError(ctx *gin.Context, _ any) {
	Error(ctx, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
