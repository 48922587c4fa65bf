package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope every endpoint returns.
// Success responses carry data; error responses carry the error detail.
type APIResponse[T any] struct {
	Status     string      `json:"status"` // "success" | "error"
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       T           `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:     "success",
		StatusCode: status,
		Message:    message,
		Data:       data,
		RequestID:  ctx.GetString("request_id"),
	})
}

func Error(ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[any]{
		Status:     "error",
		StatusCode: status,
		Message:    message,
		Error:      err,
		RequestID:  ctx.GetString("request_id"),
	})
}

// AbortError writes the error envelope and stops the handler chain.
func AbortError(ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Status:     "error",
		StatusCode: status,
		Message:    message,
		Error:      err,
		RequestID:  ctx.GetString("request_id"),
	})
}
