package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message is the body returned on every error response. Error classes are
// distinguished by status code only; the message is informational and never
// reveals which sub-case (missing vs. forbidden, self vs. unknown) occurred.
type Message struct {
	Message string `json:"message"`
}

// OK sends a 200 response with the payload serialized as-is. Collection
// endpoints must pass a non-nil (possibly empty) slice so clients always
// receive a JSON array.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error sends an error response with the given status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Message{Message: message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context, message string) {
	Error(c, http.StatusMethodNotAllowed, message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
