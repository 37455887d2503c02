package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithFieldErrors returns a field-keyed message map, used by
// validation failures that concern specific request fields.
func RespondWithFieldErrors(c *gin.Context, statusCode int, fields gin.H) {
	c.JSON(statusCode, fields)
}
