package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crimson-sun/langdetect/internal/model"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// internalMessage hides failure details from clients.
const internalMessage = "internal server error"

// MapError maps a detector error to an HTTP status and client message.
// Invalid input keeps its reason; everything else is an internal error.
func MapError(err error) (int, string) {
	var invalid *model.InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, invalid.Reason
	}
	return http.StatusInternalServerError, internalMessage
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// handleDetectError records err on the context for the request logger and
// writes the mapped response.
func handleDetectError(c *gin.Context, err error) {
	status, message := MapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	respondError(c, status, message)
}
