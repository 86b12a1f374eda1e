package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoboard/internal/core/domain"
	"todoboard/internal/core/model/response"
)

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.MessageResponse{Message: message})
}

// SendError maps the domain error taxonomy onto HTTP statuses. Anything that
// is not an AppError is an unexpected failure and becomes a generic 500.
func SendError(c *gin.Context, err error) {
	var appErr *domain.AppError

	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, response.MessageResponse{Message: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, response.MessageResponse{Message: "Internal Server Error"})
}

func SendBadRequest(c *gin.Context, message string) {
	SendMessage(c, http.StatusBadRequest, message)
}

func SendUnauthorized(c *gin.Context, message string) {
	SendMessage(c, http.StatusUnauthorized, message)
}
