package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse is the body of every AJAX endpoint response.
type StatusResponse struct {
	Status string `json:"status"`
}

func RespondWithStatus(c *gin.Context, statusCode int, status string) {
	c.JSON(statusCode, StatusResponse{Status: status})
}

func Unauthorized(c *gin.Context) {
	RespondWithStatus(c, http.StatusUnauthorized, StatusLoginRequired)
}

func InvalidRequest(c *gin.Context) {
	RespondWithStatus(c, http.StatusBadRequest, StatusInvalidRequest)
}

func NotFound(c *gin.Context, status string) {
	RespondWithStatus(c, http.StatusNotFound, status)
}

func InternalError(c *gin.Context) {
	RespondWithStatus(c, http.StatusInternalServerError, StatusUnexpected)
}
