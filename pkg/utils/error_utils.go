package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response envelope keys. Existing consumers read these exact names.
const (
	KeyMessage       = "mensaje"
	KeyUploadMessage = "message"
	KeyError         = "error"
	KeyErrors        = "errors"
	KeyClient        = "client"
)

// RespondWithMessage sends {"mensaje": message}.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{KeyMessage: message})
}

// RespondWithError sends {"mensaje": message, "error": detail} and aborts.
func RespondWithError(c *gin.Context, statusCode int, message string, err error) {
	body := gin.H{KeyMessage: message}
	if err != nil {
		body[KeyError] = err.Error()
	}
	c.AbortWithStatusJSON(statusCode, body)
}

// RespondValidationFailed sends {"errors": [...]} with 400.
func RespondValidationFailed(c *gin.Context, errs []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{KeyErrors: errs})
}
