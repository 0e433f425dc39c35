package middleware

import (
	"fmt"
	"net/http"

	"clients_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware turns panics and errors attached with c.Error into
// a 500 JSON response when the handler has not written a body itself.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.LogError(fmt.Errorf("%v", rec), "Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal Server Error",
					"message": "An unexpected error occurred",
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": err.Error(),
		})
	}
}
