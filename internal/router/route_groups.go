package router

import (
	"clients_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(apiGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := apiGroup.Group("/clients")
	{
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/page/:page", clientHandler.GetClientsPage)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
		clientRoutes.POST("/upload", clientHandler.UploadPhoto)
	}
}

// SetupUploadRoutes sets up the photo download route.
func SetupUploadRoutes(apiGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	apiGroup.GET("/uploads/img/:filename", clientHandler.ViewPhoto)
}
