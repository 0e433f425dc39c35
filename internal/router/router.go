package router

import (
	"net/http"

	"clients_backend/internal/config"
	"clients_backend/internal/handlers"
	"clients_backend/internal/middleware"
	"clients_backend/internal/repositories"
	"clients_backend/internal/services"
	"clients_backend/internal/storage"
	"clients_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewEngine builds the gin engine with logging, metrics, error handling and
// CORS restricted to the configured origin. Logging and metrics come first so
// requests rejected by CORS are still recorded.
func NewEngine(cfg *config.Config) *gin.Engine {
	engine := gin.New()

	engine.Use(utils.GinLogger())
	engine.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.CORSAllowedOrigin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	engine.Use(cors.New(corsConfig))

	engine.Use(middleware.ErrorHandlerMiddleware())

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

// Setup initializes the application routes under /api.
func Setup(engine *gin.Engine, db *sqlx.DB, photos storage.PhotoStore, maxUploadBytes int64) {
	clientRepo := repositories.NewClientRepository(db)
	clientService := services.NewClientService(clientRepo, photos)
	clientHandler := handlers.NewClientHandler(clientService, maxUploadBytes)

	api := engine.Group("/api")
	SetupClientRoutes(api, clientHandler)
	SetupUploadRoutes(api, clientHandler)
}
