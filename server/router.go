package server

import (
	"time"

	httpHandler "creator-ops/interfaces/http"
	"creator-ops/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health      httpHandler.IHealthHandler
	Integration httpHandler.IIntegrationHandler
	Sync        httpHandler.ISyncHandler
	Video       httpHandler.IVideoHandler
	Deal        httpHandler.IDealHandler
}

func InitiateRouter(h Handlers, secretKey string, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", h.Health.Healthz)
	router.GET("/auth/:provider/callback", h.Integration.Callback)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))

	integrations := api.Group("/integrations/:provider")
	{
		integrations.POST("/oauth/start", h.Integration.Start)
		integrations.GET("", h.Integration.Status)
		integrations.PUT("/keywords", h.Integration.UpdateKeywords)
		integrations.DELETE("", h.Integration.Disconnect)
	}

	api.POST("/youtube/sync", h.Sync.SyncYouTube)
	api.POST("/gmail/sync", h.Sync.SyncGmail)
	api.GET("/sync/events", h.Sync.Events)

	api.POST("/videos/:videoId/analyze", h.Video.Analyze)

	deals := api.Group("/deals")
	{
		deals.GET("", h.Deal.List)
		deals.POST("", h.Deal.Create)
		deals.PATCH("/:dealId/status", h.Deal.UpdateStatus)
		deals.POST("/:dealId/messages", h.Deal.AddMessage)
	}

	return router
}
