package api

import (
	"net/http"

	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func SetupRoutes(router *gin.Engine, services service.Services) {
	authHandler := NewAuthHandler(services.Auth)
	profileHandler := NewProfileHandler(services.Profiles)
	planHandler := NewPlanHandler(services.Plans)
	progressHandler := NewProgressHandler(services.Progress)
	analyticsHandler := NewAnalyticsHandler(services.Analytics, services.Reports)
	chatHandler := NewChatHandler(services.Chat)

	authMiddleware := AuthMiddleware(services.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/me/profile", profileHandler.GetProfile)
		protected.PUT("/me/profile", profileHandler.SaveProfile)

		planGroup := protected.Group("/plan")
		{
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("", planHandler.GetPlan)
			planGroup.GET("/days/:date", planHandler.GetDay)
		}

		// Writes are accepted for today only; other dates answer 403.
		logGroup := protected.Group("/logs")
		{
			logGroup.GET("", progressHandler.ListLogs)
			logGroup.GET("/:date/defaults", progressHandler.GetDefaults)
			logGroup.PUT("/:date", progressHandler.SaveLog)
			logGroup.POST("/:date/items/:key/toggle", progressHandler.ToggleItem)
			logGroup.POST("/:date/water", progressHandler.AdjustWater)
		}

		protected.GET("/analytics/summary", analyticsHandler.Summary)
		protected.GET("/analytics/chart", analyticsHandler.Chart)
		protected.GET("/reports/:range", analyticsHandler.Report)

		protected.GET("/chat", chatHandler.History)
		protected.POST("/chat", chatHandler.Send)
	}
}

// WithCORS wraps the router for browser clients on the given origins.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(h)
}
