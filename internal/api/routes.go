package api

import (
	"climblog/climbing-app/internal/service"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Profiles service.ProfileService
	Sessions service.SessionService
	Climbs   service.ClimbService
	Stats    service.StatsService
}

// NewRouter builds an engine with logging, recovery and CORS, and registers the routes.
func NewRouter(services Services, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:  corsOrigins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsOrigins) == 0 || (len(corsOrigins) == 1 && corsOrigins[0] == "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	SetupRoutes(router, services)
	return router
}

func SetupRoutes(router *gin.Engine, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	profileHandler := NewProfileHandler(services.Profiles)
	sessionHandler := NewSessionHandler(services.Sessions)
	climbHandler := NewClimbHandler(services.Climbs)
	statsHandler := NewStatsHandler(services.Stats)

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
		// --- Profile ---
		protected.GET("/me", profileHandler.GetMe)
		protected.PATCH("/me", profileHandler.UpdateMe)
		protected.DELETE("/me", profileHandler.DeleteMe)
		protected.POST("/me/profile-image/upload-url", profileHandler.RequestProfileImageURL)
		protected.POST("/me/profile-image/confirm", profileHandler.ConfirmProfileImage)

		// --- Open session ---
		sessionGroup := protected.Group("/session")
		{
			sessionGroup.GET("", sessionHandler.GetCurrentSession)
			sessionGroup.PATCH("", sessionHandler.UpdateCurrentSession)
			sessionGroup.POST("/climbs", climbHandler.LogClimb)
		}

		// --- Session history ---
		protected.GET("/sessions", sessionHandler.ListSessions)
		protected.GET("/sessions/:sessionId", sessionHandler.GetSession)

		// --- Climbs ---
		climbGroup := protected.Group("/climbs/:climbId")
		{
			climbGroup.PATCH("", climbHandler.UpdateClimb)
			climbGroup.DELETE("", climbHandler.DeleteClimb)
			climbGroup.POST("/image/upload-url", climbHandler.RequestClimbImageURL)
			climbGroup.POST("/image/confirm", climbHandler.ConfirmClimbImage)
		}

		protected.GET("/grades", climbHandler.GetGrades)
		protected.GET("/stats", statsHandler.GetStats)
	}
}
