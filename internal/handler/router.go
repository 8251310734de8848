package handler

import (
	"context"
	"net/http"
	"time"

	"hospital-locator/internal/config"
	"hospital-locator/internal/middleware"
	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "hospital-locator"

// Pinger reports document store reachability for the health check
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Search   *service.SearchService
	Accounts *service.AccountService
	Store    Pinger
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(cfg *config.Config, deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))

	searchHandler := NewSearchHandler(deps.Search)
	authHandler := NewAuthHandler(deps.Accounts)
	hospitalHandler := NewHospitalHandler(deps.Accounts)

	r.GET("/", func(c *gin.Context) {
		utils.MessageResponse(c, "Welcome to the hospital locator API")
	})
	r.GET("/health", health(deps.Store, deps.Logger))

	api := r.Group("/api")
	{
		api.GET("/find-suitable", searchHandler.FindSuitable)
		api.GET("/hospitals/nearby", searchHandler.Nearby)
	}

	// Hospital account routes
	hospital := r.Group("/hospital")
	{
		hospital.POST("/register", authHandler.Register)
		hospital.POST("/token", authHandler.Token)
		hospital.POST("/login", authHandler.Token)
	}

	authed := hospital.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Accounts))
	{
		authed.GET("/profile", hospitalHandler.GetProfile)
		authed.PATCH("/profile", hospitalHandler.UpdateProfile)
		authed.DELETE("/profile", hospitalHandler.Deactivate)
		authed.PATCH("/location", hospitalHandler.UpdateLocation)
		authed.PATCH("/capabilities", hospitalHandler.UpdateCapabilities)
	}

	return r
}

func health(store Pinger, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"data": gin.H{
					"status":   "degraded",
					"service":  serviceName,
					"database": "unavailable",
				},
			})
			return
		}

		utils.SuccessResponse(c, gin.H{
			"status":   "healthy",
			"service":  serviceName,
			"database": "connected",
		})
	}
}
