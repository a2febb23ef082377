package shows

import (
	"cineshow/internal/shared/config"
	"cineshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupShowRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	// Public routes - anyone can browse screenings
	publicShows := rg.Group("/shows")
	{
		publicShows.GET("", ctrl.GetShows)
		publicShows.GET("/:movieId", ctrl.GetMovieShows)
	}

	// Admin routes - scheduling screenings
	adminShows := rg.Group("/shows")
	adminShows.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminShows.POST("", ctrl.CreateShows)
	}
}
