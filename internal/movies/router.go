package movies

import (
	"cineshow/internal/shared/config"
	"cineshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMovieRoutes registers movie routes. The now-playing proxy is the admin
// show-creation picker, so it sits behind the admin guard.
func SetupMovieRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	adminMovies := rg.Group("/movies")
	adminMovies.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminMovies.GET("/now-playing", ctrl.GetNowPlaying)
	}
}
