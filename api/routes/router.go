// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cineshow/internal/bookings"
	"cineshow/internal/movies"
	"cineshow/internal/seats"
	"cineshow/internal/shared/config"
	"cineshow/internal/shared/database"
	"cineshow/internal/shows"
	"cineshow/internal/users"
	"cineshow/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies. The services it builds are exported so
// the entrypoint can hand them to the background worker and the notification
// publisher after HTTP wiring is done.
type Router struct {
	config *config.Config
	db     *database.DB

	MovieService   movies.Service
	ShowService    shows.Service
	BookingService bookings.Service
	UserService    users.Service
	SeatMap        seats.SeatMap
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupMovieRoutes(api)
		r.setupShowRoutes(api)
		r.setupBookingRoutes(api)
		r.setupWebhookRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cineshow-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cineshow-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupMovieRoutes(rg *gin.RouterGroup) {
	movieRepo := movies.NewRepository(r.db.GetPostgreSQL())
	catalog := movies.NewCatalogClient(r.config.Catalog.BaseURL, r.config.Catalog.Token, r.config.Catalog.Timeout)
	cacheService := cache.NewService(r.db.GetRedisClient())
	movieService := movies.NewService(movieRepo, catalog, cacheService)
	movieController := movies.NewController(movieService)

	r.MovieService = movieService

	movies.SetupMovieRoutes(rg, movieController, r.config)
}

func (r *Router) setupShowRoutes(rg *gin.RouterGroup) {
	showRepo := shows.NewRepository(r.db.GetPostgreSQL())
	cacheService := cache.NewService(r.db.GetRedisClient())
	showService := shows.NewService(showRepo, r.MovieService, cacheService)
	showController := shows.NewController(showService)

	r.ShowService = showService

	shows.SetupShowRoutes(rg, showController, r.config)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	seatMap := seats.NewSeatMap(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.ShowService, seatMap, r.config.Booking.GracePeriod)
	bookingController := bookings.NewController(bookingService)

	r.BookingService = bookingService
	r.SeatMap = seatMap

	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

func (r *Router) setupWebhookRoutes(rg *gin.RouterGroup) {
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	userService := users.NewService(userRepo)
	webhookController := users.NewWebhookController(userService, r.config.Webhook.IdentitySecret)

	r.UserService = userService

	users.SetupWebhookRoutes(rg, webhookController)
}
