package bookings

import (
	"cineshow/internal/shared/config"
	"cineshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	RegisterValidations()

	// Seat availability is public so the seat picker works before login
	publicBookings := rg.Group("/bookings")
	{
		publicBookings.GET("/seats/:showId", ctrl.GetOccupiedSeats)
	}

	userBookings := rg.Group("/bookings")
	userBookings.Use(middleware.JWTAuth(cfg))
	{
		userBookings.POST("", ctrl.CreateBooking)
		userBookings.GET("/me", ctrl.GetMyBookings)
		userBookings.POST("/:bookingId/pay", ctrl.ConfirmPayment)
	}
}
