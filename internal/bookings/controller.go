package bookings

import (
	"errors"
	"net/http"

	"cineshow/internal/seats"
	"cineshow/internal/shared/middleware"
	"cineshow/internal/shared/utils/response"
	"cineshow/internal/shows"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user identity")
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		var conflict *seats.ConflictError
		switch {
		case errors.As(err, &conflict):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Selected seats are not available", nil, conflict.Error())
		case errors.Is(err, shows.ErrShowNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, err.Error())
		case errors.Is(err, shows.ErrShowExpired):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Show has already started", nil, err.Error())
		case errors.Is(err, ErrInvalidInput):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking request", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("bookingId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := c.service.ConfirmPayment(ctx.Request.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
		case errors.Is(err, ErrAlreadyResolved):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Booking already resolved", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to confirm payment", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed successfully", booking, nil)
}

func (c *Controller) GetMyBookings(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, "missing user identity")
		return
	}

	bookings, err := c.service.GetUserBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func (c *Controller) GetOccupiedSeats(ctx *gin.Context) {
	showID, err := uuid.Parse(ctx.Param("showId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid show ID", nil, err.Error())
		return
	}

	occupied, err := c.service.OccupiedSeats(ctx.Request.Context(), showID)
	if err != nil {
		if errors.Is(err, shows.ErrShowNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Show not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get occupied seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Occupied seats retrieved successfully", occupied, nil)
}
