package shows

import (
	"errors"
	"net/http"

	"cineshow/internal/movies"
	"cineshow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateShows(ctx *gin.Context) {
	var req CreateShowsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.CreateShows(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid show data", nil, err.Error())
		case errors.Is(err, movies.ErrMovieNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, err.Error())
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create shows", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Shows created successfully", result, nil)
}

func (c *Controller) GetShows(ctx *gin.Context) {
	moviesWithShows, err := c.service.GetShows(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get shows", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Shows retrieved successfully", moviesWithShows, nil)
}

func (c *Controller) GetMovieShows(ctx *gin.Context) {
	movieID := ctx.Param("movieId")
	if movieID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Movie ID is required", nil, "missing movie ID")
		return
	}

	result, err := c.service.GetMovieShows(ctx.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Movie not found", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get movie shows", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Movie shows retrieved successfully", result, nil)
}
