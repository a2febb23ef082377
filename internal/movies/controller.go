package movies

import (
	"cineshow/internal/shared/utils/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) GetNowPlaying(ctx *gin.Context) {
	movies, err := c.service.NowPlaying(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadGateway, "Failed to fetch now playing movies", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Now playing movies retrieved successfully", movies, nil)
}
