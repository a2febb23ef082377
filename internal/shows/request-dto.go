package shows

type ShowInput struct {
	Date string   `json:"date" binding:"required"`
	Time []string `json:"time" binding:"required,min=1"`
}

type CreateShowsRequest struct {
	MovieID   string      `json:"movie_id" binding:"required"`
	Shows     []ShowInput `json:"shows" binding:"required,min=1,dive"`
	ShowPrice float64     `json:"show_price" binding:"required,gt=0"`
}
