package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CatalogClient is the external movie-metadata API. Only the three calls the
// backend needs are modeled; everything else about the catalog stays opaque.
type CatalogClient interface {
	NowPlaying(ctx context.Context) ([]CatalogMovie, error)
	MovieDetails(ctx context.Context, movieID string) (*CatalogMovie, error)
	MovieCredits(ctx context.Context, movieID string) (*CatalogCredits, error)
}

// CatalogMovie is the catalog's movie representation, persisted verbatim
type CatalogMovie struct {
	ID               json.Number `json:"id"`
	Title            string      `json:"title"`
	Overview         string      `json:"overview"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	ReleaseDate      string      `json:"release_date"`
	OriginalLanguage string      `json:"original_language"`
	Tagline          string      `json:"tagline"`
	Genres           []Genre     `json:"genres"`
	VoteAverage      float64     `json:"vote_average"`
	Runtime          int         `json:"runtime"`
}

// CatalogCredits is the catalog's credits response
type CatalogCredits struct {
	Cast []CastMember `json:"cast"`
}

type catalogClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewCatalogClient builds a bearer-token catalog client. The timeout covers
// the whole request; the catalog is known to drop connections under load.
func NewCatalogClient(baseURL, token string, timeout time.Duration) CatalogClient {
	return &catalogClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *catalogClient) NowPlaying(ctx context.Context) ([]CatalogMovie, error) {
	var payload struct {
		Results []CatalogMovie `json:"results"`
	}
	if err := c.get(ctx, "/movie/now_playing", &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *catalogClient) MovieDetails(ctx context.Context, movieID string) (*CatalogMovie, error) {
	var movie CatalogMovie
	if err := c.get(ctx, "/movie/"+movieID, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *catalogClient) MovieCredits(ctx context.Context, movieID string) (*CatalogCredits, error) {
	var credits CatalogCredits
	if err := c.get(ctx, "/movie/"+movieID+"/credits", &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func (c *catalogClient) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog returned %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}
