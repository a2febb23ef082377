package movies

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cineshow/internal/shared/constants"
	"cineshow/pkg/cache"
	"cineshow/pkg/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrMovieNotFound is returned when a movie id is neither stored locally nor
// resolvable through the catalog.
var ErrMovieNotFound = errors.New("movie not found")

type Service interface {
	// NowPlaying proxies the catalog's now-playing list for the admin UI.
	NowPlaying(ctx context.Context) ([]CatalogMovie, error)
	// GetOrFetch returns the locally stored movie, fetching and persisting
	// it from the catalog on first reference.
	GetOrFetch(ctx context.Context, movieID string) (*Movie, error)
	// GetByID returns the locally stored movie only.
	GetByID(ctx context.Context, movieID string) (*Movie, error)
}

type service struct {
	repo    Repository
	catalog CatalogClient
	cache   cache.Service
	logger  *logger.Logger
}

func NewService(repo Repository, catalog CatalogClient, cacheService cache.Service) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		cache:   cacheService,
		logger:  logger.GetDefault(),
	}
}

func (s *service) NowPlaying(ctx context.Context) ([]CatalogMovie, error) {
	var results []CatalogMovie
	err := s.cache.GetOrSet(ctx, constants.CacheKeyNowPlaying, constants.TTLNowPlaying, func() (interface{}, error) {
		fetched, err := s.catalog.NowPlaying(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch now playing movies: %w", err)
		}
		return fetched, nil
	}, &results)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *service) GetByID(ctx context.Context, movieID string) (*Movie, error) {
	movie, err := s.repo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return movie, nil
}

func (s *service) GetOrFetch(ctx context.Context, movieID string) (*Movie, error) {
	movie, err := s.repo.GetByID(ctx, movieID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	// First reference to this movie. Details and credits are independent
	// catalog calls, so issue them concurrently.
	var (
		details *CatalogMovie
		credits *CatalogCredits
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = s.catalog.MovieDetails(gctx, movieID)
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = s.catalog.MovieCredits(gctx, movieID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: catalog lookup for %s failed: %v", ErrMovieNotFound, movieID, err)
	}

	movie = &Movie{
		ID:               details.ID.String(),
		Title:            details.Title,
		Overview:         details.Overview,
		PosterPath:       details.PosterPath,
		BackdropPath:     details.BackdropPath,
		ReleaseDate:      details.ReleaseDate,
		OriginalLanguage: details.OriginalLanguage,
		Tagline:          details.Tagline,
		Genres:           GenreList(details.Genres),
		VoteAverage:      details.VoteAverage,
		Runtime:          details.Runtime,
		Casts:            CastList(credits.Cast),
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to store movie: %w", err)
	}
	s.logger.InfoWithContext(ctx, "Movie fetched from catalog", map[string]interface{}{
		"movie_id": movie.ID,
		"title":    movie.Title,
	})
	return movie, nil
}
