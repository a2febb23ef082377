package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cineshow/internal/movies"
	"cineshow/internal/shared/constants"
	"cineshow/pkg/cache"
	"cineshow/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrShowNotFound = errors.New("show not found")
	// ErrShowExpired marks a show whose start time has already passed.
	ErrShowExpired = errors.New("show has already started")
	// ErrInvalidInput marks a create request with no usable show slots.
	ErrInvalidInput = errors.New("no valid show times in request")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Notifier announces a newly scheduled movie. Implemented by the
// notifications package; declared here to avoid a circular dependency.
type Notifier interface {
	ShowAdded(ctx context.Context, movieID, movieTitle string) error
}

type Service interface {
	// SetNotifier injects the notification publisher; wired after
	// construction to avoid a circular dependency.
	SetNotifier(notifier Notifier)
	CreateShows(ctx context.Context, req CreateShowsRequest) (*CreateShowsResponse, error)
	// GetShows returns the distinct movies that have at least one upcoming
	// screening, ordered by earliest screening.
	GetShows(ctx context.Context) ([]movies.Movie, error)
	// GetMovieShows returns a movie with its upcoming screenings grouped by
	// date.
	GetMovieShows(ctx context.Context, movieID string) (*MovieShowsResponse, error)
	GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error)
	ListStartingBetween(ctx context.Context, start, end time.Time) ([]Show, error)
}

type service struct {
	repo         Repository
	movieService movies.Service
	cacheService cache.Service
	notifier     Notifier
	logger       *logger.Logger
}

func NewService(repo Repository, movieService movies.Service, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		movieService: movieService,
		cacheService: cacheService,
		logger:       logger.GetDefault(),
	}
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) CreateShows(ctx context.Context, req CreateShowsRequest) (*CreateShowsResponse, error) {
	if req.ShowPrice <= 0 {
		return nil, fmt.Errorf("%w: show price must be positive", ErrInvalidInput)
	}

	movie, err := s.movieService.GetOrFetch(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var toCreate []Show
	for _, input := range req.Shows {
		date, err := time.ParseInLocation(dateLayout, input.Date, time.UTC)
		if err != nil {
			s.logger.Warn("Skipping show slot with invalid date", "date", input.Date)
			continue
		}
		for _, t := range input.Time {
			clock, err := time.ParseInLocation(timeLayout, t, time.UTC)
			if err != nil {
				s.logger.Warn("Skipping show slot with invalid time", "date", input.Date, "time", t)
				continue
			}
			start := time.Date(date.Year(), date.Month(), date.Day(),
				clock.Hour(), clock.Minute(), 0, 0, time.UTC)
			if !start.After(now) {
				s.logger.Warn("Skipping show slot in the past", "start_time", start)
				continue
			}
			toCreate = append(toCreate, Show{
				ID:        uuid.New(),
				MovieID:   movie.ID,
				StartTime: start,
				Price:     req.ShowPrice,
			})
		}
	}
	if len(toCreate) == 0 {
		return nil, ErrInvalidInput
	}

	if err := s.repo.CreateBatch(ctx, toCreate); err != nil {
		return nil, fmt.Errorf("failed to create shows: %w", err)
	}
	s.logger.LogShowsCreated(ctx, movie.ID, len(toCreate))

	if err := s.cacheService.DeletePattern(ctx, constants.PatternInvalidateShows); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate show cache", "error", err)
	}

	// Announcement is best effort; a broker outage must not fail creation.
	if s.notifier != nil {
		if err := s.notifier.ShowAdded(ctx, movie.ID, movie.Title); err != nil {
			s.logger.WarnContext(ctx, "Failed to announce new shows", "error", err)
		}
	}

	return &CreateShowsResponse{MovieID: movie.ID, ShowsCreated: len(toCreate)}, nil
}

func (s *service) GetShows(ctx context.Context) ([]movies.Movie, error) {
	var result []movies.Movie
	err := s.cacheService.GetOrSet(ctx, constants.CacheKeyShowList, constants.TTLShowList, func() (interface{}, error) {
		upcoming, err := s.repo.ListUpcoming(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list shows: %w", err)
		}
		seen := make(map[string]bool)
		unique := make([]movies.Movie, 0, len(upcoming))
		for _, show := range upcoming {
			if seen[show.MovieID] {
				continue
			}
			seen[show.MovieID] = true
			movie, err := s.movieService.GetByID(ctx, show.MovieID)
			if err != nil {
				return nil, err
			}
			unique = append(unique, *movie)
		}
		return unique, nil
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetMovieShows(ctx context.Context, movieID string) (*MovieShowsResponse, error) {
	var result MovieShowsResponse
	err := s.cacheService.GetOrSet(ctx, constants.BuildMovieShowsKey(movieID), constants.TTLMovieShows, func() (interface{}, error) {
		movie, err := s.movieService.GetByID(ctx, movieID)
		if err != nil {
			return nil, err
		}
		upcoming, err := s.repo.ListUpcomingByMovie(ctx, movieID)
		if err != nil {
			return nil, fmt.Errorf("failed to list shows for movie: %w", err)
		}
		grouped := make(map[string][]ShowTimeEntry)
		for _, show := range upcoming {
			day := show.StartTime.UTC().Format(dateLayout)
			grouped[day] = append(grouped[day], ShowTimeEntry{
				ShowID: show.ID,
				Time:   show.StartTime,
				Price:  show.Price,
			})
		}
		return &MovieShowsResponse{Movie: movie, DateTime: grouped}, nil
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	show, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	return show, nil
}

func (s *service) ListStartingBetween(ctx context.Context, start, end time.Time) ([]Show, error) {
	return s.repo.ListStartingBetween(ctx, start, end)
}
