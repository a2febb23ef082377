package shows

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cineshow/internal/movies"
	"cineshow/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughCache runs every fetcher and round-trips the value through JSON,
// mirroring what the Redis-backed implementation does.
type passthroughCache struct{}

func (passthroughCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}
func (passthroughCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (passthroughCache) Delete(ctx context.Context, key string) error            { return nil }
func (passthroughCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (passthroughCache) Exists(ctx context.Context, key string) bool             { return false }
func (passthroughCache) Ping(ctx context.Context) error                          { return nil }

func (passthroughCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	value, err := fetcher()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

type fakeMovieService struct {
	movies  map[string]*movies.Movie
	fetched []string
}

func (f *fakeMovieService) NowPlaying(ctx context.Context) ([]movies.CatalogMovie, error) {
	return nil, nil
}

func (f *fakeMovieService) GetByID(ctx context.Context, movieID string) (*movies.Movie, error) {
	movie, ok := f.movies[movieID]
	if !ok {
		return nil, movies.ErrMovieNotFound
	}
	return movie, nil
}

func (f *fakeMovieService) GetOrFetch(ctx context.Context, movieID string) (*movies.Movie, error) {
	if movie, ok := f.movies[movieID]; ok {
		return movie, nil
	}
	f.fetched = append(f.fetched, movieID)
	movie := &movies.Movie{ID: movieID, Title: "Fetched " + movieID}
	f.movies[movieID] = movie
	return movie, nil
}

type fakeShowRepo struct {
	created []Show
}

func (r *fakeShowRepo) CreateBatch(ctx context.Context, shows []Show) error {
	r.created = append(r.created, shows...)
	return nil
}

func (r *fakeShowRepo) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	for i := range r.created {
		if r.created[i].ID == id {
			return &r.created[i], nil
		}
	}
	return nil, ErrShowNotFound
}

func (r *fakeShowRepo) ListUpcoming(ctx context.Context) ([]Show, error) {
	var out []Show
	now := time.Now().UTC()
	for _, s := range r.created {
		if s.StartTime.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShowRepo) ListUpcomingByMovie(ctx context.Context, movieID string) ([]Show, error) {
	var out []Show
	now := time.Now().UTC()
	for _, s := range r.created {
		if s.MovieID == movieID && s.StartTime.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShowRepo) ListStartingBetween(ctx context.Context, start, end time.Time) ([]Show, error) {
	var out []Show
	for _, s := range r.created {
		if !s.StartTime.Before(start) && s.StartTime.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

type countingNotifier struct {
	announced []string
}

func (n *countingNotifier) ShowAdded(ctx context.Context, movieID, movieTitle string) error {
	n.announced = append(n.announced, movieID)
	return nil
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func TestCreateShows(t *testing.T) {
	repo := &fakeShowRepo{}
	movieSvc := &fakeMovieService{movies: map[string]*movies.Movie{}}
	notifier := &countingNotifier{}
	svc := NewService(repo, movieSvc, passthroughCache{})
	svc.SetNotifier(notifier)

	resp, err := svc.CreateShows(context.Background(), CreateShowsRequest{
		MovieID: "603692",
		Shows: []ShowInput{
			{Date: futureDate(2), Time: []string{"18:00", "21:30"}},
			{Date: futureDate(3), Time: []string{"20:00"}},
		},
		ShowPrice: 14,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.ShowsCreated)
	require.Len(t, repo.created, 3)
	for _, show := range repo.created {
		assert.Equal(t, "603692", show.MovieID)
		assert.Equal(t, 14.0, show.Price)
		assert.Equal(t, time.UTC, show.StartTime.Location())
	}
	assert.Equal(t, []string{"603692"}, movieSvc.fetched, "unknown movie is fetched from the catalog")
	assert.Equal(t, []string{"603692"}, notifier.announced)
}

func TestCreateShowsSkipsInvalidSlots(t *testing.T) {
	repo := &fakeShowRepo{}
	movieSvc := &fakeMovieService{movies: map[string]*movies.Movie{}}
	svc := NewService(repo, movieSvc, passthroughCache{})

	resp, err := svc.CreateShows(context.Background(), CreateShowsRequest{
		MovieID: "603692",
		Shows: []ShowInput{
			{Date: "not-a-date", Time: []string{"18:00"}},
			{Date: futureDate(1), Time: []string{"25:99", "19:00"}},
			{Date: "2001-01-01", Time: []string{"12:00"}}, // in the past
		},
		ShowPrice: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.ShowsCreated)
}

func TestCreateShowsNoValidSlots(t *testing.T) {
	repo := &fakeShowRepo{}
	movieSvc := &fakeMovieService{movies: map[string]*movies.Movie{}}
	svc := NewService(repo, movieSvc, passthroughCache{})

	_, err := svc.CreateShows(context.Background(), CreateShowsRequest{
		MovieID:   "603692",
		Shows:     []ShowInput{{Date: "garbage", Time: []string{"18:00"}}},
		ShowPrice: 10,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, repo.created)
}

func TestCreateShowsRejectsNonPositivePrice(t *testing.T) {
	svc := NewService(&fakeShowRepo{}, &fakeMovieService{movies: map[string]*movies.Movie{}}, passthroughCache{})

	_, err := svc.CreateShows(context.Background(), CreateShowsRequest{
		MovieID:   "603692",
		Shows:     []ShowInput{{Date: futureDate(1), Time: []string{"18:00"}}},
		ShowPrice: 0,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetShowsUniqueMovies(t *testing.T) {
	repo := &fakeShowRepo{}
	movieSvc := &fakeMovieService{movies: map[string]*movies.Movie{
		"m1": {ID: "m1", Title: "First"},
		"m2": {ID: "m2", Title: "Second"},
	}}
	svc := NewService(repo, movieSvc, passthroughCache{})

	base := time.Now().UTC().Add(24 * time.Hour)
	repo.created = []Show{
		{ID: uuid.New(), MovieID: "m1", StartTime: base, Price: 10},
		{ID: uuid.New(), MovieID: "m1", StartTime: base.Add(3 * time.Hour), Price: 10},
		{ID: uuid.New(), MovieID: "m2", StartTime: base.Add(time.Hour), Price: 12},
	}

	result, err := svc.GetShows(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 2, "each movie appears once no matter how many screenings it has")
	assert.Equal(t, "m1", result[0].ID)
	assert.Equal(t, "m2", result[1].ID)
}

func TestGetMovieShowsGroupsByDate(t *testing.T) {
	repo := &fakeShowRepo{}
	movieSvc := &fakeMovieService{movies: map[string]*movies.Movie{
		"m1": {ID: "m1", Title: "First"},
	}}
	svc := NewService(repo, movieSvc, passthroughCache{})

	base := time.Now().UTC().AddDate(0, 0, 2)
	day1 := time.Date(base.Year(), base.Month(), base.Day(), 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	repo.created = []Show{
		{ID: uuid.New(), MovieID: "m1", StartTime: day1, Price: 10},
		{ID: uuid.New(), MovieID: "m1", StartTime: day1.Add(3 * time.Hour), Price: 10},
		{ID: uuid.New(), MovieID: "m1", StartTime: day2, Price: 10},
	}

	result, err := svc.GetMovieShows(context.Background(), "m1")

	require.NoError(t, err)
	assert.Equal(t, "m1", result.Movie.ID)
	require.Len(t, result.DateTime, 2)
	assert.Len(t, result.DateTime[day1.Format(dateLayout)], 2)
	assert.Len(t, result.DateTime[day2.Format(dateLayout)], 1)
}

func TestGetMovieShowsUnknownMovie(t *testing.T) {
	svc := NewService(&fakeShowRepo{}, &fakeMovieService{movies: map[string]*movies.Movie{}}, passthroughCache{})

	_, err := svc.GetMovieShows(context.Background(), "missing")

	assert.ErrorIs(t, err, movies.ErrMovieNotFound)
}
