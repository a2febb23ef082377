package constants

import "time"

// Cache key prefixes. Keys carry a version segment so a deploy that changes
// the cached shape can bump it without flushing Redis by hand.
const (
	CacheKeyNowPlaying = "cineshow:v1:movies:now_playing"
	CacheKeyShowList   = "cineshow:v1:shows:list"
	CacheKeyMovieShows = "cineshow:v1:shows:movie:" // + movieID

	PatternInvalidateShows = "cineshow:v1:shows:*"
)

// Cache TTLs per key family
const (
	TTLNowPlaying = 30 * time.Minute
	TTLShowList   = 5 * time.Minute
	TTLMovieShows = 5 * time.Minute
)

// BuildMovieShowsKey builds the per-movie show listing cache key
func BuildMovieShowsKey(movieID string) string {
	return CacheKeyMovieShows + movieID
}
