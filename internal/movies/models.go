package movies

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Movie is catalog metadata cached locally. The primary key is the catalog's
// own id so the cache-miss lookup is a straight primary-key read. Rows are
// written once on first fetch and never mutated afterwards.
type Movie struct {
	ID               string    `json:"id" gorm:"primaryKey;size:32"`
	Title            string    `json:"title" gorm:"not null;size:255"`
	Overview         string    `json:"overview" gorm:"type:text"`
	PosterPath       string    `json:"poster_path" gorm:"size:500"`
	BackdropPath     string    `json:"backdrop_path" gorm:"size:500"`
	ReleaseDate      string    `json:"release_date" gorm:"size:10"`
	OriginalLanguage string    `json:"original_language" gorm:"size:10"`
	Tagline          string    `json:"tagline" gorm:"size:500"`
	Genres           GenreList `json:"genres" gorm:"type:jsonb"`
	VoteAverage      float64   `json:"vote_average"`
	Runtime          int       `json:"runtime"`
	Casts            CastList  `json:"casts" gorm:"type:jsonb"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Movie) TableName() string {
	return "movies"
}

// Genre is one catalog genre entry
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList stores genres as a jsonb column
type GenreList []Genre

func (g GenreList) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *GenreList) Scan(value interface{}) error {
	return scanJSON(value, g)
}

// CastMember is one credited cast entry
type CastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// CastList stores cast credits as a jsonb column
type CastList []CastMember

func (c CastList) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *CastList) Scan(value interface{}) error {
	return scanJSON(value, c)
}

func scanJSON(value, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported jsonb scan type %T", value)
	}
}
