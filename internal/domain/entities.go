package domain

import (
	"fmt"
	"math"
	"strings"
)

// Role values as issued by the backend
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity is the decoded view of the current session's bearer credential.
// It exists if and only if the session is authenticated.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	Role        string

	// Profile extras, populated from GET /me rather than the token
	FirstName       string
	LastName        string
	FavouriteGenres []Genre
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Genre is an enumerable tag, globally unique by GenreID.
// Immutable once fetched from the catalogue.
type Genre struct {
	GenreID   int    `json:"genre_id"`
	GenreName string `json:"genre_name"`
}

// Ranking is attached to a movie, never independently addressable
type Ranking struct {
	Value float64 `json:"ranking_value"`
	Name  string  `json:"ranking_name"`
}

// InRange reports whether the value is a real number in [0, 10].
// NaN compares false against both bounds, so it needs its own guard.
func (r Ranking) InRange() bool {
	return !math.IsNaN(r.Value) && r.Value >= 0 && r.Value <= 10
}

// Movie is a curated catalogue entry. IMDBID is the sole external key used
// for lookup and navigation; InternalID is the server-assigned key and is an
// opaque storage detail.
type Movie struct {
	InternalID  string  `json:"_id,omitempty"`
	IMDBID      string  `json:"imdb_id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	YouTubeID   string  `json:"youtube_id,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	AdminReview string  `json:"admin_review"`
	Genres      []Genre `json:"genre"`
	Ranking     Ranking `json:"ranking"`
}

// GenreNames returns the display string for the movie's genre tags
func (m Movie) GenreNames() string {
	names := make([]string, len(m.Genres))
	for i, g := range m.Genres {
		names[i] = g.GenreName
	}
	return strings.Join(names, ", ")
}

// FormattedRanking returns the ranking in a human-readable format
func (m Movie) FormattedRanking() string {
	return fmt.Sprintf("%.1f/10", m.Ranking.Value)
}

// CreateMovieInput carries the fields required to add a catalogue entry
type CreateMovieInput struct {
	IMDBID      string  `json:"imdb_id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	YouTubeID   string  `json:"youtube_id,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	AdminReview string  `json:"admin_review"`
	Genres      []Genre `json:"genre"`
	Ranking     Ranking `json:"ranking"`
}

// Validate checks the input constraints before any network call.
// Returns an *InvalidInputError naming every offending field.
func (in CreateMovieInput) Validate() error {
	var fields []string
	if strings.TrimSpace(in.IMDBID) == "" {
		fields = append(fields, "imdb_id")
	}
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, "title")
	}
	if strings.TrimSpace(in.PosterPath) == "" {
		fields = append(fields, "poster_path")
	}
	if !in.Ranking.InRange() {
		fields = append(fields, "ranking.ranking_value")
	}
	if len(fields) > 0 {
		return &InvalidInputError{Fields: fields}
	}
	return nil
}

// MovieUpdate is a partial, shallow merge applied to a stored movie.
// Nil fields are left untouched. The external key is immutable; a non-nil
// IMDBID is rejected by the store.
type MovieUpdate struct {
	IMDBID      *string
	Title       *string
	PosterPath  *string
	YouTubeID   *string
	ReleaseDate *string
	Overview    *string
	AdminReview *string
	Genres      *[]Genre
	Ranking     *Ranking
}

// LoginInput carries explicit login credentials
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput carries the registration form fields.
// Password and ConfirmPassword must match before any network call is made.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	FavouriteGenres []string
}

// ProfileUpdate is a partial identity update submitted to the backend
type ProfileUpdate struct {
	FirstName       *string
	LastName        *string
	Email           *string
	Password        *string
	FavouriteGenres *[]Genre
}

// ExternalMovieSummary is one search hit from the external metadata provider
type ExternalMovieSummary struct {
	ID          int
	Title       string
	ReleaseDate string
	PosterPath  string
	Overview    string
	VoteAverage float64
}

// ExternalGenre is a genre tag as named by the external provider
type ExternalGenre struct {
	ID   int
	Name string
}

// ExternalMovieDetail is a full record from the external metadata provider
type ExternalMovieDetail struct {
	ID          int
	IMDBID      string
	Title       string
	ReleaseDate string
	PosterPath  string
	Overview    string
	VoteAverage float64
	Genres      []ExternalGenre
}

// ExternalSearchPage is a single upstream page of search results.
// Callers re-invoke search with the next page number for more.
type ExternalSearchPage struct {
	Page       int
	TotalPages int
	Results    []ExternalMovieSummary
}
