package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jlasky/marquee/internal/domain"
)

// fuzzyFilter ranks movies against the query by title, best match first.
// Used when fuzzy mode is toggled on; the default browse filter is the
// store's substring search.
func fuzzyFilter(query string, movies []domain.Movie) []domain.Movie {
	if query == "" {
		return movies
	}

	lowerTitles := make([]string, len(movies))
	for i, m := range movies {
		lowerTitles[i] = strings.ToLower(m.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)
	out := make([]domain.Movie, 0, len(matches))
	for _, match := range matches {
		out = append(out, movies[match.Index])
	}
	return out
}
