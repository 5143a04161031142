package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jlasky/marquee/internal/domain"
)

// Search returns movies whose title or admin review contains the query,
// case-insensitively. An empty query returns the full collection. The result
// is recomputed from the current collection on every call.
func (s *Store) Search(query string) []domain.Movie {
	movies := s.Movies()
	if query == "" {
		return movies
	}

	q := strings.ToLower(query)
	matched := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.AdminReview), q) {
			matched = append(matched, m)
		}
	}
	return matched
}

// SearchRanked returns fuzzy title matches ordered best-first. Used by the
// UI omnibar; the plain Search contract above is the store's own.
func (s *Store) SearchRanked(query string) []domain.Movie {
	movies := s.Movies()
	if query == "" {
		return movies
	}

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	matched := make([]domain.Movie, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, movies[r.OriginalIndex])
	}
	return matched
}
