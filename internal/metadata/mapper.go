package metadata

import (
	"strconv"

	"github.com/jlasky/marquee/internal/domain"
)

// posterImageBase is the provider's image CDN; upstream poster paths are
// relative to it.
const posterImageBase = "https://image.tmdb.org/t/p/w500"

func mapSearchPage(dto searchResponse) *domain.ExternalSearchPage {
	results := make([]domain.ExternalMovieSummary, 0, len(dto.Results))
	for _, r := range dto.Results {
		results = append(results, domain.ExternalMovieSummary{
			ID:          r.ID,
			Title:       r.Title,
			ReleaseDate: r.ReleaseDate,
			PosterPath:  posterURL(r.PosterPath),
			Overview:    r.Overview,
			VoteAverage: r.VoteAverage,
		})
	}
	return &domain.ExternalSearchPage{
		Page:       dto.Page,
		TotalPages: dto.TotalPages,
		Results:    results,
	}
}

func mapDetail(dto movieDetailDTO) *domain.ExternalMovieDetail {
	genres := make([]domain.ExternalGenre, 0, len(dto.Genres))
	for _, g := range dto.Genres {
		genres = append(genres, domain.ExternalGenre{ID: g.ID, Name: g.Name})
	}
	return &domain.ExternalMovieDetail{
		ID:          dto.ID,
		IMDBID:      dto.IMDBID,
		Title:       dto.Title,
		ReleaseDate: dto.ReleaseDate,
		PosterPath:  posterURL(dto.PosterPath),
		Overview:    dto.Overview,
		VoteAverage: dto.VoteAverage,
		Genres:      genres,
	}
}

// externalKey prefers the provider's imdb id; older records without one fall
// back to the provider's numeric id
func externalKey(detail *domain.ExternalMovieDetail) string {
	if detail.IMDBID != "" {
		return detail.IMDBID
	}
	return strconv.Itoa(detail.ID)
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterImageBase + path
}

// rankingName buckets a 0-10 vote average into the catalogue's ranking names
func rankingName(value float64) string {
	switch {
	case value >= 8:
		return "Excellent"
	case value >= 6:
		return "Good"
	case value >= 4:
		return "Average"
	default:
		return "Poor"
	}
}
