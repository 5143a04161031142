package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/jlasky/marquee/internal/domain"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = externalItem{}
)

// movieItem wraps domain.Movie to implement list.Item
type movieItem struct {
	movie domain.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	desc := i.movie.FormattedRanking()
	if names := i.movie.GenreNames(); names != "" {
		desc = fmt.Sprintf("%s • %s", desc, names)
	}
	return desc
}

// externalItem wraps a provider search hit to implement list.Item
type externalItem struct {
	summary domain.ExternalMovieSummary
}

func (i externalItem) FilterValue() string { return i.summary.Title }
func (i externalItem) Title() string       { return i.summary.Title }
func (i externalItem) Description() string {
	if i.summary.ReleaseDate != "" {
		return fmt.Sprintf("%s • %.1f/10", i.summary.ReleaseDate, i.summary.VoteAverage)
	}
	return fmt.Sprintf("%.1f/10", i.summary.VoteAverage)
}
