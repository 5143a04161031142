package metadata

import (
	"context"
	"log/slog"

	"github.com/jlasky/marquee/internal/catalog"
	"github.com/jlasky/marquee/internal/domain"
)

// Importer is the one-way bridge from the external provider into the movie
// store. Genres are upserted into the catalogue first so the imported movie
// references them by id.
type Importer struct {
	provider domain.MetadataProvider
	store    *catalog.Store
	genres   *catalog.GenreCache
	logger   *slog.Logger
}

// NewImporter creates an importer over the given provider and store
func NewImporter(provider domain.MetadataProvider, store *catalog.Store, genres *catalog.GenreCache, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		provider: provider,
		store:    store,
		genres:   genres,
		logger:   logger,
	}
}

// ImportByID fetches the detail record for an external id and imports it
func (imp *Importer) ImportByID(ctx context.Context, externalID int) (domain.Movie, error) {
	detail, err := imp.provider.MovieDetail(ctx, externalID)
	if err != nil {
		return domain.Movie{}, err
	}
	return imp.ImportIntoStore(ctx, detail)
}

// ImportIntoStore maps an external detail record into a catalogue entry and
// delegates to the store's Add. Invalid mapped input fails with whatever Add
// raises.
func (imp *Importer) ImportIntoStore(ctx context.Context, detail *domain.ExternalMovieDetail) (domain.Movie, error) {
	genres := make([]domain.Genre, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		upserted, err := imp.genres.Upsert(ctx, domain.Genre{GenreID: g.ID, GenreName: g.Name})
		if err != nil {
			imp.logger.Warn("genre upsert failed", "genre", g.Name, "error", err)
			return domain.Movie{}, err
		}
		genres = append(genres, upserted)
	}

	in := domain.CreateMovieInput{
		IMDBID:      externalKey(detail),
		Title:       detail.Title,
		PosterPath:  detail.PosterPath,
		ReleaseDate: detail.ReleaseDate,
		Overview:    detail.Overview,
		Genres:      genres,
		Ranking: domain.Ranking{
			Value: detail.VoteAverage,
			Name:  rankingName(detail.VoteAverage),
		},
	}

	movie, err := imp.store.Add(ctx, in)
	if err != nil {
		return movie, err
	}

	imp.logger.Info("imported movie", "imdb_id", movie.IMDBID, "title", movie.Title)
	return movie, nil
}
