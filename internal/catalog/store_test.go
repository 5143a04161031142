package catalog

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlasky/marquee/internal/domain"
)

// fakeBackend implements domain.CatalogueBackend with overridable behavior
type fakeBackend struct {
	domain.CatalogueBackend

	listMovies  func(ctx context.Context) ([]domain.Movie, error)
	createMovie func(ctx context.Context, in domain.CreateMovieInput) (domain.Movie, error)
	listGenres  func(ctx context.Context) ([]domain.Genre, error)
	createGenre func(ctx context.Context, g domain.Genre) (domain.Genre, error)
}

func (f *fakeBackend) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return f.listMovies(ctx)
}

func (f *fakeBackend) CreateMovie(ctx context.Context, in domain.CreateMovieInput) (domain.Movie, error) {
	return f.createMovie(ctx, in)
}

func (f *fakeBackend) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return f.listGenres(ctx)
}

func (f *fakeBackend) CreateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error) {
	return f.createGenre(ctx, g)
}

func confirmingBackend() *fakeBackend {
	return &fakeBackend{
		listMovies: func(ctx context.Context) ([]domain.Movie, error) {
			return nil, nil
		},
		createMovie: func(ctx context.Context, in domain.CreateMovieInput) (domain.Movie, error) {
			return domain.Movie{
				InternalID:  "srv-1",
				IMDBID:      in.IMDBID,
				Title:       in.Title,
				PosterPath:  in.PosterPath,
				AdminReview: in.AdminReview,
				Genres:      in.Genres,
				Ranking:     in.Ranking,
			}, nil
		},
	}
}

func validInput() domain.CreateMovieInput {
	return domain.CreateMovieInput{
		IMDBID:     "tt1375666",
		Title:      "Inception",
		PosterPath: "https://img/inception.jpg",
		Ranking:    domain.Ranking{Value: 8.8, Name: "Excellent"},
	}
}

func TestStoreAdd(t *testing.T) {
	t.Run("add then find returns the input plus store metadata", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)

		created, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)
		require.Equal(t, "srv-1", created.InternalID)

		got, ok := s.Find("tt1375666")
		require.True(t, ok)
		require.Equal(t, "Inception", got.Title)
		require.Equal(t, "https://img/inception.jpg", got.PosterPath)
		require.InDelta(t, 8.8, got.Ranking.Value, 0.001)
	})

	t.Run("validation failure names every offending field and skips the network", func(t *testing.T) {
		called := false
		b := confirmingBackend()
		b.createMovie = func(ctx context.Context, in domain.CreateMovieInput) (domain.Movie, error) {
			called = true
			return domain.Movie{}, nil
		}
		s := NewStore(b, nil)

		_, err := s.Add(context.Background(), domain.CreateMovieInput{
			Ranking: domain.Ranking{Value: 11},
		})

		var iie *domain.InvalidInputError
		require.ErrorAs(t, err, &iie)
		require.ElementsMatch(t, []string{"imdb_id", "title", "poster_path", "ranking.ranking_value"}, iie.Fields)
		require.False(t, called)
		require.Zero(t, s.Len())
	})

	t.Run("rejects a NaN ranking value", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		in := validInput()
		in.Ranking.Value = math.NaN()

		_, err := s.Add(context.Background(), in)
		var iie *domain.InvalidInputError
		require.ErrorAs(t, err, &iie)
		require.Equal(t, []string{"ranking.ranking_value"}, iie.Fields)
		require.Zero(t, s.Len())
	})

	t.Run("rejects a duplicate external key", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		_, err = s.Add(context.Background(), validInput())
		var iie *domain.InvalidInputError
		require.ErrorAs(t, err, &iie)
		require.Equal(t, 1, s.Len())
	})

	t.Run("optimistic insert stands when confirmation fails", func(t *testing.T) {
		b := confirmingBackend()
		b.createMovie = func(ctx context.Context, in domain.CreateMovieInput) (domain.Movie, error) {
			return domain.Movie{}, domain.ErrServerOffline
		}
		s := NewStore(b, nil)

		movie, err := s.Add(context.Background(), validInput())
		require.ErrorIs(t, err, domain.ErrServerOffline)

		// local commit stands, under a provisional key
		got, ok := s.Find("tt1375666")
		require.True(t, ok)
		require.Equal(t, movie.InternalID, got.InternalID)
		require.Contains(t, got.InternalID, "local-")
	})

	t.Run("reconciles the provisional key to the server identity", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)

		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		got, ok := s.Find("tt1375666")
		require.True(t, ok)
		require.Equal(t, "srv-1", got.InternalID)
	})
}

func TestStoreUpdate(t *testing.T) {
	review := "Great"

	t.Run("missing key fails with not found and leaves the collection unchanged", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)
		before := s.Movies()

		_, err = s.Update("tt9999999", domain.MovieUpdate{AdminReview: &review})
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Equal(t, before, s.Movies())
	})

	t.Run("shallow merge preserves untouched fields", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		merged, err := s.Update("tt1375666", domain.MovieUpdate{AdminReview: &review})
		require.NoError(t, err)
		require.Equal(t, "Great", merged.AdminReview)
		require.Equal(t, "Inception", merged.Title)

		got, _ := s.Find("tt1375666")
		require.Equal(t, "Great", got.AdminReview)
		require.Equal(t, "Inception", got.Title)
	})

	t.Run("external key is immutable", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		other := "tt0000001"
		_, err = s.Update("tt1375666", domain.MovieUpdate{IMDBID: &other})

		var iie *domain.InvalidInputError
		require.ErrorAs(t, err, &iie)
		require.Equal(t, []string{"imdb_id"}, iie.Fields)
	})

	t.Run("rejects an out-of-range ranking", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		_, err = s.Update("tt1375666", domain.MovieUpdate{Ranking: &domain.Ranking{Value: 12}})
		var iie *domain.InvalidInputError
		require.ErrorAs(t, err, &iie)
	})

	t.Run("rejects a NaN ranking", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		_, err = s.Update("tt1375666", domain.MovieUpdate{Ranking: &domain.Ranking{Value: math.NaN()}})
		var iie *domain.InvalidInputError
		require.ErrorAs(t, err, &iie)
	})
}

func TestStoreRemove(t *testing.T) {
	t.Run("remove then find is absent", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		require.NoError(t, s.Remove("tt1375666"))

		_, ok := s.Find("tt1375666")
		require.False(t, ok)
	})

	t.Run("missing key fails with not found", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		err := s.Remove("tt1375666")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStoreHydrate(t *testing.T) {
	t.Run("replaces the collection wholesale and is idempotent", func(t *testing.T) {
		b := confirmingBackend()
		b.listMovies = func(ctx context.Context) ([]domain.Movie, error) {
			return []domain.Movie{
				{InternalID: "srv-1", IMDBID: "tt1", Title: "Inception"},
				{InternalID: "srv-2", IMDBID: "tt2", Title: "Heat"},
			}, nil
		}
		s := NewStore(b, nil)

		first, err := s.Hydrate(context.Background())
		require.NoError(t, err)
		second, err := s.Hydrate(context.Background())
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.Equal(t, 2, s.Len())
	})

	t.Run("a failed hydrate leaves prior state intact", func(t *testing.T) {
		b := confirmingBackend()
		s := NewStore(b, nil)
		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		b.listMovies = func(ctx context.Context) ([]domain.Movie, error) {
			return nil, domain.ErrServerOffline
		}
		_, err = s.Hydrate(context.Background())
		require.ErrorIs(t, err, domain.ErrServerOffline)
		require.Equal(t, 1, s.Len())
	})

	t.Run("notifies subscribers on change", func(t *testing.T) {
		s := NewStore(confirmingBackend(), nil)
		ch := s.Subscribe()

		_, err := s.Add(context.Background(), validInput())
		require.NoError(t, err)

		select {
		case <-ch:
		default:
			t.Fatal("expected a change notification")
		}
	})
}

func TestStoreSearch(t *testing.T) {
	seed := func(t *testing.T) *Store {
		t.Helper()
		b := confirmingBackend()
		b.listMovies = func(ctx context.Context) ([]domain.Movie, error) {
			return []domain.Movie{
				{IMDBID: "tt1", Title: "Inception", AdminReview: "mind-bending"},
				{IMDBID: "tt2", Title: "Heat", AdminReview: "the best heist film"},
				{IMDBID: "tt3", Title: "Alien", AdminReview: ""},
			}, nil
		}
		s := NewStore(b, nil)
		_, err := s.Hydrate(context.Background())
		require.NoError(t, err)
		return s
	}

	t.Run("empty query returns the full collection", func(t *testing.T) {
		s := seed(t)
		require.Len(t, s.Search(""), 3)
	})

	t.Run("matches title case-insensitively", func(t *testing.T) {
		s := seed(t)
		res := s.Search("iNcEp")
		require.Len(t, res, 1)
		require.Equal(t, "tt1", res[0].IMDBID)
	})

	t.Run("matches admin review text", func(t *testing.T) {
		s := seed(t)
		res := s.Search("heist")
		require.Len(t, res, 1)
		require.Equal(t, "tt2", res[0].IMDBID)
	})

	t.Run("is idempotent while the collection is unchanged", func(t *testing.T) {
		s := seed(t)
		require.Equal(t, s.Search("e"), s.Search("e"))
	})

	t.Run("ranked search orders best match first", func(t *testing.T) {
		s := seed(t)
		res := s.SearchRanked("incepton") // typo tolerated
		require.NotEmpty(t, res)
		require.Equal(t, "tt1", res[0].IMDBID)
	})
}

func TestGenreCache(t *testing.T) {
	t.Run("load is cached until invalidated", func(t *testing.T) {
		calls := 0
		b := confirmingBackend()
		b.listGenres = func(ctx context.Context) ([]domain.Genre, error) {
			calls++
			return []domain.Genre{{GenreID: 28, GenreName: "Action"}}, nil
		}
		c := NewGenreCache(b, nil)

		for range 3 {
			genres, err := c.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, genres, 1)
		}
		require.Equal(t, 1, calls)

		c.Invalidate()
		_, err := c.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, calls)
	})

	t.Run("fetch failure maps to catalogue unavailable", func(t *testing.T) {
		b := confirmingBackend()
		b.listGenres = func(ctx context.Context) ([]domain.Genre, error) {
			return nil, errors.New("boom")
		}
		c := NewGenreCache(b, nil)

		_, err := c.Load(context.Background())
		require.ErrorIs(t, err, domain.ErrCatalogueUnavailable)
	})

	t.Run("upsert dedupes by genre id", func(t *testing.T) {
		b := confirmingBackend()
		b.listGenres = func(ctx context.Context) ([]domain.Genre, error) {
			return []domain.Genre{{GenreID: 28, GenreName: "Action"}}, nil
		}
		b.createGenre = func(ctx context.Context, g domain.Genre) (domain.Genre, error) {
			return g, nil
		}
		c := NewGenreCache(b, nil)
		_, err := c.Load(context.Background())
		require.NoError(t, err)

		got, err := c.Upsert(context.Background(), domain.Genre{GenreID: 28, GenreName: "Renamed"})
		require.NoError(t, err)
		require.Equal(t, "Action", got.GenreName, "genres are immutable once fetched")

		_, err = c.Upsert(context.Background(), domain.Genre{GenreID: 12, GenreName: "Adventure"})
		require.NoError(t, err)

		genres, err := c.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, genres, 2)
	})

	t.Run("upsert before load still fetches the full catalogue", func(t *testing.T) {
		calls := 0
		b := confirmingBackend()
		b.listGenres = func(ctx context.Context) ([]domain.Genre, error) {
			calls++
			return []domain.Genre{
				{GenreID: 28, GenreName: "Action"},
				{GenreID: 12, GenreName: "Adventure"},
			}, nil
		}
		b.createGenre = func(ctx context.Context, g domain.Genre) (domain.Genre, error) {
			return g, nil
		}
		c := NewGenreCache(b, nil)

		_, err := c.Upsert(context.Background(), domain.Genre{GenreID: 99, GenreName: "Noir"})
		require.NoError(t, err)
		require.Equal(t, 1, calls, "upsert must consult the backend catalogue")

		genres, err := c.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, genres, 3)

		c.Invalidate()
		genres, err = c.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, calls)
		require.Len(t, genres, 2, "invalidate refetches wholesale")
	})
}
