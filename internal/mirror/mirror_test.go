package mirror

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlasky/marquee/internal/domain"
)

func sample() []domain.Movie {
	return []domain.Movie{
		{InternalID: "local-1", IMDBID: "tt1", Title: "Inception"},
		{InternalID: "local-2", IMDBID: "tt2", Title: "Heat"},
	}
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.GetMovies()
	require.False(t, ok)

	require.NoError(t, s.SaveMovies(sample()))

	movies, ok := s.GetMovies()
	require.True(t, ok)
	require.Len(t, movies, 2)
	require.Equal(t, "Inception", movies[0].Title)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.SaveMovies(sample()))
	require.NoError(t, s.SaveGenres([]domain.Genre{{GenreID: 28, GenreName: "Action"}}))
	require.NoError(t, s.Close())

	// Reopen and read back past the memory cache
	s2, err := New(dir)
	require.NoError(t, err)
	defer s2.Close()

	movies, ok := s2.GetMovies()
	require.True(t, ok)
	require.Len(t, movies, 2)

	genres, ok := s2.GetGenres()
	require.True(t, ok)
	require.Equal(t, "Action", genres[0].GenreName)
}

func TestInvalidateAll(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveMovies(sample()))
	s.InvalidateAll()

	_, ok := s.GetMovies()
	require.False(t, ok)
}
