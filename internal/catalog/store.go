// Package catalog owns the in-memory movie collection and the genre
// catalogue cache. Both are process-wide singletons shared by every UI
// collaborator.
//
// The store runs in exactly one of two modes: backend-backed (reads and
// confirmed writes go to the catalogue service) or mirror-backed (a local
// bolt mirror, used only when no backend is configured). The modes are
// never mixed.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jlasky/marquee/internal/domain"
)

// Store is the optimistic movie resource store. Mutations commit to the
// in-memory collection immediately; the confirming backend round-trip, when
// it fails, does not roll the local change back. Callers reconcile a
// confirmed failure by calling Hydrate again.
//
// Every mutation replaces the collection wholesale (copy-on-write), so no
// two mutations ever interleave at the field level.
type Store struct {
	backend domain.CatalogueBackend // nil in mirror mode
	mirror  domain.Mirror           // nil in backend mode
	logger  *slog.Logger

	mu     sync.RWMutex
	movies []domain.Movie
	byKey  map[string]int // imdb_id -> index into movies

	subMu sync.Mutex
	subs  []chan struct{}
}

// NewStore creates a backend-backed movie store
func NewStore(backend domain.CatalogueBackend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		byKey:   make(map[string]int),
	}
}

// NewMirrorStore creates a mirror-backed store for offline use
func NewMirrorStore(mirror domain.Mirror, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		mirror: mirror,
		logger: logger,
		byKey:  make(map[string]int),
	}
}

// Subscribe returns a channel that receives a signal after every collection
// change. The signal is coalesced: a slow reader sees at least one wake-up,
// not one per mutation.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Hydrate replaces the in-memory collection wholesale from the backing
// store. Safe to call repeatedly, e.g. on every view mount.
func (s *Store) Hydrate(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie

	if s.backend != nil {
		fetched, err := s.backend.ListMovies(ctx)
		if err != nil {
			s.logger.Error("hydrate failed", "error", err)
			return nil, err
		}
		movies = fetched
	} else if s.mirror != nil {
		cached, _ := s.mirror.GetMovies()
		movies = cached
	}

	s.mu.Lock()
	s.replaceLocked(movies)
	s.mu.Unlock()
	s.notify()

	s.logger.Info("catalogue hydrated", "count", len(movies))
	return s.Movies(), nil
}

// Movies returns a snapshot of the current collection
func (s *Store) Movies() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// Find returns the movie with the exact external key, never a fuzzy match
func (s *Store) Find(imdbID string) (domain.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.byKey[imdbID]; ok {
		return s.movies[i], true
	}
	return domain.Movie{}, false
}

// Add validates the input, commits it to the local collection, then asks the
// backend to confirm. On confirmation the provisional key is reconciled to
// the server-assigned identity. A confirmation failure is returned to the
// caller but the optimistic insert stands; reconcile with Hydrate.
func (s *Store) Add(ctx context.Context, in domain.CreateMovieInput) (domain.Movie, error) {
	if err := in.Validate(); err != nil {
		return domain.Movie{}, err
	}

	movie := domain.Movie{
		InternalID:  provisionalKey(),
		IMDBID:      in.IMDBID,
		Title:       in.Title,
		PosterPath:  in.PosterPath,
		YouTubeID:   in.YouTubeID,
		ReleaseDate: in.ReleaseDate,
		Overview:    in.Overview,
		AdminReview: in.AdminReview,
		Genres:      in.Genres,
		Ranking:     in.Ranking,
	}

	s.mu.Lock()
	if _, exists := s.byKey[in.IMDBID]; exists {
		s.mu.Unlock()
		return domain.Movie{}, &domain.InvalidInputError{Fields: []string{"imdb_id"}}
	}
	next := make([]domain.Movie, len(s.movies), len(s.movies)+1)
	copy(next, s.movies)
	next = append(next, movie)
	s.replaceLocked(next)
	s.mu.Unlock()
	s.notify()

	if s.backend != nil {
		confirmed, err := s.backend.CreateMovie(ctx, in)
		if err != nil {
			s.logger.Warn("create not confirmed, local insert stands", "imdb_id", in.IMDBID, "error", err)
			return movie, err
		}
		s.reconcile(in.IMDBID, confirmed)
		return confirmed, nil
	}

	s.persistMirror()
	return movie, nil
}

// reconcile swaps the provisional record for the server-confirmed one
func (s *Store) reconcile(imdbID string, confirmed domain.Movie) {
	s.mu.Lock()
	if i, ok := s.byKey[imdbID]; ok {
		next := make([]domain.Movie, len(s.movies))
		copy(next, s.movies)
		next[i] = confirmed
		s.replaceLocked(next)
	}
	s.mu.Unlock()
	s.notify()
}

// Update applies a shallow merge to the stored movie. The external key is
// immutable: an update naming imdb_id is rejected outright.
func (s *Store) Update(imdbID string, partial domain.MovieUpdate) (domain.Movie, error) {
	if partial.IMDBID != nil {
		return domain.Movie{}, &domain.InvalidInputError{Fields: []string{"imdb_id"}}
	}
	if partial.Ranking != nil && !partial.Ranking.InRange() {
		return domain.Movie{}, &domain.InvalidInputError{Fields: []string{"ranking.ranking_value"}}
	}

	s.mu.Lock()
	i, ok := s.byKey[imdbID]
	if !ok {
		s.mu.Unlock()
		return domain.Movie{}, fmt.Errorf("%w: %s", domain.ErrNotFound, imdbID)
	}

	next := make([]domain.Movie, len(s.movies))
	copy(next, s.movies)
	merged := mergeMovie(next[i], partial)
	next[i] = merged
	s.replaceLocked(next)
	s.mu.Unlock()
	s.notify()

	s.persistMirror()
	return merged, nil
}

// Remove deletes the movie with the given external key
func (s *Store) Remove(imdbID string) error {
	s.mu.Lock()
	i, ok := s.byKey[imdbID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrNotFound, imdbID)
	}

	next := make([]domain.Movie, 0, len(s.movies)-1)
	next = append(next, s.movies[:i]...)
	next = append(next, s.movies[i+1:]...)
	s.replaceLocked(next)
	s.mu.Unlock()
	s.notify()

	s.persistMirror()
	return nil
}

// Len returns the current collection size
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// replaceLocked swaps in a new collection and rebuilds the key index.
// Caller holds s.mu.
func (s *Store) replaceLocked(movies []domain.Movie) {
	byKey := make(map[string]int, len(movies))
	for i, m := range movies {
		byKey[m.IMDBID] = i
	}
	s.movies = movies
	s.byKey = byKey
}

// persistMirror writes the current collection through to the local mirror.
// No-op in backend mode.
func (s *Store) persistMirror() {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.SaveMovies(s.Movies()); err != nil {
		s.logger.Warn("mirror write failed", "error", err)
	}
}

// mergeMovie applies the non-nil fields of the partial onto the base
func mergeMovie(base domain.Movie, p domain.MovieUpdate) domain.Movie {
	if p.Title != nil {
		base.Title = *p.Title
	}
	if p.PosterPath != nil {
		base.PosterPath = *p.PosterPath
	}
	if p.YouTubeID != nil {
		base.YouTubeID = *p.YouTubeID
	}
	if p.ReleaseDate != nil {
		base.ReleaseDate = *p.ReleaseDate
	}
	if p.Overview != nil {
		base.Overview = *p.Overview
	}
	if p.AdminReview != nil {
		base.AdminReview = *p.AdminReview
	}
	if p.Genres != nil {
		base.Genres = *p.Genres
	}
	if p.Ranking != nil {
		base.Ranking = *p.Ranking
	}
	return base
}

// provisionalKey mints a store-local key for a record that has no
// server-assigned identity yet
func provisionalKey() string {
	return "local-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}
