package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jlasky/marquee/internal/domain"
)

// GenreCache holds the enumerable genre set used for tagging and filtering.
// Load is idempotent; the last successful result is served until Invalidate.
type GenreCache struct {
	backend domain.CatalogueBackend // nil in mirror mode
	mirror  domain.Mirror           // nil in backend mode
	logger  *slog.Logger

	mu     sync.RWMutex
	genres []domain.Genre
	loaded bool
}

// NewGenreCache creates a backend-backed genre cache
func NewGenreCache(backend domain.CatalogueBackend, logger *slog.Logger) *GenreCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenreCache{backend: backend, logger: logger}
}

// NewMirrorGenreCache creates a mirror-backed genre cache for offline use
func NewMirrorGenreCache(mirror domain.Mirror, logger *slog.Logger) *GenreCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenreCache{mirror: mirror, logger: logger}
}

// Load returns the genre set, fetching it on first use. A fetch failure maps
// to domain.ErrCatalogueUnavailable; callers treat that as empty options,
// never as fatal.
func (c *GenreCache) Load(ctx context.Context) ([]domain.Genre, error) {
	c.mu.RLock()
	if c.loaded {
		genres := c.snapshotLocked()
		c.mu.RUnlock()
		return genres, nil
	}
	c.mu.RUnlock()

	var genres []domain.Genre
	if c.backend != nil {
		fetched, err := c.backend.ListGenres(ctx)
		if err != nil {
			c.logger.Warn("genre catalogue fetch failed", "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogueUnavailable, err)
		}
		genres = fetched
	} else if c.mirror != nil {
		genres, _ = c.mirror.GetGenres()
	}

	c.mu.Lock()
	c.genres = dedupeGenres(genres)
	c.loaded = true
	out := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("genre catalogue loaded", "count", len(out))
	return out, nil
}

// Invalidate drops the cached set; the next Load refetches wholesale
func (c *GenreCache) Invalidate() {
	c.mu.Lock()
	c.genres = nil
	c.loaded = false
	c.mu.Unlock()
}

// Upsert registers a genre by id, creating it on the backend when one is
// configured. Already-known ids are returned as cached; genres are immutable
// once fetched. The enumerable set always starts from a full Load; an upsert
// merges into it but never substitutes for it.
func (c *GenreCache) Upsert(ctx context.Context, g domain.Genre) (domain.Genre, error) {
	if _, err := c.Load(ctx); err != nil {
		return domain.Genre{}, err
	}

	c.mu.RLock()
	for _, known := range c.genres {
		if known.GenreID == g.GenreID {
			c.mu.RUnlock()
			return known, nil
		}
	}
	c.mu.RUnlock()

	if c.backend != nil {
		created, err := c.backend.CreateGenre(ctx, g)
		if err != nil {
			return domain.Genre{}, err
		}
		g = created
	}

	c.mu.Lock()
	c.genres = dedupeGenres(append(c.snapshotLocked(), g))
	c.mu.Unlock()

	if c.mirror != nil {
		c.mu.RLock()
		genres := c.snapshotLocked()
		c.mu.RUnlock()
		if err := c.mirror.SaveGenres(genres); err != nil {
			c.logger.Warn("mirror write failed", "error", err)
		}
	}
	return g, nil
}

// snapshotLocked copies the cached set. Caller holds c.mu.
func (c *GenreCache) snapshotLocked() []domain.Genre {
	out := make([]domain.Genre, len(c.genres))
	copy(out, c.genres)
	return out
}

// dedupeGenres keeps the first occurrence of each genre id, sorted by id
func dedupeGenres(genres []domain.Genre) []domain.Genre {
	seen := make(map[int]bool, len(genres))
	out := make([]domain.Genre, 0, len(genres))
	for _, g := range genres {
		if seen[g.GenreID] {
			continue
		}
		seen[g.GenreID] = true
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GenreID < out[j].GenreID })
	return out
}
