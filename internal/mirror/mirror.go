// Package mirror is the local movie/genre store used in offline mode, when
// no catalogue backend is configured. It is never mixed with backend mode.
package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/jlasky/marquee/internal/domain"
)

// Bucket names
var (
	bucketMovies = []byte("movies")
	bucketGenres = []byte("genres")
)

// Store implements domain.Mirror using BoltDB.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// New opens the mirror under baseDir. An empty baseDir gives a memory-only
// mirror with no persistence.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(baseDir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketMovies, bucketGenres} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

// === Movies ===

func (s *Store) GetMovies() ([]domain.Movie, bool) {
	var movies []domain.Movie
	ok := s.get(bucketMovies, "list", &movies)
	return movies, ok
}

func (s *Store) SaveMovies(movies []domain.Movie) error {
	return s.set(bucketMovies, "list", movies)
}

// === Genres ===

func (s *Store) GetGenres() ([]domain.Genre, bool) {
	var genres []domain.Genre
	ok := s.get(bucketGenres, "list", &genres)
	return genres, ok
}

func (s *Store) SaveGenres(genres []domain.Genre) error {
	return s.set(bucketGenres, "list", genres)
}

// === Invalidation ===

func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketMovies, bucketGenres} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
