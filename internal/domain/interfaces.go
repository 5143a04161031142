package domain

import "context"

// CatalogueBackend is the REST surface of the movie catalogue service.
// The session cookie is held by the transport layer and is opaque here.
type CatalogueBackend interface {
	// Refresh attempts a silent session recovery using the ambient cookie.
	// Returns the new bearer token on success.
	Refresh(ctx context.Context) (string, error)

	// Login submits explicit credentials and returns the bearer token
	Login(ctx context.Context, in LoginInput) (string, error)

	// Register creates an account. Does not establish a session.
	Register(ctx context.Context, in RegisterInput) error

	// Logout requests server-side invalidation of the current session
	Logout(ctx context.Context, userID string) error

	// Profile returns the authenticated user's profile
	Profile(ctx context.Context) (Identity, error)

	// UpdateProfile submits a partial profile update and returns the result
	UpdateProfile(ctx context.Context, in ProfileUpdate) (Identity, error)

	// ResetPassword commits a password reset using an emailed token
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ListGenres returns the full genre catalogue
	ListGenres(ctx context.Context) ([]Genre, error)

	// CreateGenre upserts a genre by id
	CreateGenre(ctx context.Context, g Genre) (Genre, error)

	// ListMovies returns the full movie catalogue
	ListMovies(ctx context.Context) ([]Movie, error)

	// CreateMovie persists a new catalogue entry and returns it with the
	// server-assigned internal key
	CreateMovie(ctx context.Context, in CreateMovieInput) (Movie, error)
}

// MetadataProvider is the external movie metadata service, authenticated
// independently of the catalogue backend.
type MetadataProvider interface {
	// SearchMovies returns one upstream page of results for the query
	SearchMovies(ctx context.Context, query string, page int) (*ExternalSearchPage, error)

	// MovieDetail returns the full record for an external id
	MovieDetail(ctx context.Context, externalID int) (*ExternalMovieDetail, error)
}

// Mirror is the local movie/genre store used only when no backend is
// configured. Backend-backed and mirror-backed modes are never mixed.
type Mirror interface {
	GetMovies() ([]Movie, bool)
	SaveMovies(movies []Movie) error

	GetGenres() ([]Genre, bool)
	SaveGenres(genres []Genre) error

	InvalidateAll()
	Close() error
}
