// Package api is the HTTP client for the movie catalogue backend.
//
// The session is carried by an httpOnly cookie set on login/refresh; the
// cookie jar holds it for the life of the client and nothing above this
// package ever sees it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/jlasky/marquee/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Marquee/1.0"
)

// Client implements domain.CatalogueBackend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new catalogue backend client
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		logger: logger,
	}
}

// doRequest performs a JSON request against the backend. A transport
// failure maps to domain.ErrServerOffline; a non-2xx response maps to
// *domain.BackendError carrying the backend's own message.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("backend request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed", "path", path, "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("backend request error", "path", path, "status", resp.StatusCode)
		return nil, &domain.BackendError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(data),
		}
	}

	return data, nil
}

// Refresh attempts a silent session recovery using the ambient cookie
func (c *Client) Refresh(ctx context.Context) (string, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/v1/refresh", nil)
	if err != nil {
		return "", err
	}

	var resp refreshResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse refresh response: %w", err)
	}
	return resp.AccessToken, nil
}

// Login submits explicit credentials and returns the bearer token.
// The backend's rejection message is preserved under ErrAuthenticationFailed.
func (c *Client) Login(ctx context.Context, in domain.LoginInput) (string, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/v1/login", loginRequest{
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) {
			return "", fmt.Errorf("%w: %s", domain.ErrAuthenticationFailed, be.Error())
		}
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to parse login response: %w", err)
	}
	return resp.Token, nil
}

// Register creates an account. It does not establish a session; the caller
// must still log in.
func (c *Client) Register(ctx context.Context, in domain.RegisterInput) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/v1/register", registerRequest{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		Password:        in.Password,
		FavouriteGenres: in.FavouriteGenres,
		Role:            domain.RoleUser,
	})
	return err
}

// Logout requests server-side invalidation of the current session
func (c *Client) Logout(ctx context.Context, userID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/v1/logout", logoutRequest{UserID: userID})
	return err
}

// Profile returns the authenticated user's profile
func (c *Client) Profile(ctx context.Context) (domain.Identity, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return domain.Identity{}, err
	}

	var dto profileDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Identity{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return mapProfile(dto), nil
}

// UpdateProfile submits a partial profile update and returns the accepted
// profile as the backend now sees it
func (c *Client) UpdateProfile(ctx context.Context, in domain.ProfileUpdate) (domain.Identity, error) {
	data, err := c.doRequest(ctx, http.MethodPut, "/me", mapProfileUpdate(in))
	if err != nil {
		return domain.Identity{}, err
	}

	var dto profileDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Identity{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return mapProfile(dto), nil
}

// ResetPassword commits a password reset using an emailed token
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/reset-password", resetPasswordRequest{
		Token:       token,
		NewPassword: newPassword,
	})
	return err
}

// ListGenres returns the full genre catalogue
func (c *Client) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/genres", nil)
	if err != nil {
		return nil, err
	}

	var genres []domain.Genre
	if err := json.Unmarshal(data, &genres); err != nil {
		return nil, fmt.Errorf("failed to parse genres: %w", err)
	}
	return genres, nil
}

// CreateGenre upserts a genre by id
func (c *Client) CreateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/genre", g)
	if err != nil {
		return domain.Genre{}, err
	}

	var created domain.Genre
	if err := json.Unmarshal(data, &created); err != nil {
		return domain.Genre{}, fmt.Errorf("failed to parse genre: %w", err)
	}
	return created, nil
}

// ListMovies returns the full movie catalogue
func (c *Client) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/movies", nil)
	if err != nil {
		return nil, err
	}

	var movies []domain.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("failed to parse movies: %w", err)
	}
	return movies, nil
}

// CreateMovie persists a new catalogue entry and returns it with the
// server-assigned internal key
func (c *Client) CreateMovie(ctx context.Context, in domain.CreateMovieInput) (domain.Movie, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/addmovie", in)
	if err != nil {
		return domain.Movie{}, err
	}

	var created domain.Movie
	if err := json.Unmarshal(data, &created); err != nil {
		return domain.Movie{}, fmt.Errorf("failed to parse movie: %w", err)
	}
	return created, nil
}
