// Package metadata queries the external movie metadata provider and can
// materialize a result into the local catalogue. The provider is bearer-
// authenticated independently of the backend's own session.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jlasky/marquee/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client implements domain.MetadataProvider
type Client struct {
	baseURL    string
	bearer     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a metadata provider client
func NewClient(baseURL, bearer string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		bearer:  bearer,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs a bearer-authenticated request against the provider.
// Network failures and non-2xx responses both map to ErrUpstreamUnavailable.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	c.logger.Debug("metadata request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("metadata request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("metadata request error", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	return body, nil
}

// SearchMovies returns one upstream page of results. The caller re-invokes
// with the next page number for more.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*domain.ExternalSearchPage, error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("language", "en-US")
	q.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(ctx, "/search/movie", q)
	if err != nil {
		return nil, err
	}

	var dto searchResponse
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	return mapSearchPage(dto), nil
}

// MovieDetail returns the full record for an external id
func (c *Client) MovieDetail(ctx context.Context, externalID int) (*domain.ExternalMovieDetail, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", externalID), nil)
	if err != nil {
		return nil, err
	}

	var dto movieDetailDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse movie detail: %w", err)
	}
	return mapDetail(dto), nil
}
