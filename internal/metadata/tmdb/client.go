package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/config"
)

var (
	ErrAPIKeyMissing    = errors.New("TMDB API key is not configured")
	ErrInvalidMediaType = errors.New("media type must be movie or tv")
)

// Media type path segments understood by the TMDB API.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// UpstreamError is returned when a TMDB call fails, whether by transport
// error or a non-2xx status. Status is 0 for transport failures.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("TMDB request failed: %s", e.Message)
	}
	return fmt.Sprintf("TMDB API error: status %d: %s", e.Status, e.Message)
}

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/configuration", c.config.BaseURL)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, endpoint, params, &result)
}

// SearchMulti searches movies and TV series by text query. Results whose
// media type is neither movie nor tv (people, collections) are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]NormalizedResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("%s/search/multi", c.config.BaseURL)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("region", c.config.Region)

	var response SearchMultiResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	results := make([]NormalizedResult, 0, len(response.Results))
	for _, r := range response.Results {
		if r.MediaType != MediaTypeMovie && r.MediaType != MediaTypeTV {
			continue
		}
		results = append(results, c.toResult(r, r.MediaType))
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("Multi search completed")

	return results, nil
}

// Recommendations fetches per-title recommendations for the given media type
// and TMDB id. Results keep the upstream relevance order.
func (c *Client) Recommendations(ctx context.Context, mediaType string, id int) ([]NormalizedResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if mediaType != MediaTypeMovie && mediaType != MediaTypeTV {
		return nil, ErrInvalidMediaType
	}

	endpoint := fmt.Sprintf("%s/%s/%d/recommendations", c.config.BaseURL, mediaType, id)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	params.Set("region", c.config.Region)

	var response RecommendationsResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	results := make([]NormalizedResult, 0, len(response.Results))
	for _, r := range response.Results {
		// Recommendation entries for /movie and /tv omit media_type; the
		// endpoint only ever returns the seed's own kind.
		mt := r.MediaType
		if mt == "" {
			mt = mediaType
		}
		results = append(results, c.toResult(r, mt))
	}

	c.logger.Debug().
		Str("mediaType", mediaType).
		Int("id", id).
		Int("results", len(results)).
		Msg("Recommendations fetched")

	return results, nil
}

// WatchProviders fetches the per-region streaming offers for a title.
func (c *Client) WatchProviders(ctx context.Context, mediaType string, id int) (*WatchProvidersResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if mediaType != MediaTypeMovie && mediaType != MediaTypeTV {
		return nil, ErrInvalidMediaType
	}

	endpoint := fmt.Sprintf("%s/%s/%d/watch/providers", c.config.BaseURL, mediaType, id)
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)

	var response WatchProvidersResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("mediaType", mediaType).
		Int("id", id).
		Int("regions", len(response.Results)).
		Msg("Watch providers fetched")

	return &response, nil
}

// GetImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) GetImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		upErr := &UpstreamError{Status: resp.StatusCode}
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			upErr.Message = errResp.StatusMessage
		}
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("message", upErr.Message).
			Msg("TMDB API error")
		return upErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// toResult converts a TMDB media entry to a NormalizedResult.
func (c *Client) toResult(r MediaResult, mediaType string) NormalizedResult {
	name := r.Title
	dateStr := r.ReleaseDate
	if mediaType == MediaTypeTV {
		name = r.Name
		dateStr = r.FirstAirDate
	}

	year := 0
	if len(dateStr) >= 4 {
		year, _ = strconv.Atoi(dateStr[:4])
	}

	result := NormalizedResult{
		ID:          r.ID,
		MediaType:   mediaType,
		Name:        name,
		Year:        year,
		VoteAverage: r.VoteAverage,
		VoteCount:   r.VoteCount,
		Overview:    r.Overview,
	}

	if r.PosterPath != nil {
		result.PosterURL = c.GetImageURL(*r.PosterPath, "w500")
	}

	return result
}
