package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/config"
	"github.com/couchpick/couchpick/internal/metadata/tmdb"
)

var ErrNotConfigured = errors.New("TMDB is not configured")

// TMDBClient is the subset of the tmdb client used by the service.
// Abstracted for testing/mocking.
type TMDBClient interface {
	IsConfigured() bool
	Test(ctx context.Context) error
	SearchMulti(ctx context.Context, query string) ([]tmdb.NormalizedResult, error)
	Recommendations(ctx context.Context, mediaType string, id int) ([]tmdb.NormalizedResult, error)
	WatchProviders(ctx context.Context, mediaType string, id int) (*tmdb.WatchProvidersResponse, error)
}

// Service fronts the TMDB client with the shared response cache. All
// downstream consumers (search handlers, the aggregator, the availability
// resolver) go through here so repeated queries within the TTL are free.
type Service struct {
	tmdb   TMDBClient
	cache  *Cache
	logger zerolog.Logger
}

// NewService creates a new metadata service with a real TMDB client.
func NewService(cfg config.TMDBConfig, logger zerolog.Logger) *Service {
	return &Service{
		tmdb:   tmdb.NewClient(cfg, logger),
		cache:  NewCache(DefaultCacheConfig()),
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

// NewServiceWithClient creates a new metadata service with a custom client
// (for testing/mocking).
func NewServiceWithClient(client TMDBClient, logger zerolog.Logger) *Service {
	return &Service{
		tmdb:   client,
		cache:  NewCache(DefaultCacheConfig()),
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

// IsConfigured returns true if the TMDB client has an API key.
func (s *Service) IsConfigured() bool {
	return s.tmdb.IsConfigured()
}

// Test verifies upstream connectivity.
func (s *Service) Test(ctx context.Context) error {
	return s.tmdb.Test(ctx)
}

// ClearCache drops all cached responses.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// CacheLen returns the number of cached entries.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// Search searches movies and TV series by text query.
func (s *Service) Search(ctx context.Context, query string) ([]Title, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	cacheKey := "search:" + query
	if results, ok := s.cache.GetTitles(cacheKey); ok {
		s.logger.Debug().Str("query", query).Msg("Search cache hit")
		return results, nil
	}

	raw, err := s.tmdb.SearchMulti(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Title, len(raw))
	for i, r := range raw {
		results[i] = fromTMDB(r)
	}

	s.cache.Set(cacheKey, results)
	return results, nil
}

// Recommendations fetches per-title recommendations in upstream relevance
// order. Callers decide how to handle a failure; the aggregator treats any
// error as zero results for that seed.
func (s *Service) Recommendations(ctx context.Context, mediaType MediaType, id int) ([]Title, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	cacheKey := fmt.Sprintf("recs:%s:%d", mediaType, id)
	if results, ok := s.cache.GetTitles(cacheKey); ok {
		s.logger.Debug().Str("mediaType", string(mediaType)).Int("id", id).Msg("Recommendations cache hit")
		return results, nil
	}

	raw, err := s.tmdb.Recommendations(ctx, string(mediaType), id)
	if err != nil {
		return nil, fmt.Errorf("recommendations failed: %w", err)
	}

	results := make([]Title, len(raw))
	for i, r := range raw {
		results[i] = fromTMDB(r)
	}

	s.cache.Set(cacheKey, results)
	return results, nil
}

// WatchProviders fetches the per-region streaming offers for a title.
func (s *Service) WatchProviders(ctx context.Context, mediaType MediaType, id int) (*tmdb.WatchProvidersResponse, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	cacheKey := fmt.Sprintf("providers:%s:%d", mediaType, id)
	if result, ok := s.cache.GetWatchProviders(cacheKey); ok {
		s.logger.Debug().Str("mediaType", string(mediaType)).Int("id", id).Msg("Watch providers cache hit")
		return result, nil
	}

	result, err := s.tmdb.WatchProviders(ctx, string(mediaType), id)
	if err != nil {
		return nil, fmt.Errorf("watch providers lookup failed: %w", err)
	}

	s.cache.Set(cacheKey, result)
	return result, nil
}
