package metadata

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/metadata/tmdb"
)

// mockTMDB is a scriptable TMDBClient that counts upstream calls.
type mockTMDB struct {
	configured bool

	searchResults []tmdb.NormalizedResult
	searchErr     error
	searchCalls   int

	recsResults map[string][]tmdb.NormalizedResult
	recsErr     error
	recsCalls   int

	providers     map[string]*tmdb.WatchProvidersResponse
	providersErr  error
	providerCalls int
}

func (m *mockTMDB) IsConfigured() bool             { return m.configured }
func (m *mockTMDB) Test(ctx context.Context) error { return nil }

func (m *mockTMDB) SearchMulti(ctx context.Context, query string) ([]tmdb.NormalizedResult, error) {
	m.searchCalls++
	return m.searchResults, m.searchErr
}

func (m *mockTMDB) Recommendations(ctx context.Context, mediaType string, id int) ([]tmdb.NormalizedResult, error) {
	m.recsCalls++
	if m.recsErr != nil {
		return nil, m.recsErr
	}
	return m.recsResults[key(mediaType, id)], nil
}

func (m *mockTMDB) WatchProviders(ctx context.Context, mediaType string, id int) (*tmdb.WatchProvidersResponse, error) {
	m.providerCalls++
	if m.providersErr != nil {
		return nil, m.providersErr
	}
	if p, ok := m.providers[key(mediaType, id)]; ok {
		return p, nil
	}
	return &tmdb.WatchProvidersResponse{Results: map[string]tmdb.RegionOffers{}}, nil
}

func key(mediaType string, id int) string {
	return fmt.Sprintf("%s:%d", mediaType, id)
}

func newMockService(m *mockTMDB) *Service {
	return NewServiceWithClient(m, zerolog.Nop())
}

func TestService_Search_CachesResults(t *testing.T) {
	mock := &mockTMDB{
		configured: true,
		searchResults: []tmdb.NormalizedResult{
			{ID: 1396, MediaType: "tv", Name: "Breaking Bad", VoteAverage: 8.9, VoteCount: 12000},
		},
	}
	service := newMockService(mock)
	ctx := context.Background()

	first, err := service.Search(ctx, "Breaking Bad")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	second, err := service.Search(ctx, "Breaking Bad")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if mock.searchCalls != 1 {
		t.Errorf("searchCalls = %d, want 1 (second call should hit cache)", mock.searchCalls)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("results = %d/%d, want 1/1", len(first), len(second))
	}
	if first[0].MediaType != MediaTypeTV {
		t.Errorf("MediaType = %q, want %q", first[0].MediaType, MediaTypeTV)
	}
}

func TestService_Search_NotConfigured(t *testing.T) {
	service := newMockService(&mockTMDB{configured: false})

	_, err := service.Search(context.Background(), "anything")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Search() error = %v, want ErrNotConfigured", err)
	}
}

func TestService_Recommendations_CachesPerTitle(t *testing.T) {
	mock := &mockTMDB{
		configured: true,
		recsResults: map[string][]tmdb.NormalizedResult{
			key("tv", 6): {{ID: 60059, MediaType: "tv", Name: "Better Call Saul"}},
		},
	}
	service := newMockService(mock)
	ctx := context.Background()

	if _, err := service.Recommendations(ctx, MediaTypeTV, 6); err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if _, err := service.Recommendations(ctx, MediaTypeTV, 6); err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if mock.recsCalls != 1 {
		t.Errorf("recsCalls = %d, want 1", mock.recsCalls)
	}

	// A different title is a different key space entry
	if _, err := service.Recommendations(ctx, MediaTypeMovie, 6); err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if mock.recsCalls != 2 {
		t.Errorf("recsCalls = %d, want 2", mock.recsCalls)
	}
}

func TestService_Recommendations_ErrorNotCached(t *testing.T) {
	mock := &mockTMDB{
		configured: true,
		recsErr:    &tmdb.UpstreamError{Status: 500, Message: "boom"},
	}
	service := newMockService(mock)
	ctx := context.Background()

	_, err := service.Recommendations(ctx, MediaTypeTV, 6)
	if err == nil {
		t.Fatal("expected error")
	}

	var upErr *tmdb.UpstreamError
	if !errors.As(err, &upErr) {
		t.Errorf("error = %v, want wrapped *tmdb.UpstreamError", err)
	}

	// Failed lookups are retried on the next call, not served from cache
	_, _ = service.Recommendations(ctx, MediaTypeTV, 6)
	if mock.recsCalls != 2 {
		t.Errorf("recsCalls = %d, want 2", mock.recsCalls)
	}
}

func TestService_WatchProviders_Caches(t *testing.T) {
	mock := &mockTMDB{
		configured: true,
		providers: map[string]*tmdb.WatchProvidersResponse{
			key("tv", 9): {
				ID: 9,
				Results: map[string]tmdb.RegionOffers{
					"GB": {Flatrate: []tmdb.ProviderOffer{{ProviderName: "Netflix"}}},
				},
			},
		},
	}
	service := newMockService(mock)
	ctx := context.Background()

	first, err := service.WatchProviders(ctx, MediaTypeTV, 9)
	if err != nil {
		t.Fatalf("WatchProviders() error = %v", err)
	}
	if _, err := service.WatchProviders(ctx, MediaTypeTV, 9); err != nil {
		t.Fatalf("WatchProviders() error = %v", err)
	}

	if mock.providerCalls != 1 {
		t.Errorf("providerCalls = %d, want 1", mock.providerCalls)
	}
	if len(first.Results["GB"].Flatrate) != 1 {
		t.Errorf("GB flatrate = %+v, want one entry", first.Results["GB"].Flatrate)
	}
}

func TestService_ClearCache(t *testing.T) {
	mock := &mockTMDB{
		configured:    true,
		searchResults: []tmdb.NormalizedResult{{ID: 1, MediaType: "movie", Name: "Test"}},
	}
	service := newMockService(mock)
	ctx := context.Background()

	_, _ = service.Search(ctx, "test")
	service.ClearCache()
	_, _ = service.Search(ctx, "test")

	if mock.searchCalls != 2 {
		t.Errorf("searchCalls = %d, want 2 after cache clear", mock.searchCalls)
	}
}
