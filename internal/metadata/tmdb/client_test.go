package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.TMDBConfig{
		APIKey:       "test-api-key",
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Timeout:      5,
		Region:       "GB",
	}
	return NewClient(cfg, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestClient_Name(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	if client.Name() != "tmdb" {
		t.Errorf("Name() = %q, want %q", client.Name(), "tmdb")
	}
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.TMDBConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_SearchMulti(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if query := r.URL.Query().Get("query"); query != "Breaking Bad" {
			t.Errorf("unexpected query: %s", query)
		}
		if region := r.URL.Query().Get("region"); region != "GB" {
			t.Errorf("unexpected region: %s", region)
		}

		response := SearchMultiResponse{
			Page:         1,
			TotalResults: 3,
			TotalPages:   1,
			Results: []MediaResult{
				{
					ID:           1396,
					MediaType:    "tv",
					Name:         "Breaking Bad",
					FirstAirDate: "2008-01-20",
					VoteAverage:  8.9,
					VoteCount:    12000,
					PosterPath:   strPtr("/bb.jpg"),
				},
				{
					ID:          559969,
					MediaType:   "movie",
					Title:       "El Camino: A Breaking Bad Movie",
					ReleaseDate: "2019-10-11",
					VoteAverage: 6.9,
					VoteCount:   4500,
				},
				{
					ID:        17419,
					MediaType: "person",
					Name:      "Bryan Cranston",
				},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server)
	results, err := client.SearchMulti(context.Background(), "Breaking Bad")
	if err != nil {
		t.Fatalf("SearchMulti() error = %v", err)
	}

	// Person entries are dropped
	if len(results) != 2 {
		t.Fatalf("SearchMulti() returned %d results, want 2", len(results))
	}

	if results[0].Name != "Breaking Bad" {
		t.Errorf("results[0].Name = %q, want %q", results[0].Name, "Breaking Bad")
	}
	if results[0].MediaType != MediaTypeTV {
		t.Errorf("results[0].MediaType = %q, want %q", results[0].MediaType, MediaTypeTV)
	}
	if results[0].Year != 2008 {
		t.Errorf("results[0].Year = %d, want %d", results[0].Year, 2008)
	}
	if results[0].PosterURL == "" {
		t.Error("results[0].PosterURL should not be empty")
	}
	if results[1].Name != "El Camino: A Breaking Bad Movie" {
		t.Errorf("results[1].Name = %q", results[1].Name)
	}
	if results[1].MediaType != MediaTypeMovie {
		t.Errorf("results[1].MediaType = %q, want %q", results[1].MediaType, MediaTypeMovie)
	}
}

func TestClient_SearchMulti_NoAPIKey(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	_, err := client.SearchMulti(context.Background(), "Breaking Bad")
	if err != ErrAPIKeyMissing {
		t.Errorf("SearchMulti() error = %v, want %v", err, ErrAPIKeyMissing)
	}
}

func TestClient_Recommendations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396/recommendations" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		response := RecommendationsResponse{
			Page:         1,
			TotalResults: 2,
			TotalPages:   1,
			Results: []MediaResult{
				{
					ID:           60059,
					Name:         "Better Call Saul",
					FirstAirDate: "2015-02-08",
					VoteAverage:  8.7,
					VoteCount:    2000,
				},
				{
					ID:           1398,
					Name:         "The Sopranos",
					FirstAirDate: "1999-01-10",
					VoteAverage:  8.6,
					VoteCount:    3100,
				},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server)
	results, err := client.Recommendations(context.Background(), MediaTypeTV, 1396)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Recommendations() returned %d results, want 2", len(results))
	}
	if results[0].ID != 60059 {
		t.Errorf("results[0].ID = %d, want %d", results[0].ID, 60059)
	}
	// media_type is absent from recommendation entries; the seed's kind applies
	if results[0].MediaType != MediaTypeTV {
		t.Errorf("results[0].MediaType = %q, want %q", results[0].MediaType, MediaTypeTV)
	}
	if results[0].VoteAverage != 8.7 {
		t.Errorf("results[0].VoteAverage = %v, want %v", results[0].VoteAverage, 8.7)
	}
}

func TestClient_Recommendations_InvalidMediaType(t *testing.T) {
	client := NewClient(config.TMDBConfig{APIKey: "k"}, zerolog.Nop())
	_, err := client.Recommendations(context.Background(), "person", 1)
	if err != ErrInvalidMediaType {
		t.Errorf("Recommendations() error = %v, want %v", err, ErrInvalidMediaType)
	}
}

func TestClient_WatchProviders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/60059/watch/providers" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		response := WatchProvidersResponse{
			ID: 60059,
			Results: map[string]RegionOffers{
				"GB": {
					Flatrate: []ProviderOffer{
						{ProviderID: 8, ProviderName: "Netflix"},
					},
					Rent: []ProviderOffer{
						{ProviderID: 2, ProviderName: "Apple TV"},
					},
				},
				"US": {
					Flatrate: []ProviderOffer{
						{ProviderID: 8, ProviderName: "Netflix"},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server)
	result, err := client.WatchProviders(context.Background(), MediaTypeTV, 60059)
	if err != nil {
		t.Fatalf("WatchProviders() error = %v", err)
	}

	gb, ok := result.Results["GB"]
	if !ok {
		t.Fatal("expected GB region in results")
	}
	if len(gb.Flatrate) != 1 || gb.Flatrate[0].ProviderName != "Netflix" {
		t.Errorf("GB flatrate = %+v, want Netflix", gb.Flatrate)
	}
	if len(gb.Rent) != 1 {
		t.Errorf("GB rent = %+v, want one entry", gb.Rent)
	}
}

func TestClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(ErrorResponse{
			StatusCode:    25,
			StatusMessage: "Your request count is over the allowed limit.",
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.SearchMulti(context.Background(), "test")

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("SearchMulti() error = %v, want *UpstreamError", err)
	}
	if upErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", upErr.Status, http.StatusTooManyRequests)
	}
	if upErr.Message == "" {
		t.Error("Message should not be empty")
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	client := newTestClient(server)
	_, err := client.SearchMulti(context.Background(), "test")

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("SearchMulti() error = %v, want *UpstreamError", err)
	}
	if upErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failure", upErr.Status)
	}
}

func TestClient_GetImageURL(t *testing.T) {
	client := NewClient(config.TMDBConfig{
		ImageBaseURL: "https://image.tmdb.org/t/p",
	}, zerolog.Nop())

	tests := []struct {
		path string
		size string
		want string
	}{
		{"/abc.jpg", "w500", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"/poster.jpg", "original", "https://image.tmdb.org/t/p/original/poster.jpg"},
		{"", "w500", ""},
	}

	for _, tt := range tests {
		got := client.GetImageURL(tt.path, tt.size)
		if got != tt.want {
			t.Errorf("GetImageURL(%q, %q) = %q, want %q", tt.path, tt.size, got, tt.want)
		}
	}
}
