package availability

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/metadata"
	"github.com/couchpick/couchpick/internal/metadata/tmdb"
)

type stubSource struct {
	resp *tmdb.WatchProvidersResponse
	err  error
}

func (s *stubSource) WatchProviders(ctx context.Context, mediaType metadata.MediaType, id int) (*tmdb.WatchProvidersResponse, error) {
	return s.resp, s.err
}

func testCatalog() *Catalog {
	return NewCatalog([]string{"Netflix", "Amazon Prime Video", "BBC iPlayer", "ITVX"})
}

func newTestService(source ProviderSource) *Service {
	return NewService(source, testCatalog(), "GB", zerolog.Nop())
}

func TestService_Resolve_MatchesAllowList(t *testing.T) {
	source := &stubSource{
		resp: &tmdb.WatchProvidersResponse{
			Results: map[string]tmdb.RegionOffers{
				"GB": {
					Flatrate: []tmdb.ProviderOffer{
						{ProviderName: "Netflix"},
						{ProviderName: "Sky Go"}, // not allow-listed
					},
					Ads: []tmdb.ProviderOffer{
						{ProviderName: "ITVX"},
					},
					Free: []tmdb.ProviderOffer{
						{ProviderName: "BBC iPlayer"},
					},
				},
			},
		},
	}

	got, err := newTestService(source).Resolve(context.Background(), metadata.MediaTypeTV, 60059)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{"Netflix", "BBC iPlayer", "ITVX"}
	if len(got) != len(want) {
		t.Fatalf("Resolve() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Resolve()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestService_Resolve_RentBuyIgnored(t *testing.T) {
	source := &stubSource{
		resp: &tmdb.WatchProvidersResponse{
			Results: map[string]tmdb.RegionOffers{
				"GB": {
					Rent: []tmdb.ProviderOffer{{ProviderName: "Netflix"}},
					Buy:  []tmdb.ProviderOffer{{ProviderName: "Amazon Prime Video"}},
				},
			},
		},
	}

	got, err := newTestService(source).Resolve(context.Background(), metadata.MediaTypeMovie, 100088)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty (rent/buy never count)", got)
	}
}

func TestService_Resolve_RegionAbsent(t *testing.T) {
	source := &stubSource{
		resp: &tmdb.WatchProvidersResponse{
			Results: map[string]tmdb.RegionOffers{
				"US": {Flatrate: []tmdb.ProviderOffer{{ProviderName: "Netflix"}}},
			},
		},
	}

	got, err := newTestService(source).Resolve(context.Background(), metadata.MediaTypeTV, 1396)
	if err != nil {
		t.Fatalf("Resolve() error = %v (absent region must not be an error)", err)
	}
	if len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty", got)
	}
}

func TestService_Resolve_DuplicateProvidersCollapsed(t *testing.T) {
	source := &stubSource{
		resp: &tmdb.WatchProvidersResponse{
			Results: map[string]tmdb.RegionOffers{
				"GB": {
					Flatrate: []tmdb.ProviderOffer{{ProviderName: "Netflix"}},
					Ads:      []tmdb.ProviderOffer{{ProviderName: "Netflix"}},
				},
			},
		},
	}

	got, err := newTestService(source).Resolve(context.Background(), metadata.MediaTypeTV, 1396)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 1 || got[0] != "Netflix" {
		t.Errorf("Resolve() = %v, want [Netflix]", got)
	}
}

func TestService_Resolve_OnlyCatalogNames(t *testing.T) {
	source := &stubSource{
		resp: &tmdb.WatchProvidersResponse{
			Results: map[string]tmdb.RegionOffers{
				"GB": {
					Flatrate: []tmdb.ProviderOffer{
						{ProviderName: "Sky Go"},
						{ProviderName: "Paramount Plus"},
					},
				},
			},
		},
	}

	got, err := newTestService(source).Resolve(context.Background(), metadata.MediaTypeTV, 1396)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty (raw upstream names must never leak)", got)
	}
}

func TestCatalog_Dedupe(t *testing.T) {
	c := NewCatalog([]string{"Netflix", "ITVX", "Netflix"})
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if !c.Contains("Netflix") || !c.Contains("ITVX") {
		t.Error("expected Netflix and ITVX in catalog")
	}
	if c.Contains("Sky Go") {
		t.Error("Sky Go should not be in catalog")
	}
}
