package availability

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/metadata"
	"github.com/couchpick/couchpick/internal/metadata/tmdb"
)

// ProviderSource is the metadata operation the resolver depends on.
type ProviderSource interface {
	WatchProviders(ctx context.Context, mediaType metadata.MediaType, id int) (*tmdb.WatchProvidersResponse, error)
}

// Service resolves which allow-listed providers currently offer a title in
// the configured region. Only subscription, free and ad-supported offers
// count; rent and buy never make a title "available".
type Service struct {
	source  ProviderSource
	catalog *Catalog
	region  string
	logger  zerolog.Logger
}

// NewService creates a new availability resolver.
func NewService(source ProviderSource, catalog *Catalog, region string, logger zerolog.Logger) *Service {
	return &Service{
		source:  source,
		catalog: catalog,
		region:  region,
		logger:  logger.With().Str("component", "availability").Logger(),
	}
}

// Catalog returns the provider allow-list the resolver matches against.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Resolve returns the allow-listed provider names offering the title in the
// target region. An empty result is a normal outcome: the title may have no
// regional entry at all, or only rent/buy offers. The returned names are
// deduplicated and follow catalog configuration order.
func (s *Service) Resolve(ctx context.Context, mediaType metadata.MediaType, id int) ([]string, error) {
	resp, err := s.source.WatchProviders(ctx, mediaType, id)
	if err != nil {
		return nil, err
	}

	region, ok := resp.Results[s.region]
	if !ok {
		return []string{}, nil
	}

	offered := make(map[string]struct{})
	for _, offers := range [][]tmdb.ProviderOffer{region.Flatrate, region.Free, region.Ads} {
		for _, offer := range offers {
			offered[offer.ProviderName] = struct{}{}
		}
	}

	matched := make([]string, 0, len(offered))
	for _, name := range s.catalog.Names() {
		if _, ok := offered[name]; ok {
			matched = append(matched, name)
		}
	}

	s.logger.Debug().
		Str("mediaType", string(mediaType)).
		Int("id", id).
		Int("offered", len(offered)).
		Int("matched", len(matched)).
		Msg("Resolved availability")

	return matched, nil
}
