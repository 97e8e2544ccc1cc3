package api

import (
	"context"

	"github.com/couchpick/couchpick/internal/profile"
	"github.com/couchpick/couchpick/internal/recommend"
)

// profileSeeds adapts the taste profile into recommendation seeds.
type profileSeeds struct {
	service *profile.Service
}

func (p *profileSeeds) Seeds(ctx context.Context) ([]recommend.Seed, error) {
	items, err := p.service.ListLiked(ctx)
	if err != nil {
		return nil, err
	}

	seeds := make([]recommend.Seed, 0, len(items))
	for _, item := range items {
		seeds = append(seeds, recommend.Seed{
			TmdbID:    item.TmdbID,
			MediaType: item.MediaType,
			Name:      item.Name,
		})
	}
	return seeds, nil
}
