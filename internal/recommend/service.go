package recommend

import (
	"context"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/metadata"
)

// Fan-out and filtering bounds. The seed and per-seed caps keep one
// aggregation under 45 dependent upstream calls worst case.
const (
	maxSeeds       = 3
	maxPerSeed     = 15
	minVoteAverage = 6.0
	minVoteCount   = 50
	maxAvailable   = 12
	maxFallback    = 6
)

// Seed is the minimal projection of a liked title used to drive a
// recommendation query.
type Seed struct {
	TmdbID    int                `json:"tmdbId"`
	MediaType metadata.MediaType `json:"mediaType"`
	Name      string             `json:"name"`
}

// Key returns the id+kind identity of the seed.
func (s Seed) Key() string {
	return metadata.Title{ID: s.TmdbID, MediaType: s.MediaType}.Key()
}

// Candidate is a recommended title annotated with its source seed and the
// allow-listed providers it is offered on.
type Candidate struct {
	metadata.Title
	SourceSeed string   `json:"sourceSeed"`
	Providers  []string `json:"providers"`
	Available  bool     `json:"available"`
}

// Result is the partitioned, ranked output of one aggregation. Available
// holds candidates offered on the user's services; Fallback holds candidates
// that passed the quality gate but matched no provider, kept because provider
// coverage is sparse relative to the catalog of good recommendations.
type Result struct {
	Available []Candidate `json:"available"`
	Fallback  []Candidate `json:"fallback"`
}

// Pick returns one random candidate from the available tier, or nil when the
// tier is empty.
func (r Result) Pick() *Candidate {
	if len(r.Available) == 0 {
		return nil
	}
	c := r.Available[rand.Intn(len(r.Available))]
	return &c
}

// RecommendationSource is the metadata operation the aggregator fans out to.
type RecommendationSource interface {
	Recommendations(ctx context.Context, mediaType metadata.MediaType, id int) ([]metadata.Title, error)
}

// AvailabilityResolver maps a title to the allow-listed providers offering it.
type AvailabilityResolver interface {
	Resolve(ctx context.Context, mediaType metadata.MediaType, id int) ([]string, error)
}

// Service is the recommendation aggregator: it fans out per-seed
// recommendation queries, deduplicates, applies the quality gate, resolves
// availability per candidate and ranks the two output tiers.
type Service struct {
	source   RecommendationSource
	resolver AvailabilityResolver
	logger   zerolog.Logger
}

// NewService creates a new recommendation aggregator.
func NewService(source RecommendationSource, resolver AvailabilityResolver, logger zerolog.Logger) *Service {
	return &Service{
		source:   source,
		resolver: resolver,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Aggregate produces ranked recommendations for the given taste profile.
// The profile is the full ordered liked list; only the most recently added
// maxSeeds entries are queried, but every profile entry is excluded from the
// output. A failing seed or provider lookup degrades to partial results and
// never aborts the aggregation.
func (s *Service) Aggregate(ctx context.Context, profile []Seed) Result {
	result := Result{
		Available: []Candidate{},
		Fallback:  []Candidate{},
	}

	if len(profile) == 0 {
		return result
	}

	seeds := profile
	if len(seeds) > maxSeeds {
		seeds = seeds[len(seeds)-maxSeeds:]
	}

	profileKeys := make(map[string]struct{}, len(profile))
	for _, p := range profile {
		profileKeys[p.Key()] = struct{}{}
	}

	// Collect candidates in discovery order: seeds in profile order, each
	// seed's recommendations in upstream relevance order. First occurrence
	// of a title wins; later duplicates from other seeds are dropped.
	seen := make(map[string]struct{})
	var pool []Candidate
	failedSeeds := 0

	for _, seed := range seeds {
		recs, err := s.source.Recommendations(ctx, seed.MediaType, seed.TmdbID)
		if err != nil {
			failedSeeds++
			s.logger.Warn().
				Err(err).
				Str("seed", seed.Name).
				Msg("Seed recommendation query failed, continuing with remaining seeds")
			continue
		}

		if len(recs) > maxPerSeed {
			recs = recs[:maxPerSeed]
		}

		for _, title := range recs {
			key := title.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			if _, ok := profileKeys[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			if title.VoteAverage < minVoteAverage || title.VoteCount < minVoteCount {
				continue
			}

			pool = append(pool, Candidate{
				Title:      title,
				SourceSeed: seed.Name,
			})
		}
	}

	for i := range pool {
		providers, err := s.resolver.Resolve(ctx, pool[i].MediaType, pool[i].ID)
		if err != nil {
			// Degrade to "not available": the candidate survives in the
			// fallback tier rather than vanishing.
			s.logger.Warn().
				Err(err).
				Str("title", pool[i].Name).
				Msg("Provider lookup failed, treating candidate as unavailable")
			providers = nil
		}

		if len(providers) > 0 {
			pool[i].Providers = providers
			pool[i].Available = true
			result.Available = append(result.Available, pool[i])
		} else {
			pool[i].Providers = []string{}
			result.Fallback = append(result.Fallback, pool[i])
		}
	}

	sortByScore(result.Available)
	sortByScore(result.Fallback)

	if len(result.Available) > maxAvailable {
		result.Available = result.Available[:maxAvailable]
	}
	if len(result.Fallback) > maxFallback {
		result.Fallback = result.Fallback[:maxFallback]
	}

	s.logger.Info().
		Int("seeds", len(seeds)).
		Int("failedSeeds", failedSeeds).
		Int("available", len(result.Available)).
		Int("fallback", len(result.Fallback)).
		Msg("Aggregation completed")

	return result
}

// sortByScore sorts candidates by vote average descending. The sort is
// stable: equal scores keep their discovery order.
func sortByScore(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].VoteAverage > candidates[j].VoteAverage
	})
}
