package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/availability"
	"github.com/couchpick/couchpick/internal/profile"
	"github.com/couchpick/couchpick/internal/scheduler"
)

// AvailabilityRefreshTask re-resolves streaming availability for every
// watch-later title so stored provider names track catalog churn.
type AvailabilityRefreshTask struct {
	profile      *profile.Service
	availability *availability.Service
	logger       *zerolog.Logger
}

// NewAvailabilityRefreshTask creates a new availability refresh task.
func NewAvailabilityRefreshTask(
	profileSvc *profile.Service,
	availabilitySvc *availability.Service,
	logger *zerolog.Logger,
) *AvailabilityRefreshTask {
	subLogger := logger.With().Str("task", "availability-refresh").Logger()
	return &AvailabilityRefreshTask{
		profile:      profileSvc,
		availability: availabilitySvc,
		logger:       &subLogger,
	}
}

// Run refreshes providers for all watch-later titles. A failure for one
// title is logged and skipped so the rest of the list still refreshes.
func (t *AvailabilityRefreshTask) Run(ctx context.Context) error {
	items, err := t.profile.ListWatchlist(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		t.logger.Debug().Msg("Watch-later list is empty, nothing to refresh")
		return nil
	}

	updated := 0
	for _, item := range items {
		providers, err := t.availability.Resolve(ctx, item.MediaType, item.TmdbID)
		if err != nil {
			t.logger.Warn().
				Err(err).
				Int("tmdbId", item.TmdbID).
				Str("mediaType", string(item.MediaType)).
				Str("name", item.Name).
				Msg("Failed to resolve availability, keeping stored providers")
			continue
		}

		if err := t.profile.UpdateWatchlistProviders(ctx, item.TmdbID, item.MediaType, providers); err != nil {
			t.logger.Warn().
				Err(err).
				Int("tmdbId", item.TmdbID).
				Str("name", item.Name).
				Msg("Failed to store refreshed providers")
			continue
		}
		updated++
	}

	t.logger.Info().
		Int("total", len(items)).
		Int("updated", updated).
		Msg("Refreshed watch-later availability")
	return nil
}

// RegisterAvailabilityRefreshTask registers the availability refresh task
// with the scheduler.
func RegisterAvailabilityRefreshTask(sched *scheduler.Scheduler, task *AvailabilityRefreshTask) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          "availability-refresh",
		Name:        "Refresh Watch-Later Availability",
		Description: "Re-resolves streaming providers for every watch-later title",
		Cron:        "0 6 * * *", // 6am daily, after overnight catalog updates
		RunOnStart:  false,
		Func:        task.Run,
	})
}
