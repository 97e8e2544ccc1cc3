package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/couchpick/couchpick/internal/metadata"
)

var (
	ErrDuplicate = errors.New("title is already in the list")
	ErrNotFound  = errors.New("title is not in the list")
)

// Service manages the persisted taste profile (liked titles) and the
// watch-later list. Every mutation is written through to SQLite before it
// returns, so the in-memory view and the persisted state cannot diverge.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new profile service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "profile").Logger(),
	}
}

// ListLiked returns the taste profile in insertion order.
func (s *Service) ListLiked(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tmdb_id, media_type, name, added_at FROM liked_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list liked items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.TmdbID, &item.MediaType, &item.Name, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan liked item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddLiked appends a title to the taste profile. Identity is id+kind:
// adding a title that is already present returns ErrDuplicate.
func (s *Service) AddLiked(ctx context.Context, input AddInput) (*Item, error) {
	if !input.MediaType.Valid() {
		return nil, fmt.Errorf("invalid media type %q", input.MediaType)
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM liked_items WHERE tmdb_id = ? AND media_type = ?)`,
		input.TmdbID, input.MediaType).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check liked item: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO liked_items (tmdb_id, media_type, name) VALUES (?, ?, ?)`,
		input.TmdbID, input.MediaType, input.Name)
	if err != nil {
		return nil, fmt.Errorf("insert liked item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("liked item id: %w", err)
	}

	item := &Item{}
	err = s.db.QueryRowContext(ctx,
		`SELECT id, tmdb_id, media_type, name, added_at FROM liked_items WHERE id = ?`, id).
		Scan(&item.ID, &item.TmdbID, &item.MediaType, &item.Name, &item.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("read back liked item: %w", err)
	}

	s.logger.Info().
		Int("tmdbId", input.TmdbID).
		Str("mediaType", string(input.MediaType)).
		Str("name", input.Name).
		Msg("Added liked title")

	return item, nil
}

// RemoveLiked removes a title from the taste profile.
func (s *Service) RemoveLiked(ctx context.Context, tmdbID int, mediaType metadata.MediaType) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM liked_items WHERE tmdb_id = ? AND media_type = ?`, tmdbID, mediaType)
	if err != nil {
		return fmt.Errorf("delete liked item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearLiked removes every entry of the taste profile.
func (s *Service) ClearLiked(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM liked_items`); err != nil {
		return fmt.Errorf("clear liked items: %w", err)
	}
	s.logger.Info().Msg("Cleared taste profile")
	return nil
}

// ListWatchlist returns the watch-later list in insertion order.
func (s *Service) ListWatchlist(ctx context.Context) ([]WatchlistItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tmdb_id, media_type, name, year, vote_average, vote_count, overview, poster_path, providers, added_at
		 FROM watchlist_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist items: %w", err)
	}
	defer rows.Close()

	items := []WatchlistItem{}
	for rows.Next() {
		item, err := scanWatchlistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// AddWatchlist appends a title to the watch-later list.
func (s *Service) AddWatchlist(ctx context.Context, input WatchlistInput) (*WatchlistItem, error) {
	if !input.MediaType.Valid() {
		return nil, fmt.Errorf("invalid media type %q", input.MediaType)
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM watchlist_items WHERE tmdb_id = ? AND media_type = ?)`,
		input.TmdbID, input.MediaType).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check watchlist item: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	providers := input.Providers
	if providers == nil {
		providers = []string{}
	}
	providersJSON, err := json.Marshal(providers)
	if err != nil {
		return nil, fmt.Errorf("encode providers: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO watchlist_items (tmdb_id, media_type, name, year, vote_average, vote_count, overview, poster_path, providers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.TmdbID, input.MediaType, input.Name, input.Year,
		input.VoteAverage, input.VoteCount, input.Overview, input.PosterURL, string(providersJSON))
	if err != nil {
		return nil, fmt.Errorf("insert watchlist item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("watchlist item id: %w", err)
	}

	item, err := s.getWatchlistByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("tmdbId", input.TmdbID).
		Str("mediaType", string(input.MediaType)).
		Str("name", input.Name).
		Msg("Added watch-later title")

	return item, nil
}

// RemoveWatchlist removes a title from the watch-later list.
func (s *Service) RemoveWatchlist(ctx context.Context, tmdbID int, mediaType metadata.MediaType) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE tmdb_id = ? AND media_type = ?`, tmdbID, mediaType)
	if err != nil {
		return fmt.Errorf("delete watchlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearWatchlist removes every watch-later entry.
func (s *Service) ClearWatchlist(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM watchlist_items`); err != nil {
		return fmt.Errorf("clear watchlist items: %w", err)
	}
	s.logger.Info().Msg("Cleared watch-later list")
	return nil
}

// MarkWatched promotes a title into the taste profile as a new seed and
// drops it from the watch-later list if present. The two writes share a
// transaction so a crash cannot leave them diverged.
func (s *Service) MarkWatched(ctx context.Context, input AddInput) (*Item, error) {
	if !input.MediaType.Valid() {
		return nil, fmt.Errorf("invalid media type %q", input.MediaType)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mark watched: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM liked_items WHERE tmdb_id = ? AND media_type = ?)`,
		input.TmdbID, input.MediaType).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check liked item: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO liked_items (tmdb_id, media_type, name) VALUES (?, ?, ?)`,
		input.TmdbID, input.MediaType, input.Name)
	if err != nil {
		return nil, fmt.Errorf("insert liked item: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE tmdb_id = ? AND media_type = ?`,
		input.TmdbID, input.MediaType); err != nil {
		return nil, fmt.Errorf("remove from watchlist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("liked item id: %w", err)
	}

	item := &Item{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, tmdb_id, media_type, name, added_at FROM liked_items WHERE id = ?`, id).
		Scan(&item.ID, &item.TmdbID, &item.MediaType, &item.Name, &item.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("read back liked item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mark watched: %w", err)
	}

	s.logger.Info().
		Int("tmdbId", input.TmdbID).
		Str("mediaType", string(input.MediaType)).
		Str("name", input.Name).
		Msg("Marked title watched")

	return item, nil
}

// UpdateWatchlistProviders replaces the stored provider names for one
// watch-later entry. Used by the availability refresh job.
func (s *Service) UpdateWatchlistProviders(ctx context.Context, tmdbID int, mediaType metadata.MediaType, providers []string) error {
	if providers == nil {
		providers = []string{}
	}
	providersJSON, err := json.Marshal(providers)
	if err != nil {
		return fmt.Errorf("encode providers: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE watchlist_items SET providers = ? WHERE tmdb_id = ? AND media_type = ?`,
		string(providersJSON), tmdbID, mediaType)
	if err != nil {
		return fmt.Errorf("update watchlist providers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) getWatchlistByID(ctx context.Context, id int64) (*WatchlistItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tmdb_id, media_type, name, year, vote_average, vote_count, overview, poster_path, providers, added_at
		 FROM watchlist_items WHERE id = ?`, id)
	return scanWatchlistItem(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWatchlistItem(row rowScanner) (*WatchlistItem, error) {
	var item WatchlistItem
	var providersJSON string
	err := row.Scan(&item.ID, &item.TmdbID, &item.MediaType, &item.Name, &item.Year,
		&item.VoteAverage, &item.VoteCount, &item.Overview, &item.PosterURL,
		&providersJSON, &item.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("scan watchlist item: %w", err)
	}
	if err := json.Unmarshal([]byte(providersJSON), &item.Providers); err != nil {
		return nil, fmt.Errorf("decode providers: %w", err)
	}
	if item.Providers == nil {
		item.Providers = []string{}
	}
	return &item, nil
}
