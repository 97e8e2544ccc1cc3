package profile

import (
	"time"

	"github.com/couchpick/couchpick/internal/metadata"
)

// Item is one entry of the liked-titles taste profile. Identity is
// TmdbID+MediaType; no two entries may share both.
type Item struct {
	ID        int64              `json:"id"`
	TmdbID    int                `json:"tmdbId"`
	MediaType metadata.MediaType `json:"mediaType"`
	Name      string             `json:"name"`
	AddedAt   time.Time          `json:"addedAt"`
}

// AddInput is the payload for appending a liked title.
type AddInput struct {
	TmdbID    int                `json:"tmdbId"`
	MediaType metadata.MediaType `json:"mediaType"`
	Name      string             `json:"name"`
}

// WatchlistItem is one watch-later entry. It carries the fuller candidate
// projection so the list renders without re-fetching metadata.
type WatchlistItem struct {
	ID          int64              `json:"id"`
	TmdbID      int                `json:"tmdbId"`
	MediaType   metadata.MediaType `json:"mediaType"`
	Name        string             `json:"name"`
	Year        int                `json:"year,omitempty"`
	VoteAverage float64            `json:"voteAverage"`
	VoteCount   int                `json:"voteCount"`
	Overview    string             `json:"overview,omitempty"`
	PosterURL   string             `json:"posterUrl,omitempty"`
	Providers   []string           `json:"providers"`
	AddedAt     time.Time          `json:"addedAt"`
}

// WatchlistInput is the payload for appending a watch-later title.
type WatchlistInput struct {
	TmdbID      int                `json:"tmdbId"`
	MediaType   metadata.MediaType `json:"mediaType"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	VoteAverage float64            `json:"voteAverage"`
	VoteCount   int                `json:"voteCount"`
	Overview    string             `json:"overview"`
	PosterURL   string             `json:"posterUrl"`
	Providers   []string           `json:"providers"`
}
