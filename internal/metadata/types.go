package metadata

import (
	"strconv"

	"github.com/couchpick/couchpick/internal/metadata/tmdb"
)

// MediaType identifies the kind of a title. Values match the TMDB path
// segments so no translation layer is needed at the client boundary.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid returns true for a known media type.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// Title is a normalized movie or TV series record. Immutable once fetched
// within a session; a re-fetch may refresh the vote fields.
type Title struct {
	ID          int       `json:"id"`
	MediaType   MediaType `json:"mediaType"`
	Name        string    `json:"name"`
	Year        int       `json:"year,omitempty"`
	VoteAverage float64   `json:"voteAverage"`
	VoteCount   int       `json:"voteCount"`
	Overview    string    `json:"overview,omitempty"`
	PosterURL   string    `json:"posterUrl,omitempty"`
}

// Key returns the id+kind identity of the title. Two records are the same
// title exactly when their keys are equal; mutable fields like poster path
// never participate in identity.
func (t Title) Key() string {
	return string(t.MediaType) + ":" + strconv.Itoa(t.ID)
}

// fromTMDB converts a tmdb client result to a Title.
func fromTMDB(r tmdb.NormalizedResult) Title {
	return Title{
		ID:          r.ID,
		MediaType:   MediaType(r.MediaType),
		Name:        r.Name,
		Year:        r.Year,
		VoteAverage: r.VoteAverage,
		VoteCount:   r.VoteCount,
		Overview:    r.Overview,
		PosterURL:   r.PosterURL,
	}
}
