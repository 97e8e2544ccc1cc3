package tmdb

// SearchMultiResponse is the response from TMDB multi search.
type SearchMultiResponse struct {
	Page         int           `json:"page"`
	Results      []MediaResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// RecommendationsResponse is the response from TMDB per-title recommendations.
type RecommendationsResponse struct {
	Page         int           `json:"page"`
	Results      []MediaResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MediaResult is a movie or TV entry from TMDB search or recommendation
// results. Movies carry title/release_date, TV carries name/first_air_date;
// both sets of fields are declared and normalization picks whichever is set.
type MediaResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	Adult        bool    `json:"adult"`
	GenreIDs     []int   `json:"genre_ids"`
}

// WatchProvidersResponse is the response from TMDB /{type}/{id}/watch/providers.
type WatchProvidersResponse struct {
	ID      int                     `json:"id"`
	Results map[string]RegionOffers `json:"results"`
}

// RegionOffers groups provider offers for one region by monetization type.
type RegionOffers struct {
	Link     string          `json:"link"`
	Flatrate []ProviderOffer `json:"flatrate"`
	Free     []ProviderOffer `json:"free"`
	Ads      []ProviderOffer `json:"ads"`
	Rent     []ProviderOffer `json:"rent"`
	Buy      []ProviderOffer `json:"buy"`
}

// ProviderOffer is a single streaming provider entry.
type ProviderOffer struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

// NormalizedResult is the normalized title record returned by the client.
type NormalizedResult struct {
	ID          int     `json:"id"`
	MediaType   string  `json:"mediaType"`
	Name        string  `json:"name"`
	Year        int     `json:"year,omitempty"`
	VoteAverage float64 `json:"voteAverage"`
	VoteCount   int     `json:"voteCount"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"posterUrl,omitempty"`
}
