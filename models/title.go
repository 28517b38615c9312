package models

// UnifiedResult is one entry in the merged search response. Fields that a
// provider could not supply are omitted from the JSON output; the external id
// fields are best effort and may all be absent.
type UnifiedResult struct {
	Source        string `json:"source"`
	ContentType   string `json:"content_type"`
	Title         string `json:"title"`
	ImageURL      string `json:"image_url,omitempty"`
	Synopsis      string `json:"synopsis,omitempty"`
	EpisodesCount int    `json:"episodes_count,omitempty"`
	ReleaseYear   int    `json:"release_year,omitempty"`
	MALID         int64  `json:"mal_id,omitempty"`
	IMDBID        string `json:"imdb_id,omitempty"`
	TMDBID        string `json:"tmdb_id,omitempty"`
	// Matched later by the client against the streaming catalog.
	AnimeFLVID string `json:"animeflv_id,omitempty"`
}

// UnifiedDetail is the full-detail superset of UnifiedResult.
type UnifiedDetail struct {
	UnifiedResult
	Genres []string `json:"genres"`
	Status string   `json:"status,omitempty"`
	Score  float64  `json:"score,omitempty"`
}
