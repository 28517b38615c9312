package models

// Video source categories. Embed links are meant to be loaded in an iframe,
// direct links point at a playable media file.
const (
	VideoSourceEmbed   = "embed"
	VideoSourceDirect  = "direct"
	VideoSourceUnknown = "unknown"
)

// VideoSource is one playable source extracted from a provider's raw server
// payload. Ordering follows discovery order; duplicates are kept.
type VideoSource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// VideoSourcesResponse wraps the categorized source list.
type VideoSourcesResponse struct {
	Sources []VideoSource `json:"sources"`
}
