package models

// Anime is a single catalog entry scraped from the streaming site.
type Anime struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Poster   string   `json:"poster,omitempty"`
	Banner   string   `json:"banner,omitempty"`
	Synopsis string   `json:"synopsis,omitempty"`
	Rating   string   `json:"rating,omitempty"`
	Genres   []string `json:"genres"`
	Debut    string   `json:"debut,omitempty"`
	Type     string   `json:"type,omitempty"`
}

// AnimeInfo extends Anime with the episode list from the detail page.
type AnimeInfo struct {
	Anime
	Episodes []Episode `json:"episodes"`
}

// Episode is one playable episode belonging to an anime.
type Episode struct {
	ID           int    `json:"id"`
	Anime        string `json:"anime"`
	ImagePreview string `json:"image_preview,omitempty"`
}
