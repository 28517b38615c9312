package unified

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Minimal TMDB v3 client (type-partitioned detail and external-ids lookups).

const (
	defaultTMDBBaseURL = "https://api.themoviedb.org/3"
	tmdbImageBaseURL   = "https://image.tmdb.org/t/p/original"
)

type tmdbClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func newTMDBClient(baseURL, apiKey string, httpc *http.Client) *tmdbClient {
	if baseURL == "" {
		baseURL = defaultTMDBBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultClientTimeout}
	}
	return &tmdbClient{baseURL: baseURL, apiKey: apiKey, httpc: httpc}
}

func (c *tmdbClient) isConfigured() bool { return c.apiKey != "" }

type tmdbDetail struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Name             string `json:"name"`
	PosterPath       string `json:"poster_path"`
	Overview         string `json:"overview"`
	NumberOfEpisodes int    `json:"number_of_episodes"`
	ReleaseDate      string `json:"release_date"`
	FirstAirDate     string `json:"first_air_date"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Status      string  `json:"status"`
	VoteAverage float64 `json:"vote_average"`
}

// displayTitle handles TMDB's split naming: "title" for movies, "name" for TV.
func (d *tmdbDetail) displayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

func (d *tmdbDetail) posterURL() string {
	if d.PosterPath == "" {
		return ""
	}
	return tmdbImageBaseURL + d.PosterPath
}

// releaseYear parses the year out of whichever date field the content type
// populates.
func (d *tmdbDetail) releaseYear() int {
	date := d.ReleaseDate
	if date == "" {
		date = d.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func (c *tmdbClient) endpoint(contentType, id, suffix string) string {
	u := fmt.Sprintf("%s/%s/%s%s", c.baseURL, contentType, url.PathEscape(id), suffix)
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "api_key=" + url.QueryEscape(c.apiKey)
}

func (c *tmdbClient) details(ctx context.Context, contentType, id string) (*tmdbDetail, error) {
	var detail tmdbDetail
	if err := doJSON(ctx, c.httpc, "tmdb", c.endpoint(contentType, id, ""), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// externalIDs recovers the IMDb id TMDB knows for this title. Callers treat a
// failure here as tolerable; the primary detail stands on its own.
func (c *tmdbClient) externalIDs(ctx context.Context, contentType, id string) (string, error) {
	var resp struct {
		IMDBID string `json:"imdb_id"`
	}
	if err := doJSON(ctx, c.httpc, "tmdb", c.endpoint(contentType, id, "/external_ids"), nil, &resp); err != nil {
		return "", err
	}
	return resp.IMDBID, nil
}

// rawDetails fetches a detail record and returns TMDB's JSON untouched, for
// the passthrough proxy endpoint.
func (c *tmdbClient) rawDetails(ctx context.Context, contentType, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := doJSON(ctx, c.httpc, "tmdb", c.endpoint(contentType, id, ""), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
