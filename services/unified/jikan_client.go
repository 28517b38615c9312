package unified

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Minimal Jikan v4 client (anime search and full-detail endpoints we need).
// Jikan is public and unauthenticated.

const defaultJikanBaseURL = "https://api.jikan.moe/v4"

type jikanClient struct {
	baseURL string
	httpc   *http.Client
}

func newJikanClient(baseURL string, httpc *http.Client) *jikanClient {
	if baseURL == "" {
		baseURL = defaultJikanBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultClientTimeout}
	}
	return &jikanClient{baseURL: baseURL, httpc: httpc}
}

type jikanExternal struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type jikanAnime struct {
	MALID        int64   `json:"mal_id"`
	Title        string  `json:"title"`
	TitleEnglish string  `json:"title_english"`
	Type         string  `json:"type"`
	Episodes     int     `json:"episodes"`
	Synopsis     string  `json:"synopsis"`
	Status       string  `json:"status"`
	Score        float64 `json:"score"`
	Year         int     `json:"year"`
	Images       struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	External []jikanExternal `json:"external"`
}

// externalLinks normalizes the record's cross-reference links for extraction.
func (a *jikanAnime) externalLinks() []externalLink {
	links := make([]externalLink, 0, len(a.External))
	for _, ext := range a.External {
		links = append(links, externalLink{Platform: ext.Name, URL: ext.URL})
	}
	return links
}

// displayTitle prefers the English title when the catalog has one.
func (a *jikanAnime) displayTitle() string {
	if a.TitleEnglish != "" {
		return a.TitleEnglish
	}
	return a.Title
}

func (c *jikanClient) search(ctx context.Context, query string, page int) ([]jikanAnime, error) {
	params := url.Values{"q": []string{query}}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var resp struct {
		Data []jikanAnime `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/anime?%s", c.baseURL, params.Encode())
	if err := doJSON(ctx, c.httpc, "jikan", endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *jikanClient) full(ctx context.Context, id string) (*jikanAnime, error) {
	var resp struct {
		Data *jikanAnime `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/anime/%s/full", c.baseURL, url.PathEscape(id))
	if err := doJSON(ctx, c.httpc, "jikan", endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &UpstreamError{Provider: "jikan", StatusCode: http.StatusNotFound, Body: "empty data for id " + id}
	}
	return resp.Data, nil
}
