package unified

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Minimal IMDbAPI v2 client (bearer-token auth, title search and detail).

const defaultIMDBBaseURL = "https://rest.imdbapi.dev/v2"

type imdbClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func newIMDBClient(baseURL, token string, httpc *http.Client) *imdbClient {
	if baseURL == "" {
		baseURL = defaultIMDBBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultClientTimeout}
	}
	return &imdbClient{baseURL: baseURL, token: token, httpc: httpc}
}

func (c *imdbClient) isConfigured() bool { return c.token != "" }

func (c *imdbClient) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.token)
	return h
}

type imdbTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	TitleText struct {
		Text string `json:"text"`
	} `json:"titleText"`
	TitleType struct {
		Text string `json:"text"`
	} `json:"titleType"`
	PrimaryImage struct {
		URL string `json:"url"`
	} `json:"primaryImage"`
	ReleaseYear struct {
		Year int `json:"year"`
	} `json:"releaseYear"`
	SeriesEndYear struct {
		Year int `json:"year"`
	} `json:"seriesEndYear"`
	NumberOfEpisodes int `json:"numberOfEpisodes"`
	Plot             struct {
		PlotText struct {
			Text string `json:"text"`
		} `json:"plotText"`
	} `json:"plot"`
	Genres struct {
		Genres []struct {
			Text string `json:"text"`
		} `json:"genres"`
	} `json:"genres"`
	RatingsSummary struct {
		AggregateRating float64 `json:"aggregateRating"`
	} `json:"ratingsSummary"`
	ExternalLinks []struct {
		Platform string `json:"platform"`
		URL      string `json:"url"`
	} `json:"externalLinks"`
}

// displayTitle handles the flat "title" field used by search results and the
// nested "titleText" used by the detail endpoint.
func (t *imdbTitle) displayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.TitleText.Text
}

func (t *imdbTitle) externalLinks() []externalLink {
	links := make([]externalLink, 0, len(t.ExternalLinks))
	for _, ext := range t.ExternalLinks {
		links = append(links, externalLink{Platform: ext.Platform, URL: ext.URL})
	}
	return links
}

func (t *imdbTitle) genreNames() []string {
	names := make([]string, 0, len(t.Genres.Genres))
	for _, g := range t.Genres.Genres {
		if g.Text != "" {
			names = append(names, g.Text)
		}
	}
	return names
}

func (c *imdbClient) searchTitles(ctx context.Context, query string) ([]imdbTitle, error) {
	params := url.Values{"query": []string{query}}
	var resp struct {
		Results []imdbTitle `json:"results"`
	}
	endpoint := fmt.Sprintf("%s/search/titles?%s", c.baseURL, params.Encode())
	if err := doJSON(ctx, c.httpc, "imdbapi", endpoint, c.header(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *imdbClient) title(ctx context.Context, id string) (*imdbTitle, error) {
	var title imdbTitle
	endpoint := fmt.Sprintf("%s/titles/%s", c.baseURL, url.PathEscape(id))
	if err := doJSON(ctx, c.httpc, "imdbapi", endpoint, c.header(), &title); err != nil {
		return nil, err
	}
	return &title, nil
}

// rawTitle fetches a title and returns the provider's JSON untouched, for the
// passthrough proxy endpoint.
func (c *imdbClient) rawTitle(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	endpoint := fmt.Sprintf("%s/titles/%s", c.baseURL, url.PathEscape(id))
	if err := doJSON(ctx, c.httpc, "imdbapi", endpoint, c.header(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
