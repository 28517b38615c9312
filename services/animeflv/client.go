// Package animeflv scrapes the AnimeFLV site for catalog entries, episode
// lists and raw video-server payloads. Fetch and parse do no caching or
// retrying; the service layer above owns both.
package animeflv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"anibridge/models"
)

const (
	defaultBaseURL   = "https://www3.animeflv.net"
	episodeImageBase = "https://cdn.animeflv.net/screenshots"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ChallengeError reports that the site answered with an anti-automation
// interstitial instead of content. The request must not be retried here;
// callers surface it as a temporarily-unavailable condition.
type ChallengeError struct {
	URL string
}

func (e *ChallengeError) Error() string {
	return "animeflv: anti-automation challenge at " + e.URL
}

type Client struct {
	baseURL   string
	userAgent string
	httpc     *http.Client
}

func NewClient(baseURL, userAgent string, httpc *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), userAgent: userAgent, httpc: httpc}
}

// fetchDocument GETs a page and parses it, translating challenge pages into
// *ChallengeError before any selector runs.
func (c *Client) fetchDocument(ctx context.Context, path string, params url.Values) (*goquery.Document, error) {
	pageURL := c.baseURL + path
	if len(params) > 0 {
		pageURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("animeflv: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("animeflv: read %s: %w", pageURL, err)
	}
	if isChallenge(resp, body) {
		return nil, &ChallengeError{URL: pageURL}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("animeflv: fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("animeflv: parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// isChallenge recognizes Cloudflare-style interstitials: a blocking status
// plus the usual challenge markers in the body.
func isChallenge(resp *http.Response, body []byte) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusServiceUnavailable {
		return false
	}
	lower := bytes.ToLower(body)
	return bytes.Contains(lower, []byte("just a moment")) ||
		bytes.Contains(lower, []byte("cf-browser-verification")) ||
		bytes.Contains(lower, []byte("challenge-platform")) ||
		strings.Contains(strings.ToLower(resp.Header.Get("Server")), "cloudflare")
}

// Search scrapes the browse page for catalog entries matching query.
func (c *Client) Search(ctx context.Context, query string, page int) ([]models.Anime, error) {
	params := url.Values{"q": []string{query}}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	doc, err := c.fetchDocument(ctx, "/browse", params)
	if err != nil {
		return nil, err
	}
	return parseAnimeList(doc, c.baseURL), nil
}

// parseAnimeList extracts catalog cards from a browse or front page listing.
func parseAnimeList(doc *goquery.Document, baseURL string) []models.Anime {
	var animes []models.Anime
	doc.Find("ul.ListAnimes li article.Anime").Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find("a").First().Attr("href")
		id := strings.TrimPrefix(strings.TrimSpace(href), "/anime/")
		id = strings.Trim(id, "/")
		if id == "" {
			return
		}
		poster, _ := card.Find("div.Image figure img").Attr("src")
		anime := models.Anime{
			ID:       id,
			Title:    strings.TrimSpace(card.Find("h3.Title").First().Text()),
			Poster:   absoluteURL(baseURL, poster),
			Banner:   bannerFromPoster(absoluteURL(baseURL, poster)),
			Type:     strings.TrimSpace(card.Find("span.Type").First().Text()),
			Rating:   strings.TrimSpace(card.Find("span.Vts").First().Text()),
			Synopsis: strings.TrimSpace(card.Find("div.Description p").Last().Text()),
			Genres:   []string{},
		}
		animes = append(animes, anime)
	})
	return animes
}

func absoluteURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return baseURL + ref
}

// bannerFromPoster derives the banner artwork URL from the cover URL, which
// differ only by path segment on the CDN.
func bannerFromPoster(poster string) string {
	if poster == "" {
		return ""
	}
	return strings.Replace(poster, "covers", "banners", 1)
}

var (
	animeInfoPattern = regexp.MustCompile(`var anime_info = (\[.+?\]);`)
	episodesPattern  = regexp.MustCompile(`var episodes = (\[\[.+?\]\]|\[\]);`)
)

// Info scrapes an anime detail page: metadata plus the episode list embedded
// in the page's inline script.
func (c *Client) Info(ctx context.Context, id string) (*models.AnimeInfo, error) {
	doc, err := c.fetchDocument(ctx, "/anime/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	poster, _ := doc.Find("div.AnimeCover div.Image figure img").Attr("src")
	info := &models.AnimeInfo{
		Anime: models.Anime{
			ID:       id,
			Title:    strings.TrimSpace(doc.Find("h1.Title").First().Text()),
			Poster:   absoluteURL(c.baseURL, poster),
			Banner:   bannerFromPoster(absoluteURL(c.baseURL, poster)),
			Synopsis: strings.TrimSpace(doc.Find("div.Description p").First().Text()),
			Rating:   strings.TrimSpace(doc.Find("span#votes_prmd").First().Text()),
			Type:     strings.TrimSpace(doc.Find("span.Type").First().Text()),
			Debut:    strings.TrimSpace(doc.Find("span.TxtAlt").First().Text()),
			Genres:   []string{},
		},
		Episodes: []models.Episode{},
	}
	doc.Find("nav.Nvgnrs a").Each(func(_ int, g *goquery.Selection) {
		if name := strings.TrimSpace(g.Text()); name != "" {
			info.Genres = append(info.Genres, name)
		}
	})
	if info.Title == "" {
		return nil, fmt.Errorf("animeflv: no detail page content for %q", id)
	}

	script := findScript(doc, "var episodes =")
	info.Episodes = parseEpisodeScript(script, id)
	return info, nil
}

// findScript returns the text of the first inline script containing marker.
func findScript(doc *goquery.Document, marker string) string {
	var text string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), marker) {
			text = s.Text()
			return false
		}
		return true
	})
	return text
}

// parseEpisodeScript decodes the inline episode table. The page embeds
// `var episodes = [[num, internalId], ...]` (newest first) and
// `var anime_info = ["<internalId>", "<name>", "<slug>", ...]`; the internal
// id keys the CDN's preview screenshots.
func parseEpisodeScript(script, animeID string) []models.Episode {
	episodes := []models.Episode{}
	if script == "" {
		return episodes
	}

	internalID := ""
	if m := animeInfoPattern.FindStringSubmatch(script); m != nil {
		var fields []any
		if err := json.Unmarshal([]byte(m[1]), &fields); err == nil && len(fields) > 0 {
			if s, ok := fields[0].(string); ok {
				internalID = s
			}
		}
	}

	m := episodesPattern.FindStringSubmatch(script)
	if m == nil {
		return episodes
	}
	var pairs [][]json.Number
	if err := json.Unmarshal([]byte(m[1]), &pairs); err != nil {
		return episodes
	}
	for _, pair := range pairs {
		if len(pair) == 0 {
			continue
		}
		num, err := strconv.Atoi(pair[0].String())
		if err != nil {
			continue
		}
		ep := models.Episode{ID: num, Anime: animeID}
		if internalID != "" {
			ep.ImagePreview = fmt.Sprintf("%s/%s/%d/th_3.jpg", episodeImageBase, internalID, num)
		}
		episodes = append(episodes, ep)
	}
	return episodes
}

// LatestEpisodes scrapes the front page's recently-aired episode strip.
func (c *Client) LatestEpisodes(ctx context.Context) ([]models.Episode, error) {
	doc, err := c.fetchDocument(ctx, "/", nil)
	if err != nil {
		return nil, err
	}

	episodes := []models.Episode{}
	doc.Find("ul.ListEpisodios li a").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		slug, num, ok := splitEpisodeHref(href)
		if !ok {
			return
		}
		preview, _ := link.Find("span.Image img").Attr("src")
		episodes = append(episodes, models.Episode{
			ID:           num,
			Anime:        slug,
			ImagePreview: absoluteURL(c.baseURL, preview),
		})
	})
	return episodes, nil
}

// splitEpisodeHref splits "/ver/<slug>-<episode>" into its parts.
func splitEpisodeHref(href string) (slug string, episode int, ok bool) {
	href = strings.Trim(strings.TrimSpace(href), "/")
	if !strings.HasPrefix(href, "ver/") {
		return "", 0, false
	}
	rest := strings.TrimPrefix(href, "ver/")
	idx := strings.LastIndex(rest, "-")
	if idx <= 0 || idx == len(rest)-1 {
		return "", 0, false
	}
	num, err := strconv.Atoi(rest[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:idx], num, true
}

// LatestAnimes scrapes the front page's recently-added series list.
func (c *Client) LatestAnimes(ctx context.Context) ([]models.Anime, error) {
	doc, err := c.fetchDocument(ctx, "/", nil)
	if err != nil {
		return nil, err
	}
	return parseAnimeList(doc, c.baseURL), nil
}

var videosPattern = regexp.MustCompile(`var videos = (\{.+?\});`)

// VideoServers scrapes an episode page's inline server table and returns it
// raw: a mapping of language tab ("SUB", "LAT") to a sequence of server
// records, shaped however the site shipped it. The format filter keeps only
// the requested language tabs.
func (c *Client) VideoServers(ctx context.Context, id string, episode int, format Format) (map[string]any, error) {
	path := fmt.Sprintf("/ver/%s-%d", url.PathEscape(id), episode)
	doc, err := c.fetchDocument(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	script := findScript(doc, "var videos =")
	if script == "" {
		return nil, fmt.Errorf("animeflv: no video servers found for %s episode %d", id, episode)
	}
	m := videosPattern.FindStringSubmatch(script)
	if m == nil {
		return nil, fmt.Errorf("animeflv: unrecognized video server payload for %s episode %d", id, episode)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(m[1]), &raw); err != nil {
		return nil, fmt.Errorf("animeflv: decode video servers for %s episode %d: %w", id, episode, err)
	}

	filtered := make(map[string]any, len(raw))
	for tab, servers := range raw {
		if format.includesTab(tab) {
			filtered[tab] = servers
		}
	}
	return filtered, nil
}
