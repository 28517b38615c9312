package unified

import (
	"regexp"
	"strings"
)

// ExternalLink is one cross-reference link attached to a provider record.
// Jikan labels these with "name" ("IMDb", "TMDB"), IMDbAPI with "platform"
// ("The Movie Database"); adapters normalize both into this shape.
type externalLink struct {
	Platform string
	URL      string
}

var (
	// e.g. https://www.imdb.com/title/tt2560140
	imdbTitlePattern = regexp.MustCompile(`title/(tt\d+)`)
	// e.g. https://www.themoviedb.org/tv/1429 or .../movie/603
	tmdbTitlePattern = regexp.MustCompile(`/(movie|tv)/(\d+)`)
)

// extractLinkID scans links in order and returns the submatch group of the
// first link whose platform matches and whose URL matches pattern. Links that
// match the platform but not the pattern are skipped silently; an empty
// result means no link carried the id.
func extractLinkID(links []externalLink, platform func(string) bool, pattern *regexp.Regexp, group int) string {
	for _, link := range links {
		if !platform(link.Platform) {
			continue
		}
		m := pattern.FindStringSubmatch(link.URL)
		if m == nil || group >= len(m) {
			continue
		}
		return m[group]
	}
	return ""
}

func extractIMDBID(links []externalLink) string {
	return extractLinkID(links, func(p string) bool {
		return strings.EqualFold(strings.TrimSpace(p), "imdb")
	}, imdbTitlePattern, 1)
}

func extractTMDBID(links []externalLink) string {
	return extractLinkID(links, func(p string) bool {
		lower := strings.ToLower(p)
		return strings.Contains(lower, "tmdb") || strings.Contains(lower, "movie database")
	}, tmdbTitlePattern, 2)
}
