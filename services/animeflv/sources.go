package animeflv

import (
	"log"
	"sort"
	"strings"

	"anibridge/models"
)

// Embed rules run before direct-extension rules; a URL matching both is an
// embed. The fragments are known embed hosts plus the generic keyword.
var embedFragments = []string{
	"embed",
	"yourupload.com",
	"streamwish.to",
	"streame.net",
	"streamtape.com",
	"fembed.com",
	"natu.moe",
	"ok.ru",
	"my.mail.ru",
	"mega.nz/embed",
}

var directExtensions = []string{".mp4", ".webm", ".ogg", ".mkv", ".avi", ".mov"}

// CategorizeURL tags a candidate URL as embed, direct, or unknown. The first
// matching rule wins.
func CategorizeURL(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, fragment := range embedFragments {
		if strings.Contains(lower, fragment) {
			return models.VideoSourceEmbed
		}
	}
	for _, ext := range directExtensions {
		if strings.Contains(lower, ext) {
			return models.VideoSourceDirect
		}
	}
	return models.VideoSourceUnknown
}

// ExtractSources flattens a raw server payload into an ordered, categorized
// source list. The payload arrives in whatever nesting the site shipped:
// sequences, mappings, bare URL strings, or records exposing a url or code
// field. Duplicate URLs are kept.
func ExtractSources(raw any) []models.VideoSource {
	var urls []string
	collectSourceURLs(raw, &urls)

	sources := make([]models.VideoSource, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			log.Printf("[animeflv] dropping empty source url candidate")
			continue
		}
		sources = append(sources, models.VideoSource{Type: CategorizeURL(u), URL: u})
	}
	return sources
}

// collectSourceURLs walks one node of the payload. A string is a URL leaf; a
// record resolves to its url field, else its code field; sequences and
// mappings recurse. Mapping keys are discarded and walked in sorted order so
// output is deterministic. Anything else is dropped with a diagnostic.
func collectSourceURLs(node any, out *[]string) {
	switch v := node.(type) {
	case string:
		*out = append(*out, v)
	case []any:
		for _, item := range v {
			collectSourceURLs(item, out)
		}
	case map[string]any:
		if u, ok := recordURL(v); ok {
			*out = append(*out, u)
			return
		}
		// Without a url/code field this is a grouping layer; every value is
		// walked, so bare string values still surface as candidates.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectSourceURLs(v[k], out)
		}
	case nil:
		// Absent branches in the payload are common; nothing to report.
	default:
		log.Printf("[animeflv] skipping unrecognized payload node type=%T", node)
	}
}

// recordURL treats a mapping as a server record when it exposes a string url
// or code field, preferring url.
func recordURL(record map[string]any) (string, bool) {
	if u, ok := record["url"].(string); ok {
		return u, true
	}
	if code, ok := record["code"].(string); ok {
		return code, true
	}
	return "", false
}
