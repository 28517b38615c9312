package animeflv

import (
	"reflect"
	"testing"

	"anibridge/models"
)

func TestCategorizeURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://streamtape.com/e/abc123", models.VideoSourceEmbed},
		{"https://www.yourupload.com/embed/xyz", models.VideoSourceEmbed},
		{"https://ok.ru/videoembed/42", models.VideoSourceEmbed},
		{"https://mega.nz/embed/abc", models.VideoSourceEmbed},
		{"https://cdn.example.com/episode1.mp4", models.VideoSourceDirect},
		{"https://cdn.example.com/episode1.MKV", models.VideoSourceDirect},
		{"https://cdn.example.com/video.webm?token=1", models.VideoSourceDirect},
		// Embed fragments outrank a direct extension in the same URL.
		{"https://streamtape.com/file/episode1.mp4", models.VideoSourceEmbed},
		{"https://example.com/watch?v=1", models.VideoSourceUnknown},
		{"", models.VideoSourceUnknown},
	}

	for _, tt := range tests {
		if got := CategorizeURL(tt.url); got != tt.want {
			t.Errorf("CategorizeURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestExtractSources_PayloadShapes(t *testing.T) {
	wantURLs := []string{
		"https://streamtape.com/e/abc",
		"https://cdn.example.com/ep1.mp4",
	}

	payloads := map[string]any{
		"list of urls": []any{
			"https://streamtape.com/e/abc",
			"https://cdn.example.com/ep1.mp4",
		},
		"list of records": []any{
			map[string]any{"server": "stape", "url": "https://streamtape.com/e/abc"},
			map[string]any{"server": "cdn", "code": "https://cdn.example.com/ep1.mp4"},
		},
		"map of lists": map[string]any{
			"SUB": []any{
				map[string]any{"url": "https://streamtape.com/e/abc"},
				map[string]any{"url": "https://cdn.example.com/ep1.mp4"},
			},
		},
		"nested groupings": map[string]any{
			"a": map[string]any{
				"servers": []any{
					map[string]any{"code": "https://streamtape.com/e/abc"},
				},
			},
			"b": map[string]any{
				"servers": []any{
					map[string]any{"url": "https://cdn.example.com/ep1.mp4"},
				},
			},
		},
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			sources := ExtractSources(payload)
			got := make([]string, 0, len(sources))
			for _, s := range sources {
				got = append(got, s.URL)
			}
			if !reflect.DeepEqual(got, wantURLs) {
				t.Errorf("urls = %v, want %v", got, wantURLs)
			}
		})
	}
}

func TestExtractSources_Categorizes(t *testing.T) {
	sources := ExtractSources([]any{
		"https://streamtape.com/e/abc",
		"https://cdn.example.com/ep1.mp4",
		"https://example.com/watch?v=1",
	})
	want := []models.VideoSource{
		{Type: models.VideoSourceEmbed, URL: "https://streamtape.com/e/abc"},
		{Type: models.VideoSourceDirect, URL: "https://cdn.example.com/ep1.mp4"},
		{Type: models.VideoSourceUnknown, URL: "https://example.com/watch?v=1"},
	}
	if !reflect.DeepEqual(sources, want) {
		t.Errorf("sources = %+v, want %+v", sources, want)
	}
}

func TestExtractSources_RecordPrefersURLOverCode(t *testing.T) {
	sources := ExtractSources([]any{
		map[string]any{"url": "https://streamtape.com/e/abc", "code": "https://other.example.com/x"},
	})
	if len(sources) != 1 || sources[0].URL != "https://streamtape.com/e/abc" {
		t.Fatalf("expected the url field to win, got %+v", sources)
	}
}

func TestExtractSources_DropsUnusable(t *testing.T) {
	sources := ExtractSources([]any{
		"", // empty candidate
		42,
		nil,
		"https://cdn.example.com/ep1.mp4",
	})
	if len(sources) != 1 || sources[0].URL != "https://cdn.example.com/ep1.mp4" {
		t.Fatalf("expected only the usable url, got %+v", sources)
	}
}

func TestExtractSources_MapStringValuesAreCandidates(t *testing.T) {
	sources := ExtractSources(map[string]any{"SUB": "somecode-not-a-url"})
	want := []models.VideoSource{
		{Type: models.VideoSourceUnknown, URL: "somecode-not-a-url"},
	}
	if !reflect.DeepEqual(sources, want) {
		t.Errorf("sources = %+v, want %+v", sources, want)
	}

	// A grouping map without url/code still walks every value, string or
	// nested alike.
	sources = ExtractSources(map[string]any{
		"label": "stape",
		"tabs": []any{
			map[string]any{"url": "https://streamtape.com/e/abc"},
		},
	})
	got := make([]string, 0, len(sources))
	for _, s := range sources {
		got = append(got, s.URL)
	}
	wantURLs := []string{"stape", "https://streamtape.com/e/abc"}
	if !reflect.DeepEqual(got, wantURLs) {
		t.Errorf("urls = %v, want %v", got, wantURLs)
	}
}

func TestExtractSources_KeepsDuplicates(t *testing.T) {
	sources := ExtractSources([]any{
		"https://streamtape.com/e/abc",
		map[string]any{"url": "https://streamtape.com/e/abc"},
	})
	if len(sources) != 2 {
		t.Fatalf("expected duplicates kept, got %+v", sources)
	}
}
