package unified

import "testing"

func TestExtractIMDBID(t *testing.T) {
	tests := []struct {
		name  string
		links []externalLink
		want  string
	}{
		{
			name: "plain title link",
			links: []externalLink{
				{Platform: "IMDb", URL: "https://www.imdb.com/title/tt2560140"},
			},
			want: "tt2560140",
		},
		{
			name: "trailing slash and query",
			links: []externalLink{
				{Platform: "imdb", URL: "https://www.imdb.com/title/tt0944947/?ref_=ext"},
			},
			want: "tt0944947",
		},
		{
			name: "first matching link wins",
			links: []externalLink{
				{Platform: "Wikipedia", URL: "https://en.wikipedia.org/wiki/Attack_on_Titan"},
				{Platform: "IMDb", URL: "https://www.imdb.com/title/tt2560140"},
				{Platform: "IMDb", URL: "https://www.imdb.com/title/tt9999999"},
			},
			want: "tt2560140",
		},
		{
			name: "platform match without usable url is skipped",
			links: []externalLink{
				{Platform: "IMDb", URL: "https://www.imdb.com/"},
				{Platform: "IMDb", URL: "https://www.imdb.com/title/tt0112159"},
			},
			want: "tt0112159",
		},
		{
			name:  "no links",
			links: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractIMDBID(tt.links); got != tt.want {
				t.Errorf("extractIMDBID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTMDBID(t *testing.T) {
	tests := []struct {
		name  string
		links []externalLink
		want  string
	}{
		{
			name: "tv link",
			links: []externalLink{
				{Platform: "TMDB", URL: "https://www.themoviedb.org/tv/1429"},
			},
			want: "1429",
		},
		{
			name: "movie link with imdbapi platform label",
			links: []externalLink{
				{Platform: "The Movie Database", URL: "https://www.themoviedb.org/movie/603"},
			},
			want: "603",
		},
		{
			name: "slug suffix still matches",
			links: []externalLink{
				{Platform: "TMDB", URL: "https://www.themoviedb.org/tv/1429-attack-on-titan"},
			},
			want: "1429",
		},
		{
			name: "non-title tmdb url skipped",
			links: []externalLink{
				{Platform: "TMDB", URL: "https://www.themoviedb.org/"},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTMDBID(tt.links); got != tt.want {
				t.Errorf("extractTMDBID() = %q, want %q", got, tt.want)
			}
		})
	}
}
