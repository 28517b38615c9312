package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"anibridge/handlers"
	"anibridge/models"
	"anibridge/services/animeflv"
	"anibridge/services/unified"
)

type fakeUnified struct {
	searchResults []models.UnifiedResult
	searchErr     error
	detail        *models.UnifiedDetail
	detailErr     error
	rawTitle      json.RawMessage
	rawTitleErr   error
	rawDetails    json.RawMessage
	rawDetailsErr error
	tmdbReady     bool
}

func (f *fakeUnified) Search(ctx context.Context, query string, page int) ([]models.UnifiedResult, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeUnified) Detail(ctx context.Context, source, id, contentType string) (*models.UnifiedDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakeUnified) IMDBTitleRaw(ctx context.Context, id string) (json.RawMessage, error) {
	return f.rawTitle, f.rawTitleErr
}

func (f *fakeUnified) TMDBDetailsRaw(ctx context.Context, id, contentType string) (json.RawMessage, error) {
	return f.rawDetails, f.rawDetailsErr
}

func (f *fakeUnified) TMDBConfigured() bool { return f.tmdbReady }

type fakeAnime struct {
	animes   []models.Anime
	info     *models.AnimeInfo
	sources  []models.VideoSource
	episodes []models.Episode
	err      error
}

func (f *fakeAnime) Search(ctx context.Context, query string, page int) ([]models.Anime, error) {
	return f.animes, f.err
}

func (f *fakeAnime) Info(ctx context.Context, id string) (*models.AnimeInfo, error) {
	return f.info, f.err
}

func (f *fakeAnime) VideoSources(ctx context.Context, id string, episode int, format animeflv.Format) ([]models.VideoSource, error) {
	return f.sources, f.err
}

func (f *fakeAnime) LatestEpisodes(ctx context.Context) ([]models.Episode, error) {
	return f.episodes, f.err
}

func (f *fakeAnime) LatestAnimes(ctx context.Context) ([]models.Anime, error) {
	return f.animes, f.err
}

func newRouter(u *fakeUnified, a *fakeAnime) *mux.Router {
	r := mux.NewRouter()
	uh := handlers.NewUnifiedHandler(u)
	ah := handlers.NewAnimeHandler(a)
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/unified-search", uh.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/unified-detail/{source}/{id}", uh.Detail).Methods(http.MethodGet)
	r.HandleFunc("/api/imdb/titles/{id}", uh.IMDBTitle).Methods(http.MethodGet)
	r.HandleFunc("/api/search", ah.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/video-sources/{animeId}/{episode}", ah.VideoSources).Methods(http.MethodGet)
	return r
}

func doRequest(t *testing.T, router *mux.Router, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestUnifiedSearchRequiresQuery(t *testing.T) {
	router := newRouter(&fakeUnified{}, &fakeAnime{})
	rec, body := doRequest(t, router, "/api/unified-search")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "query parameter is required" {
		t.Errorf("unexpected error message %v", body["error"])
	}
}

func TestUnifiedSearchRejectsBadPage(t *testing.T) {
	router := newRouter(&fakeUnified{}, &fakeAnime{})
	rec, _ := doRequest(t, router, "/api/unified-search?query=naruto&page=zero")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUnifiedSearchReturnsResults(t *testing.T) {
	fake := &fakeUnified{searchResults: []models.UnifiedResult{
		{Source: "jikan", ContentType: "anime", Title: "Naruto"},
	}}
	router := newRouter(fake, &fakeAnime{})
	rec, body := doRequest(t, router, "/api/unified-search?query=naruto")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", body["total"])
	}
}

func TestUnifiedDetailMapsNotFound(t *testing.T) {
	fake := &fakeUnified{detailErr: &unified.UpstreamError{
		Provider: "jikan", StatusCode: http.StatusNotFound, Body: "no such id",
	}}
	router := newRouter(fake, &fakeAnime{})
	rec, body := doRequest(t, router, "/api/unified-detail/jikan/999999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body["status"] != float64(http.StatusNotFound) {
		t.Errorf("expected status field in body, got %v", body["status"])
	}
}

func TestUnifiedDetailIMDBMissAdvertisesFallback(t *testing.T) {
	fake := &fakeUnified{
		detailErr: &unified.UpstreamError{Provider: "imdbapi", StatusCode: http.StatusNotFound},
		tmdbReady: true,
	}
	router := newRouter(fake, &fakeAnime{})
	rec, body := doRequest(t, router, "/api/unified-detail/imdb/tt0000000")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	details, _ := body["details"].(string)
	if !strings.Contains(details, "tmdb") {
		t.Errorf("expected fallback hint in details, got %q", details)
	}
}

func TestUnifiedDetailMapsValidation(t *testing.T) {
	fake := &fakeUnified{detailErr: &unified.ValidationError{Msg: "invalid source: must be jikan, imdb, or tmdb"}}
	router := newRouter(fake, &fakeAnime{})
	rec, _ := doRequest(t, router, "/api/unified-detail/netflix/1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUnifiedDetailMapsTransportFailure(t *testing.T) {
	fake := &fakeUnified{detailErr: &unified.UpstreamError{Provider: "tmdb"}}
	router := newRouter(fake, &fakeAnime{})
	rec, _ := doRequest(t, router, "/api/unified-detail/tmdb/1429?content_type=tv")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestIMDBTitlePassthrough(t *testing.T) {
	fake := &fakeUnified{rawTitle: json.RawMessage(`{"id":"tt2560140","custom_field":true}`)}
	router := newRouter(fake, &fakeAnime{})
	rec, body := doRequest(t, router, "/api/imdb/titles/tt2560140")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["custom_field"] != true {
		t.Errorf("expected untouched provider payload, got %v", body)
	}
}

func TestVideoSourcesRejectsBadEpisode(t *testing.T) {
	router := newRouter(&fakeUnified{}, &fakeAnime{})
	rec, _ := doRequest(t, router, "/api/video-sources/one-piece-tv/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVideoSourcesRejectsBadFormat(t *testing.T) {
	router := newRouter(&fakeUnified{}, &fakeAnime{})
	rec, _ := doRequest(t, router, "/api/video-sources/one-piece-tv/3?format=latino")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVideoSourcesMapsChallenge(t *testing.T) {
	fake := &fakeAnime{err: &animeflv.ChallengeError{URL: "https://www3.animeflv.net/ver/one-piece-tv-3"}}
	router := newRouter(&fakeUnified{}, fake)
	rec, _ := doRequest(t, router, "/api/video-sources/one-piece-tv/3")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestVideoSourcesReturnsPayload(t *testing.T) {
	fake := &fakeAnime{sources: []models.VideoSource{
		{Type: models.VideoSourceEmbed, URL: "https://streamtape.com/e/abc"},
	}}
	router := newRouter(&fakeUnified{}, fake)
	rec, body := doRequest(t, router, "/api/video-sources/one-piece-tv/3")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sources, _ := body["sources"].([]any)
	if len(sources) != 1 {
		t.Fatalf("expected 1 source, got %v", body)
	}
}

func TestAnimeSearchRequiresQuery(t *testing.T) {
	router := newRouter(&fakeUnified{}, &fakeAnime{})
	rec, _ := doRequest(t, router, "/api/search")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newRouter(&fakeUnified{}, &fakeAnime{})
	rec, body := doRequest(t, router, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected health body %v", body)
	}
}
