package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"anibridge/models"
	"anibridge/services/animeflv"
)

// animeService covers the scraping-backed endpoints.
type animeService interface {
	Search(ctx context.Context, query string, page int) ([]models.Anime, error)
	Info(ctx context.Context, id string) (*models.AnimeInfo, error)
	VideoSources(ctx context.Context, id string, episode int, format animeflv.Format) ([]models.VideoSource, error)
	LatestEpisodes(ctx context.Context) ([]models.Episode, error)
	LatestAnimes(ctx context.Context) ([]models.Anime, error)
}

var _ animeService = (*animeflv.Service)(nil)

// AnimeHandler serves the AnimeFLV catalog and video-source endpoints.
type AnimeHandler struct {
	svc animeService
}

func NewAnimeHandler(svc animeService) *AnimeHandler {
	return &AnimeHandler{svc: svc}
}

// Search handles GET /api/search?query=...&page=...
func (h *AnimeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required", "")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer", "")
			return
		}
		page = n
	}

	animes, err := h.svc.Search(r.Context(), query, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"animes": animes, "total": len(animes)})
}

// Info handles GET /api/anime-info/{animeId}.
func (h *AnimeHandler) Info(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["animeId"]
	info, err := h.svc.Info(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// VideoSources handles GET /api/video-sources/{animeId}/{episode}?format=...
func (h *AnimeHandler) VideoSources(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	episode, err := strconv.Atoi(vars["episode"])
	if err != nil || episode < 0 {
		writeError(w, http.StatusBadRequest, "episode must be a non-negative integer", "")
		return
	}

	format, err := animeflv.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	sources, err := h.svc.VideoSources(r.Context(), vars["animeId"], episode, format)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.VideoSourcesResponse{Sources: sources})
}

// LatestEpisodes handles GET /api/latest-episodes.
func (h *AnimeHandler) LatestEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.svc.LatestEpisodes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"episodes": episodes})
}

// LatestAnimes handles GET /api/latest-animes.
func (h *AnimeHandler) LatestAnimes(w http.ResponseWriter, r *http.Request) {
	animes, err := h.svc.LatestAnimes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"animes": animes})
}
