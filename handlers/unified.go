package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"anibridge/models"
	"anibridge/services/unified"
)

// unifiedService is the slice of the unified metadata service the handlers
// need. Tests substitute a fake.
type unifiedService interface {
	Search(ctx context.Context, query string, page int) ([]models.UnifiedResult, error)
	Detail(ctx context.Context, source, id, contentType string) (*models.UnifiedDetail, error)
	IMDBTitleRaw(ctx context.Context, id string) (json.RawMessage, error)
	TMDBDetailsRaw(ctx context.Context, id, contentType string) (json.RawMessage, error)
	TMDBConfigured() bool
}

var _ unifiedService = (*unified.Service)(nil)

// UnifiedHandler serves the cross-provider search and detail endpoints.
type UnifiedHandler struct {
	svc unifiedService
}

func NewUnifiedHandler(svc unifiedService) *UnifiedHandler {
	return &UnifiedHandler{svc: svc}
}

// Search handles GET /api/unified-search?query=...&page=...
func (h *UnifiedHandler) Search(w http.ResponseWriter, r *http.Request) {
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

	results, err := h.svc.Search(r.Context(), query, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"total":   len(results),
	})
}

// Detail handles GET /api/unified-detail/{source}/{id}?content_type=...
func (h *UnifiedHandler) Detail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	source := vars["source"]
	id := vars["id"]
	contentType := r.URL.Query().Get("content_type")

	detail, err := h.svc.Detail(r.Context(), source, id, contentType)
	if err != nil {
		// An IMDb detail miss is recoverable when TMDB holds the same title,
		// so point the caller at the fallback instead of a bare 404.
		var uerr *unified.UpstreamError
		if errors.As(err, &uerr) && uerr.Provider == "imdbapi" && uerr.NotFound() && h.svc.TMDBConfigured() {
			writeError(w, http.StatusNotFound, "title not found on imdb",
				"retry with source=tmdb and the title's TMDB id")
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// IMDBTitle handles GET /api/imdb/titles/{id} and proxies the provider
// payload untouched.
func (h *UnifiedHandler) IMDBTitle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	raw, err := h.svc.IMDBTitleRaw(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(raw); err != nil {
		log.Printf("[handlers] write imdb payload: %v", err)
	}
}

// TMDBDetails handles GET /api/tmdb/details/{id}/{type}.
func (h *UnifiedHandler) TMDBDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	raw, err := h.svc.TMDBDetailsRaw(r.Context(), vars["id"], vars["type"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(raw); err != nil {
		log.Printf("[handlers] write tmdb payload: %v", err)
	}
}
