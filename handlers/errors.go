package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"anibridge/services/animeflv"
	"anibridge/services/unified"
)

// ErrorResponse is the wire shape for every error the API emits.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[handlers] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Details: details, Status: status})
}

// writeServiceError maps service errors onto HTTP statuses. Upstream statuses
// pass through so a provider's 404 or 401 stays visible to the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *unified.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Msg, "")
		return
	}

	var cerr *animeflv.ChallengeError
	if errors.As(err, &cerr) {
		writeError(w, http.StatusServiceUnavailable, "upstream site is behind a verification challenge", cerr.Error())
		return
	}

	var uerr *unified.UpstreamError
	if errors.As(err, &uerr) {
		switch {
		case uerr.NotFound():
			writeError(w, http.StatusNotFound, "title not found", uerr.Error())
		case uerr.Unauthorized():
			writeError(w, http.StatusUnauthorized, "upstream rejected credentials", uerr.Error())
		case uerr.StatusCode == 0:
			writeError(w, http.StatusBadGateway, "upstream request failed", uerr.Error())
		default:
			writeError(w, uerr.StatusCode, "upstream error", uerr.Error())
		}
		return
	}

	if errors.Is(err, unified.ErrNotConfigured) {
		writeError(w, http.StatusInternalServerError, "provider is not configured", err.Error())
		return
	}

	log.Printf("[handlers] unexpected error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal server error", err.Error())
}
