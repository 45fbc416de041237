package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"astrocadet/internal/game"
	"astrocadet/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithGameError maps session and game errors to status codes. These
// are ordinary player mistakes, so nothing is logged.
func respondWithGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownModule):
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, session.ErrCatalogUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, session.CatalogErrorMessage, "", nil)
	case errors.Is(err, session.ErrInvalidAction), errors.Is(err, game.ErrPhaseOver):
		respondWithError(w, http.StatusConflict, err.Error(), "", nil)
	case errors.Is(err, game.ErrNotATarget), errors.Is(err, game.ErrNoSuchBubble):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Unexpected game error", err)
	}
}
