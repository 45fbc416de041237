package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"astrocadet/internal/game"
	"astrocadet/internal/models"
	"astrocadet/internal/session"
)

// GameHandler exposes a session's state machine as a JSON API
type GameHandler struct {
	scores session.ScoreStore
}

// NewGameHandler creates a new game handler
func NewGameHandler(scores session.ScoreStore) *GameHandler {
	return &GameHandler{scores: scores}
}

// ActionResponse is returned by every input endpoint
type ActionResponse struct {
	State  session.Snapshot `json:"state"`
	Result interface{}      `json:"result,omitempty"`
}

type placeRequest struct {
	Target string `json:"target"`
}

type placeResult struct {
	Word    string `json:"word"`
	Target  string `json:"target"`
	Correct bool   `json:"correct"`
	Score   int    `json:"score"`
	Done    bool   `json:"done"`
}

type clickResult struct {
	BubbleID int    `json:"bubble_id"`
	Word     string `json:"word"`
	Correct  bool   `json:"correct"`
	Ended    bool   `json:"ended"`
	Won      bool   `json:"won"`
}

// State returns the current screen
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// OpenNormalMenu shows the normal-mode game choice
func (h *GameHandler) OpenNormalMenu(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())
	h.respond(w, s, nil, s.OpenNormalMenu())
}

// SelectMode activates a mode and shows its module list
func (h *GameHandler) SelectMode(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())

	mode, err := models.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidMode, "", nil)
		return
	}
	h.respond(w, s, nil, s.SelectMode(mode))
}

// SelectModule starts a module in the active mode
func (h *GameHandler) SelectModule(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidModuleID, "", nil)
		return
	}
	h.respond(w, s, nil, s.SelectModule(id))
}

// PlaceWord drops the current word on a box
func (h *GameHandler) PlaceWord(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())

	var req placeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", nil)
		return
	}

	outcome, err := s.PlaceWord(req.Target)
	var result interface{}
	if err == nil {
		result = placeResultFrom(outcome)
	}
	h.respond(w, s, result, err)
}

// ClickBubble pops a bubble
func (h *GameHandler) ClickBubble(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidBubbleID, "", nil)
		return
	}

	outcome, err := s.ClickBubble(id)
	var result interface{}
	if err == nil {
		result = clickResultFrom(outcome)
	}
	h.respond(w, s, result, err)
}

// ShowHighScores switches to the leaderboard screen
func (h *GameHandler) ShowHighScores(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())
	h.respond(w, s, nil, s.ShowHighScores())
}

// ListHighScores returns the stored leaderboard
func (h *GameHandler) ListHighScores(w http.ResponseWriter, r *http.Request) {
	entries := h.scores.LoadAll()
	if entries == nil {
		entries = []models.HighScoreEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// Back returns to the main menu
func (h *GameHandler) Back(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())
	s.Back()
	h.respond(w, s, nil, nil)
}

func (h *GameHandler) respond(w http.ResponseWriter, s *session.Session, result interface{}, err error) {
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ActionResponse{State: s.Snapshot(), Result: result})
}

func placeResultFrom(o game.PlaceOutcome) placeResult {
	return placeResult{
		Word:    o.Word.Text,
		Target:  o.Target,
		Correct: o.Correct,
		Score:   o.Score,
		Done:    o.Done,
	}
}

func clickResultFrom(o game.ClickOutcome) clickResult {
	return clickResult{
		BubbleID: o.Bubble.ID,
		Word:     o.Bubble.Word,
		Correct:  o.Correct,
		Ended:    o.Ended,
		Won:      o.Won,
	}
}
