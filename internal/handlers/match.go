package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/service"
)

// MatchHandlers maps the match history endpoints onto the match service.
// Recording is done by trusted game servers, so it sits behind the admin gate.
type MatchHandlers struct {
	matches *service.MatchService
	logger  *logrus.Logger
}

func NewMatchHandlers(matches *service.MatchService, logger *logrus.Logger) *MatchHandlers {
	if logger == nil {
		logger = logrus.New()
	}
	return &MatchHandlers{matches: matches, logger: logger}
}

// Record persists a finished match and updates the participants' stats.
func (h *MatchHandlers) Record(w http.ResponseWriter, r *http.Request) {
	var req service.MatchInput
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	match, err := h.matches.RecordMatch(r.Context(), req)
	if errors.Is(err, service.ErrUserNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("failed to record match")
		http.Error(w, "error recording match", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, match)
}

// Get fetches one match summary by id.
func (h *MatchHandlers) Get(w http.ResponseWriter, r *http.Request) {
	matchID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid match id", http.StatusBadRequest)
		return
	}

	match, err := h.matches.GetMatch(r.Context(), matchID)
	if errors.Is(err, service.ErrMatchNotFound) {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("match lookup failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

// ListByPlayer lists the matches a player took part in.
func (h *MatchHandlers) ListByPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}

	matches, err := h.matches.GetMatchesByPlayer(r.Context(), playerID)
	if err != nil {
		h.logger.WithError(err).Error("failed to list matches")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}
