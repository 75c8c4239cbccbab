package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"duelrelay/internal/api/response"
	"duelrelay/internal/model"
	"duelrelay/internal/services/stats"
)

// StatsHandler serves read-only stats lookups
type StatsHandler struct {
	ledger *stats.Ledger
}

// NewStatsHandler creates a StatsHandler
func NewStatsHandler(ledger *stats.Ledger) *StatsHandler {
	return &StatsHandler{ledger: ledger}
}

// Get returns the win/loss record for a display name
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	record, err := h.ledger.Lookup(r.Context(), name)
	if err != nil {
		if errors.Is(err, model.ErrStatsNotFound) {
			response.Error(w, http.StatusNotFound, response.CodeStatsNotFound, "No stats recorded for this name")
			return
		}
		response.Error(w, http.StatusInternalServerError, response.CodeInternalError, "Internal server error")
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(name, record))
}
