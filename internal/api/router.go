package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"duelrelay/internal/api/handler"
	"duelrelay/internal/api/middleware"
	"duelrelay/internal/api/response"
	"duelrelay/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	WSHandler   http.Handler
	StatsLedger *stats.Ledger
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	statsHandler := handler.NewStatsHandler(cfg.StatsLedger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// The websocket route sits outside the middleware chain: the
	// logging wrapper does not implement http.Hijacker, which the
	// upgrade requires.
	r.Handle("/ws", cfg.WSHandler).Methods(http.MethodGet)

	// Liveness endpoint, plain text
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/stats/{name}", statsHandler.Get).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, "ok")
}
