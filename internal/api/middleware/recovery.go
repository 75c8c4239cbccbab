package middleware

import (
	"log/slog"
	"net/http"

	"duelrelay/internal/api/response"
	"duelrelay/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// Returns JSON error responses on panic.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	response.Error(w, http.StatusInternalServerError, response.CodeInternalError, "Internal server error")
}
