package response

import "duelrelay/internal/model"

// APIError represents an API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeStatsNotFound = "STATS_NOT_FOUND"
	CodeInternalError = "INTERNAL_ERROR"
)

// Stats is a stats record in API responses
type Stats struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// StatsFromModel converts a model.Stats to a response Stats
func StatsFromModel(name string, s *model.Stats) Stats {
	return Stats{
		Name:   name,
		Wins:   s.Wins,
		Losses: s.Losses,
	}
}
