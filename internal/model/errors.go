package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session is full")
	ErrAlreadyInSession = errors.New("client is already in a session")

	// Stats errors
	ErrStatsNotFound = errors.New("no stats recorded for this name")
)
