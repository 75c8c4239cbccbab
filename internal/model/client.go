package model

import (
	"strings"
	"time"
)

// ClientID uniquely identifies a connected client for the life of its
// connection. IDs are minted at connect time and never reused.
type ClientID string

// Status is the lifecycle state of a connection
type Status string

const (
	StatusConnecting     Status = "connecting"      // Connected, not yet logged in
	StatusLobby          Status = "lobby"           // Visible and challengeable
	StatusWaitingPrivate Status = "waiting_private" // Created a private room, waiting for a joiner
	StatusPlaying        Status = "playing"         // Member of a live session
)

const (
	// MaxDisplayNameLength is the maximum display name length in runes
	MaxDisplayNameLength = 15

	// DefaultDisplayName is assigned at connect, before any login
	DefaultDisplayName = "Guest"

	// FallbackDisplayName replaces names that are empty after trimming
	FallbackDisplayName = "Player"

	// DefaultAvatarTag is assigned at connect
	DefaultAvatarTag = "default"
)

// Client is the per-connection record: identity, display fields, and
// lifecycle status. One exists per live connection.
type Client struct {
	ID          ClientID
	DisplayName string
	AvatarTag   string
	Status      Status
	ConnectedAt time.Time
}

// SanitizeDisplayName truncates a client-asserted name to the maximum
// length and substitutes the fallback for names that trim to empty.
func SanitizeDisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return FallbackDisplayName
	}
	runes := []rune(name)
	if len(runes) > MaxDisplayNameLength {
		return string(runes[:MaxDisplayNameLength])
	}
	return name
}
