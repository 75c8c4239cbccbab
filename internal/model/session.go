package model

import "time"

// SessionID identifies a live game session. Private sessions use a
// short shareable room code; challenge sessions use an opaque token.
type SessionID string

// Color is a player's assigned side in a session
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// SessionCapacity is the fixed member count of a full session
const SessionCapacity = 2

// Session is a matched pair of clients relaying moves to each other.
// Members is ordered (creator first) and holds 1 or 2 entries; a
// zero-member session never exists. Colors is assigned exactly once,
// when membership reaches two, and is immutable afterwards.
type Session struct {
	ID        SessionID
	Members   []ClientID
	Private   bool
	Colors    map[ClientID]Color
	CreatedAt time.Time
}

// IsFull reports whether the session has both members
func (s *Session) IsFull() bool {
	return len(s.Members) >= SessionCapacity
}

// HasMember reports whether the given client is a session member
func (s *Session) HasMember(id ClientID) bool {
	for _, m := range s.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Opponent returns the other member of the session, if there is one
func (s *Session) Opponent(id ClientID) (ClientID, bool) {
	for _, m := range s.Members {
		if m != id {
			return m, true
		}
	}
	return "", false
}
