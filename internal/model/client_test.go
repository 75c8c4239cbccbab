package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "Alice", "Alice"},
		{"trims whitespace", "  Alice  ", "Alice"},
		{"empty becomes fallback", "", "Player"},
		{"whitespace only becomes fallback", "   ", "Player"},
		{"truncated to limit", strings.Repeat("a", 20), strings.Repeat("a", 15)},
		{"exactly at limit", strings.Repeat("b", 15), strings.Repeat("b", 15)},
		{"truncation counts runes", strings.Repeat("é", 20), strings.Repeat("é", 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeDisplayName(tt.input))
		})
	}
}

func TestSessionOpponent(t *testing.T) {
	sess := &Session{
		ID:      SessionID("s-1"),
		Members: []ClientID{"a", "b"},
	}

	opp, ok := sess.Opponent("a")
	assert.True(t, ok)
	assert.Equal(t, ClientID("b"), opp)

	opp, ok = sess.Opponent("b")
	assert.True(t, ok)
	assert.Equal(t, ClientID("a"), opp)

	// A non-member still gets some other member back; membership is
	// checked by the caller
	_, ok = sess.Opponent("c")
	assert.True(t, ok)
}

func TestSessionOpponentSingleMember(t *testing.T) {
	sess := &Session{
		ID:      SessionID("s-1"),
		Members: []ClientID{"a"},
	}

	_, ok := sess.Opponent("a")
	assert.False(t, ok)
	assert.False(t, sess.IsFull())
	assert.True(t, sess.HasMember("a"))
	assert.False(t, sess.HasMember("b"))
}
