package model

// Stats holds the volatile win/loss counters for a display name.
// Records are created lazily the first time a name is seen, never
// destroyed, and mutated only by game-over notifications. Keying by
// display name means a reused name shares a bucket across sessions;
// this is a known limitation, not a bug to correct here.
type Stats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}
