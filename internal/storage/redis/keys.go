package redis

import "fmt"

// Key prefix for all relay-related data
const keyPrefix = "duelrelay"

// Hash field names for a stats record
const (
	fieldWins   = "wins"
	fieldLosses = "losses"
)

// statsKey returns the Redis key for a display name's stats hash
func statsKey(name string) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, name)
}
