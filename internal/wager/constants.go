package wager

import "time"

const (
	// DefaultDisputeWindow is how long after settlement either party may
	// dispute the outcome
	DefaultDisputeWindow = 72 * time.Hour

	// originKeyPrefix namespaces wager-settlement obligation origin keys
	originKeyPrefix = "wager:"
)

// OriginKey returns the obligation idempotence key for a wager id
func OriginKey(wagerID string) string {
	return originKeyPrefix + wagerID
}
