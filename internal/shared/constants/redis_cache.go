package constants

import "strconv"

// Redis key registry. Pattern: ticketry:{module}:{operation}:{identifier}

const (
	CachePrefix = "ticketry"

	// Event status snapshots. Short-lived: a cached status may lag the
	// latest committed counters by up to its TTL.
	CacheKeyEventStatus = CachePrefix + ":events:status:" // + event-id
)

func BuildEventStatusKey(eventID uint) string {
	return CacheKeyEventStatus + strconv.FormatUint(uint64(eventID), 10)
}
