package redis

import "fmt"

// Key prefix for all leaderboard data
const keyPrefix = "puzzleduel"

// entryKey returns the Redis key for a leaderboard entry
func entryKey(id string) string {
	return fmt.Sprintf("%s:leaderboard:entry:%s", keyPrefix, id)
}

// Sorted-set index keys, one per supported ordering. Members are entry IDs.

func byScoreKey() string {
	return fmt.Sprintf("%s:leaderboard:idx:score", keyPrefix)
}

func byTimeKey() string {
	return fmt.Sprintf("%s:leaderboard:idx:time", keyPrefix)
}

func byDateKey() string {
	return fmt.Sprintf("%s:leaderboard:idx:date", keyPrefix)
}
