package scoring

import "fmt"

// CacheKey is the redis key for a scored-response payload.
func CacheKey(sport, date string) string {
	return fmt.Sprintf("tipline:scored:%s:%s", sport, date)
}

// CachePattern matches every cached scored response for a sport, used to
// invalidate after new predictions land.
func CachePattern(sport string) string {
	return fmt.Sprintf("tipline:scored:%s:*", sport)
}
