package feed

import "time"

// Status is the time-dependent visibility state of an event.
type Status string

const (
	StatusLive     Status = "live"
	StatusUpcoming Status = "upcoming"
	StatusExpired  Status = "expired"
)

// Classify places an event relative to now. Start is inclusive, end is
// exclusive: an event is live exactly at its start instant and expired
// exactly at its end instant. Every liveness check in the app (scoring,
// feed and search badges, the chat lobby gate) goes through this function
// so the boundary behaves the same everywhere.
func Classify(start, end, now time.Time) Status {
	if !now.Before(end) {
		return StatusExpired
	}
	if now.Before(start) {
		return StatusUpcoming
	}
	return StatusLive
}

// IsLive reports whether start <= now < end.
func IsLive(start, end, now time.Time) bool {
	return Classify(start, end, now) == StatusLive
}

// IsExpired reports whether now >= end. Expired events are never shown,
// ranked, or matched.
func IsExpired(end, now time.Time) bool {
	return !now.Before(end)
}
