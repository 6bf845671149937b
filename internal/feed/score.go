package feed

import (
	"math"
	"time"
)

// Ranking weights. Likes are louder than attendance but cheaper to give;
// the decay rate halves relevance roughly every 7 hours; live events get a
// flat 2x multiplier rather than anything clever.
const (
	likeWeight     = 2.0
	attendeeWeight = 1.5
	decayRate      = 0.1 // per hour
	liveBoost      = 2.0
)

// Score computes the buzz score used to order the feed:
//
//	(likes*2.0 + attendees*1.5) * exp(-0.1 * age_hours) * (live ? 2.0 : 1.0)
//
// Pure and total: createdAt in the future (clock skew) is treated as age
// zero, and zero engagement always scores zero regardless of decay or boost.
func Score(likeCount, attendeeCount int, createdAt, now time.Time, live bool) float64 {
	base := float64(likeCount)*likeWeight + float64(attendeeCount)*attendeeWeight

	age := now.Sub(createdAt)
	if age < 0 {
		age = 0
	}
	decay := math.Exp(-decayRate * age.Hours())

	boost := 1.0
	if live {
		boost = liveBoost
	}

	return base * decay * boost
}
