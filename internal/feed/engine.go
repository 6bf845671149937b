package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/joshua-takyi/citypulse/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Candidate pairs an event with its engagement counts as read in one
// snapshot. The engines are pure over a candidate slice, so every ordering
// and filtering rule is unit-testable with a fixed now.
type Candidate struct {
	Event  models.Event
	Counts models.EngagementCounts
}

// NormalizePagination applies defaults and the hard cap. Requests above
// MaxLimit are clamped, not rejected.
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// BuildPage produces one page of the globally ranked feed from a candidate
// snapshot. Expired candidates are dropped unconditionally even if the
// store already filtered them. Ordering is score descending with ties
// broken by event id ascending, so concatenating successive pages always
// reproduces the single unbounded sort.
func BuildPage(cands []Candidate, now time.Time, page, limit int) *models.FeedPage {
	page, limit = NormalizePagination(page, limit)

	ranked := make([]models.FeedEvent, 0, len(cands))
	for _, cand := range cands {
		e := cand.Event
		if IsExpired(e.EndTime, now) {
			continue
		}
		live := IsLive(e.StartTime, e.EndTime, now)
		ranked = append(ranked, models.FeedEvent{
			Event:         e,
			LikeCount:     cand.Counts.LikeCount,
			AttendeeCount: cand.Counts.AttendeeCount,
			IsLive:        live,
			Score:         Score(cand.Counts.LikeCount, cand.Counts.AttendeeCount, e.CreatedAt, now, live),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return strings.Compare(ranked[i].ID.String(), ranked[j].ID.String()) < 0
	})

	total := len(ranked)

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &models.FeedPage{
		Events: ranked[start:end],
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
}
