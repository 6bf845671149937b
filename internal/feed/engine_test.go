package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// seqID yields ids whose string order matches n, so tie-break expectations
// are easy to state.
func seqID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func candidate(n int, createdAgo time.Duration, startIn, endIn time.Duration, likes, attendees int) Candidate {
	return Candidate{
		Event: models.Event{
			ID:        seqID(n),
			Title:     fmt.Sprintf("event %d", n),
			StartTime: testNow.Add(startIn),
			EndTime:   testNow.Add(endIn),
			CreatedAt: testNow.Add(-createdAgo),
		},
		Counts: models.EngagementCounts{LikeCount: likes, AttendeeCount: attendees},
	}
}

func TestBuildPageExcludesExpired(t *testing.T) {
	cands := []Candidate{
		candidate(1, time.Hour, -2*time.Hour, -time.Hour, 100, 100), // expired, huge engagement
		candidate(2, time.Hour, -time.Hour, time.Hour, 1, 0),        // live
		candidate(3, time.Hour, -2*time.Hour, 0, 50, 50),            // ends exactly now -> expired
	}

	page := BuildPage(cands, testNow, 1, 20)
	if page.Total != 1 {
		t.Fatalf("total = %d, want 1 (expired events must never be counted)", page.Total)
	}
	if len(page.Events) != 1 || page.Events[0].ID != seqID(2) {
		t.Fatalf("expired events leaked into the feed: %+v", page.Events)
	}
}

func TestBuildPageOrdersByScoreDescending(t *testing.T) {
	cands := []Candidate{
		candidate(1, time.Hour, -time.Hour, time.Hour, 1, 0),   // live, low engagement
		candidate(2, time.Hour, -time.Hour, time.Hour, 50, 20), // live, high engagement
		candidate(3, time.Hour, time.Hour, 2*time.Hour, 10, 5), // upcoming, mid engagement
	}

	page := BuildPage(cands, testNow, 1, 20)
	if len(page.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(page.Events))
	}
	for i := 1; i < len(page.Events); i++ {
		if page.Events[i].Score > page.Events[i-1].Score {
			t.Fatalf("feed not sorted by score descending: %f before %f",
				page.Events[i-1].Score, page.Events[i].Score)
		}
	}
	if page.Events[0].ID != seqID(2) {
		t.Errorf("highest-engagement live event should rank first, got %s", page.Events[0].ID)
	}
}

func TestBuildPageLiveEventsAnnotated(t *testing.T) {
	cands := []Candidate{
		candidate(1, time.Hour, -time.Hour, time.Hour, 5, 0),           // live
		candidate(2, time.Hour, time.Hour, 2*time.Hour, 5, 0),          // upcoming
		candidate(3, time.Hour, 0, time.Hour, 5, 0),                    // starts exactly now -> live
		candidate(4, time.Hour, -time.Hour, time.Nanosecond, 5, 0),     // about to end, still live
	}

	page := BuildPage(cands, testNow, 1, 20)
	byID := map[uuid.UUID]models.FeedEvent{}
	for _, fe := range page.Events {
		byID[fe.ID] = fe
	}

	for _, tc := range []struct {
		n    int
		live bool
	}{{1, true}, {2, false}, {3, true}, {4, true}} {
		fe, ok := byID[seqID(tc.n)]
		if !ok {
			t.Fatalf("event %d missing from feed", tc.n)
		}
		if fe.IsLive != tc.live {
			t.Errorf("event %d is_live = %v, want %v", tc.n, fe.IsLive, tc.live)
		}
	}
}

func TestBuildPageTieBreakByID(t *testing.T) {
	// Identical counts, age and liveness -> identical scores.
	cands := []Candidate{
		candidate(5, time.Hour, -time.Hour, time.Hour, 3, 3),
		candidate(1, time.Hour, -time.Hour, time.Hour, 3, 3),
		candidate(3, time.Hour, -time.Hour, time.Hour, 3, 3),
	}

	page := BuildPage(cands, testNow, 1, 20)
	want := []uuid.UUID{seqID(1), seqID(3), seqID(5)}
	for i, fe := range page.Events {
		if fe.ID != want[i] {
			t.Fatalf("tie-break order wrong at %d: got %s, want %s", i, fe.ID, want[i])
		}
	}
}

func TestBuildPagePaginationCoverage(t *testing.T) {
	// N events, page size L: concatenating all pages must yield exactly the
	// N events, no duplicates, no omissions, in unbounded-sort order.
	const n = 23
	const limit = 5

	cands := make([]Candidate, 0, n)
	for i := 1; i <= n; i++ {
		cands = append(cands, candidate(i, time.Duration(i)*time.Minute, -time.Hour, time.Hour, i%7, i%5))
	}

	full := BuildPage(cands, testNow, 1, MaxLimit)
	if full.Total != n {
		t.Fatalf("total = %d, want %d", full.Total, n)
	}

	var concat []models.FeedEvent
	pages := (n + limit - 1) / limit
	for p := 1; p <= pages; p++ {
		pg := BuildPage(cands, testNow, p, limit)
		if pg.Total != n {
			t.Errorf("page %d total = %d, want %d", p, pg.Total, n)
		}
		concat = append(concat, pg.Events...)
	}

	if len(concat) != n {
		t.Fatalf("concatenated pages hold %d events, want %d", len(concat), n)
	}
	seen := map[uuid.UUID]bool{}
	for i, fe := range concat {
		if seen[fe.ID] {
			t.Fatalf("event %s appears in more than one page", fe.ID)
		}
		seen[fe.ID] = true
		if fe.ID != full.Events[i].ID {
			t.Fatalf("page concatenation diverges from unbounded sort at index %d", i)
		}
	}
}

func TestBuildPageBeyondLastPageIsEmpty(t *testing.T) {
	cands := []Candidate{candidate(1, time.Hour, -time.Hour, time.Hour, 1, 1)}

	page := BuildPage(cands, testNow, 9, 20)
	if len(page.Events) != 0 {
		t.Errorf("page past the end returned %d events, want 0", len(page.Events))
	}
	if page.Total != 1 {
		t.Errorf("total = %d, want 1", page.Total)
	}
}

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, DefaultPage, DefaultLimit},
		{-3, -1, DefaultPage, DefaultLimit},
		{2, 50, 2, 50},
		{1, 100, 1, 100},
		{1, 101, 1, MaxLimit},
		{1, 10000, 1, MaxLimit},
	}

	for _, tc := range cases {
		p, l := NormalizePagination(tc.page, tc.limit)
		if p != tc.wantPage || l != tc.wantLimit {
			t.Errorf("NormalizePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.limit, p, l, tc.wantPage, tc.wantLimit)
		}
	}
}
