package feed

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestScoreKnownScenarios(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// 10 likes, 5 attendees, created 1h ago, live:
	// (10*2.0 + 5*1.5) * exp(-0.1) * 2.0 ≈ 49.77
	created := now.Add(-time.Hour)
	got := Score(10, 5, created, now, true)
	if !almostEqual(got, 49.77, 0.01) {
		t.Errorf("live 1h-old score = %f, want ≈49.77", got)
	}

	// Same event, not live: exactly half.
	notLive := Score(10, 5, created, now, false)
	if !almostEqual(notLive, got/2, 1e-9) {
		t.Errorf("live boost should exactly double score: live=%f notLive=%f", got, notLive)
	}
	if !almostEqual(notLive, 24.88, 0.01) {
		t.Errorf("non-live 1h-old score = %f, want ≈24.88", notLive)
	}

	// 24h old, live: decay dominates. 27.5 * exp(-2.4) * 2 ≈ 4.99
	old := Score(10, 5, now.Add(-24*time.Hour), now, true)
	if !almostEqual(old, 4.99, 0.01) {
		t.Errorf("24h-old live score = %f, want ≈4.99", old)
	}
}

func TestScoreZeroEngagementIsAbsorbing(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, live := range []bool{true, false} {
		for _, age := range []time.Duration{0, time.Hour, 100 * time.Hour} {
			if got := Score(0, 0, now.Add(-age), now, live); got != 0 {
				t.Errorf("zero engagement (live=%v age=%v) scored %f, want 0", live, age, got)
			}
		}
	}
}

func TestScoreMonotonicity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-2 * time.Hour)

	// More likes never decreases the score.
	prev := -1.0
	for likes := 0; likes <= 50; likes += 5 {
		s := Score(likes, 3, created, now, false)
		if s < prev {
			t.Fatalf("score decreased as likes grew: likes=%d score=%f prev=%f", likes, s, prev)
		}
		prev = s
	}

	// More attendees never decreases the score.
	prev = -1.0
	for attendees := 0; attendees <= 50; attendees += 5 {
		s := Score(4, attendees, created, now, false)
		if s < prev {
			t.Fatalf("score decreased as attendees grew: attendees=%d score=%f prev=%f", attendees, s, prev)
		}
		prev = s
	}

	// More age never increases the score.
	prev = math.Inf(1)
	for hours := 0; hours <= 72; hours += 6 {
		s := Score(10, 5, now.Add(-time.Duration(hours)*time.Hour), now, true)
		if s > prev {
			t.Fatalf("score increased as age grew: age=%dh score=%f prev=%f", hours, s, prev)
		}
		prev = s
	}
}

func TestScoreClockSkewClampsAgeToZero(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Creation instant in the future must behave as age zero, never boost.
	future := Score(10, 5, now.Add(10*time.Minute), now, false)
	fresh := Score(10, 5, now, now, false)
	if future != fresh {
		t.Errorf("future created_at scored %f, want same as age zero %f", future, fresh)
	}
}

func TestScoreAttendanceWeighsLessThanLikes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	likesOnly := Score(10, 0, now, now, false)
	attendeesOnly := Score(0, 10, now, now, false)
	if likesOnly <= attendeesOnly {
		t.Errorf("likes should outweigh attendance: likes=%f attendees=%f", likesOnly, attendeesOnly)
	}
}
