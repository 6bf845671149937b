package feed

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/joshua-takyi/citypulse/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func searchCandidate(n int, title, description string, lat, lng float64, createdAgo time.Duration) Candidate {
	c := candidate(n, createdAgo, -time.Hour, time.Hour, 2, 1)
	c.Event.Title = title
	c.Event.Description = description
	c.Event.Coordinates = models.Coordinates{Latitude: lat, Longitude: lng}
	return c
}

func TestSearchRejectsUnconstrainedQuery(t *testing.T) {
	cands := []Candidate{searchCandidate(1, "Jazz Night", "", 0, 0, time.Hour)}

	for _, query := range []models.SearchQuery{
		{},
		{Q: "   "},
		// Partial geo triples are treated as geo-inactive and therefore
		// count as no constraint at all.
		{Lat: floatPtr(10)},
		{Lat: floatPtr(10), Lng: floatPtr(20)},
		{Lng: floatPtr(20), RadiusKm: floatPtr(5)},
	} {
		_, err := Search(cands, query, testNow)
		if !errors.Is(err, ErrUnconstrainedSearch) {
			t.Errorf("query %+v: err = %v, want ErrUnconstrainedSearch", query, err)
		}
	}
}

func TestSearchTextMatchCaseInsensitive(t *testing.T) {
	cands := []Candidate{
		searchCandidate(1, "Rooftop CONCERT", "", 0, 0, 3*time.Hour),
		searchCandidate(2, "Art fair", "free concert at the close", 0, 0, 2*time.Hour),
		searchCandidate(3, "Marathon", "city run", 0, 0, time.Hour),
	}

	results, err := Search(cands, models.SearchQuery{Q: "concert"}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (title or description match)", len(results))
	}
}

func TestSearchOrdersByRecencyWithoutGeo(t *testing.T) {
	// Two matches created at T1 < T2: newest first.
	cands := []Candidate{
		searchCandidate(1, "concert one", "", 0, 0, 5*time.Hour), // T1
		searchCandidate(2, "concert two", "", 0, 0, time.Hour),   // T2
	}

	results, err := Search(cands, models.SearchQuery{Q: "concert"}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != seqID(2) || results[1].ID != seqID(1) {
		t.Errorf("results not newest-first: got [%s, %s]", results[0].ID, results[1].ID)
	}
	for _, r := range results {
		if r.DistanceKm != nil {
			t.Errorf("distance_km should be nil without a geo query, got %v", *r.DistanceKm)
		}
	}
}

func TestSearchGeoRadiusFilterAndDistance(t *testing.T) {
	// Origin (0,0), radius 5 km; one event ~1.11 km away, one ~11.1 km away.
	cands := []Candidate{
		searchCandidate(1, "near", "", 0, 0.01, time.Hour),
		searchCandidate(2, "far", "", 0, 0.1, time.Hour),
	}

	query := models.SearchQuery{Lat: floatPtr(0), Lng: floatPtr(0), RadiusKm: floatPtr(5)}
	results, err := Search(cands, query, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (only the near event)", len(results))
	}
	if results[0].ID != seqID(1) {
		t.Errorf("wrong event survived the radius filter: %s", results[0].ID)
	}
	if results[0].DistanceKm == nil || math.Abs(*results[0].DistanceKm-1.11) > 0.02 {
		t.Errorf("distance_km = %v, want ≈1.11", results[0].DistanceKm)
	}
}

func TestSearchGeoOrdersByDistanceAscending(t *testing.T) {
	cands := []Candidate{
		searchCandidate(1, "mid", "", 0, 0.05, time.Hour),
		searchCandidate(2, "closest", "", 0, 0.01, time.Hour),
		searchCandidate(3, "farthest", "", 0, 0.08, time.Hour),
	}

	query := models.SearchQuery{Lat: floatPtr(0), Lng: floatPtr(0), RadiusKm: floatPtr(50)}
	results, err := Search(cands, query, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	want := []int{2, 1, 3}
	for i, n := range want {
		if results[i].ID != seqID(n) {
			t.Fatalf("result %d = %s, want event %d (nearest first)", i, results[i].ID, n)
		}
	}
}

func TestSearchCombinesTextAndGeo(t *testing.T) {
	cands := []Candidate{
		searchCandidate(1, "jazz picnic", "", 0, 0.01, time.Hour),   // matches both
		searchCandidate(2, "jazz brunch", "", 0, 0.5, time.Hour),    // text only, too far
		searchCandidate(3, "chess night", "", 0, 0.005, time.Hour),  // geo only, no text match
	}

	query := models.SearchQuery{Q: "jazz", Lat: floatPtr(0), Lng: floatPtr(0), RadiusKm: floatPtr(5)}
	results, err := Search(cands, query, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != seqID(1) {
		t.Fatalf("text+geo intersection wrong: %+v", results)
	}
}

func TestSearchExcludesExpired(t *testing.T) {
	expired := searchCandidate(1, "concert finale", "", 0, 0, time.Hour)
	expired.Event.EndTime = testNow.Add(-time.Minute)

	results, err := Search([]Candidate{expired}, models.SearchQuery{Q: "concert"}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expired event matched search: %+v", results)
	}
}

func TestSearchCapsResults(t *testing.T) {
	cands := make([]Candidate, 0, MaxSearchResults+20)
	for i := 1; i <= MaxSearchResults+20; i++ {
		cands = append(cands, searchCandidate(i, "street food", "", 0, 0, time.Duration(i)*time.Minute))
	}

	results, err := Search(cands, models.SearchQuery{Q: "street"}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != MaxSearchResults {
		t.Errorf("got %d results, want hard cap %d", len(results), MaxSearchResults)
	}
}

func TestSearchTrimsQuery(t *testing.T) {
	cands := []Candidate{searchCandidate(1, "Night Market", "", 0, 0, time.Hour)}

	results, err := Search(cands, models.SearchQuery{Q: "  market  "}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("trimmed query should match, got %d results", len(results))
	}
}
