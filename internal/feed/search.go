package feed

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/joshua-takyi/citypulse/internal/models"
)

// MaxSearchResults caps search output. Search is first-page-only: there is
// no cursor.
const MaxSearchResults = 50

// ErrUnconstrainedSearch is returned when a search carries neither a text
// term nor a complete geo triple. The handler validates this up front; the
// engine refuses anyway so an unconstrained scan can never run.
var ErrUnconstrainedSearch = errors.New("search requires a text query or lat, lng and radius_km together")

// Search filters a candidate snapshot by expiry, optional case-insensitive
// substring match over title and description, and optional geo radius.
// Results are ordered by distance ascending when geo is active, otherwise
// by creation time descending (newest first), with event id as the final
// tie-break either way.
func Search(cands []Candidate, query models.SearchQuery, now time.Time) ([]models.SearchResult, error) {
	q := strings.TrimSpace(query.Q)
	hasGeo := query.HasGeo()

	if q == "" && !hasGeo {
		return nil, ErrUnconstrainedSearch
	}

	var origin models.Coordinates
	var radius float64
	if hasGeo {
		origin = models.Coordinates{Latitude: *query.Lat, Longitude: *query.Lng}
		radius = *query.RadiusKm
	}

	qLower := strings.ToLower(q)

	results := make([]models.SearchResult, 0, len(cands))
	for _, cand := range cands {
		e := cand.Event
		if IsExpired(e.EndTime, now) {
			continue
		}

		if q != "" {
			title := strings.ToLower(e.Title)
			desc := strings.ToLower(e.Description)
			if !strings.Contains(title, qLower) && !strings.Contains(desc, qLower) {
				continue
			}
		}

		var distanceKm *float64
		if hasGeo {
			within, d := Within(origin, e.Coordinates, radius)
			if !within {
				continue
			}
			distanceKm = &d
		}

		results = append(results, models.SearchResult{
			Event:         e,
			LikeCount:     cand.Counts.LikeCount,
			AttendeeCount: cand.Counts.AttendeeCount,
			DistanceKm:    distanceKm,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if hasGeo {
			if *results[i].DistanceKm != *results[j].DistanceKm {
				return *results[i].DistanceKm < *results[j].DistanceKm
			}
		} else if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return strings.Compare(results[i].ID.String(), results[j].ID.String()) < 0
	})

	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}

	return results, nil
}
