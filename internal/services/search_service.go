package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/citypulse/internal/feed"
	"github.com/joshua-takyi/citypulse/internal/models"
)

var ErrInvalidSearchQuery = errors.New("invalid search query")

type SearchService struct {
	eventsRepo       models.EventsRepo
	interactionsRepo models.InteractionsRepo
}

func NewSearchService(eventsRepo models.EventsRepo, interactionsRepo models.InteractionsRepo) *SearchService {
	return &SearchService{
		eventsRepo:       eventsRepo,
		interactionsRepo: interactionsRepo,
	}
}

// Search runs the text/geo query over non-expired events. A query with no
// constraint at all is rejected before any store access, so the service
// can never run an unconstrained scan.
func (ss *SearchService) Search(ctx context.Context, query models.SearchQuery) ([]models.SearchResult, error) {
	query.Q = strings.TrimSpace(query.Q)
	if !query.HasText() && !query.HasGeo() {
		return nil, feed.ErrUnconstrainedSearch
	}
	if query.HasGeo() {
		if *query.RadiusKm < feed.MinRadiusKm || *query.RadiusKm > feed.MaxRadiusKm {
			return nil, fmt.Errorf("%w: radius_km must be between %.0f and %.0f", ErrInvalidSearchQuery, feed.MinRadiusKm, feed.MaxRadiusKm)
		}
		origin := models.Coordinates{Latitude: *query.Lat, Longitude: *query.Lng}
		if !origin.InBounds() {
			return nil, fmt.Errorf("%w: lat must be between -90 and 90 and lng between -180 and 180", ErrInvalidSearchQuery)
		}
	}

	now := time.Now()

	candidates, err := fetchCandidates(ctx, ss.eventsRepo, ss.interactionsRepo, now)
	if err != nil {
		return nil, err
	}

	return feed.Search(candidates, query, now)
}
