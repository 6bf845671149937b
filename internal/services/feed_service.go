package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/feed"
	"github.com/joshua-takyi/citypulse/internal/models"
)

type FeedService struct {
	eventsRepo       models.EventsRepo
	interactionsRepo models.InteractionsRepo
}

func NewFeedService(eventsRepo models.EventsRepo, interactionsRepo models.InteractionsRepo) *FeedService {
	return &FeedService{
		eventsRepo:       eventsRepo,
		interactionsRepo: interactionsRepo,
	}
}

// GetFeed assembles one page of the ranked feed. It reads a snapshot
// (active events plus one batched counts lookup) and hands it to the pure
// ranking engine; the service holds no state between requests.
func (fs *FeedService) GetFeed(ctx context.Context, page, limit int) (*models.FeedPage, error) {
	now := time.Now()

	candidates, err := fetchCandidates(ctx, fs.eventsRepo, fs.interactionsRepo, now)
	if err != nil {
		return nil, err
	}

	return feed.BuildPage(candidates, now, page, limit), nil
}

// fetchCandidates reads every non-expired event and its engagement counts
// in two store round-trips total, regardless of event count.
func fetchCandidates(ctx context.Context, eventsRepo models.EventsRepo, interactionsRepo models.InteractionsRepo, now time.Time) ([]feed.Candidate, error) {
	events, err := eventsRepo.ListActiveEvents(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %v", err)
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	counts, err := interactionsRepo.CountsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement counts: %v", err)
	}

	candidates := make([]feed.Candidate, 0, len(events))
	for _, e := range events {
		candidates = append(candidates, feed.Candidate{
			Event:  *e,
			Counts: counts[e.ID],
		})
	}

	return candidates, nil
}
