package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/feed"
	"github.com/joshua-takyi/citypulse/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubEventsRepo struct {
	events    []*models.Event
	listCalls int
}

func (s *stubEventsRepo) CreateEvent(ctx context.Context, event *models.Event, accessToken string) (*models.Event, error) {
	s.events = append(s.events, event)
	return event, nil
}

func (s *stubEventsRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (s *stubEventsRepo) ListActiveEvents(ctx context.Context, now time.Time) ([]*models.Event, error) {
	s.listCalls++
	var active []*models.Event
	for _, e := range s.events {
		if e.EndTime.After(now) {
			active = append(active, e)
		}
	}
	return active, nil
}

func (s *stubEventsRepo) UpdateEvent(ctx context.Context, id uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Event, error) {
	return s.GetEventByID(ctx, id)
}

func (s *stubEventsRepo) DeleteEvent(ctx context.Context, id uuid.UUID, accessToken string) error {
	return nil
}

type stubInteractionsRepo struct {
	counts     map[uuid.UUID]models.EngagementCounts
	comments   []*models.Comment
	countCalls int
}

func (s *stubInteractionsRepo) ToggleLike(ctx context.Context, userId, eventId uuid.UUID) (bool, int, error) {
	return true, 1, nil
}

func (s *stubInteractionsRepo) MarkAttendance(ctx context.Context, userId, eventId uuid.UUID, status string) (int, error) {
	return 1, nil
}

func (s *stubInteractionsRepo) ListAttendees(ctx context.Context, eventId uuid.UUID) ([]models.Attendee, error) {
	return nil, nil
}

func (s *stubInteractionsRepo) CountsFor(ctx context.Context, eventIds []uuid.UUID) (map[uuid.UUID]models.EngagementCounts, error) {
	s.countCalls++
	out := make(map[uuid.UUID]models.EngagementCounts, len(eventIds))
	for _, id := range eventIds {
		out[id] = s.counts[id]
	}
	return out, nil
}

func (s *stubInteractionsRepo) AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.ID = primitive.NewObjectID()
	s.comments = append(s.comments, comment)
	return comment, nil
}

func (s *stubInteractionsRepo) ListComments(ctx context.Context, eventId uuid.UUID, limit int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range s.comments {
		if c.EventID == eventId {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func testEvent(n int, start, end time.Time) *models.Event {
	return &models.Event{
		ID:        uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n)),
		Title:     fmt.Sprintf("Event %d", n),
		StartTime: start,
		EndTime:   end,
		CreatedAt: start.Add(-time.Hour),
	}
}

func TestGetFeedBatchesCountLookups(t *testing.T) {
	now := time.Now()
	eventsRepo := &stubEventsRepo{}
	interactionsRepo := &stubInteractionsRepo{counts: map[uuid.UUID]models.EngagementCounts{}}
	for n := 1; n <= 10; n++ {
		e := testEvent(n, now.Add(-time.Hour), now.Add(time.Hour))
		eventsRepo.events = append(eventsRepo.events, e)
		interactionsRepo.counts[e.ID] = models.EngagementCounts{LikeCount: n, AttendeeCount: n}
	}

	fs := NewFeedService(eventsRepo, interactionsRepo)
	page, err := fs.GetFeed(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}

	if eventsRepo.listCalls != 1 {
		t.Errorf("expected 1 event listing, got %d", eventsRepo.listCalls)
	}
	if interactionsRepo.countCalls != 1 {
		t.Errorf("expected 1 batched count lookup, got %d", interactionsRepo.countCalls)
	}
	if len(page.Events) != 5 {
		t.Errorf("expected 5 events on page, got %d", len(page.Events))
	}
	if page.Total != 10 {
		t.Errorf("expected total 10, got %d", page.Total)
	}
	// Highest engagement first
	if page.Events[0].LikeCount != 10 {
		t.Errorf("expected most-liked event first, got like_count=%d", page.Events[0].LikeCount)
	}
}

func TestGetFeedExcludesEndedEvents(t *testing.T) {
	now := time.Now()
	eventsRepo := &stubEventsRepo{events: []*models.Event{
		testEvent(1, now.Add(-3*time.Hour), now.Add(-time.Hour)),
		testEvent(2, now.Add(-time.Hour), now.Add(time.Hour)),
	}}
	interactionsRepo := &stubInteractionsRepo{counts: map[uuid.UUID]models.EngagementCounts{}}

	fs := NewFeedService(eventsRepo, interactionsRepo)
	page, err := fs.GetFeed(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("GetFeed failed: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 event, got %d", page.Total)
	}
	if page.Events[0].Title != "Event 2" {
		t.Errorf("expected the ongoing event, got %q", page.Events[0].Title)
	}
}

func TestSearchRejectsUnconstrainedQuery(t *testing.T) {
	ss := NewSearchService(&stubEventsRepo{}, &stubInteractionsRepo{})

	_, err := ss.Search(context.Background(), models.SearchQuery{Q: "   "})
	if !errors.Is(err, feed.ErrUnconstrainedSearch) {
		t.Fatalf("expected ErrUnconstrainedSearch, got %v", err)
	}
}

func TestSearchRejectsOutOfRangeRadius(t *testing.T) {
	ss := NewSearchService(&stubEventsRepo{}, &stubInteractionsRepo{})

	lat, lng, radius := 5.6, -0.2, 250.0
	_, err := ss.Search(context.Background(), models.SearchQuery{Lat: &lat, Lng: &lng, RadiusKm: &radius})
	if !errors.Is(err, ErrInvalidSearchQuery) {
		t.Fatalf("expected ErrInvalidSearchQuery, got %v", err)
	}
}

func TestAddCommentCountsRunesNotBytes(t *testing.T) {
	now := time.Now()
	event := testEvent(1, now.Add(-time.Hour), now.Add(time.Hour))
	is := NewInteractionService(
		&stubEventsRepo{events: []*models.Event{event}},
		&stubInteractionsRepo{},
	)

	// 500 characters but 1500 bytes, well inside the 1000-character bound.
	content := strings.Repeat("世", 500)
	comment, err := is.AddComment(context.Background(), uuid.New(), event.ID, content)
	if err != nil {
		t.Fatalf("multibyte comment within the bound should be accepted: %v", err)
	}
	if comment.Content != content {
		t.Errorf("content was altered: got %q", comment.Content)
	}

	_, err = is.AddComment(context.Background(), uuid.New(), event.ID, strings.Repeat("世", 1001))
	if !errors.Is(err, ErrInvalidComment) {
		t.Fatalf("expected ErrInvalidComment for 1001 characters, got %v", err)
	}
}

func TestAddCommentStripsHTML(t *testing.T) {
	now := time.Now()
	event := testEvent(1, now.Add(-time.Hour), now.Add(time.Hour))
	is := NewInteractionService(
		&stubEventsRepo{events: []*models.Event{event}},
		&stubInteractionsRepo{},
	)

	comment, err := is.AddComment(context.Background(), uuid.New(), event.ID, `<script>alert("x")</script>great show <b>tonight</b>`)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.Content != `alert("x")great show tonight` {
		t.Errorf("markup should be stripped before storage, got %q", comment.Content)
	}

	_, err = is.AddComment(context.Background(), uuid.New(), event.ID, "<b></b> <i></i>")
	if !errors.Is(err, ErrInvalidComment) {
		t.Fatalf("expected ErrInvalidComment for markup-only content, got %v", err)
	}
}

func TestPostMessageCountsRunesNotBytes(t *testing.T) {
	now := time.Now()
	event := testEvent(1, now.Add(-time.Hour), now.Add(time.Hour))
	cs := NewChatService(
		&stubEventsRepo{events: []*models.Event{event}},
		&stubInteractionsRepo{},
	)

	msg, err := cs.PostMessage(context.Background(), uuid.New(), event.ID, strings.Repeat("世", 500))
	if err != nil {
		t.Fatalf("multibyte message within the bound should be accepted: %v", err)
	}
	if got := len([]rune(msg.Content)); got != 500 {
		t.Errorf("expected 500 characters stored, got %d", got)
	}
}

func TestChatLobbyGate(t *testing.T) {
	now := time.Now()
	liveEvent := testEvent(1, now.Add(-time.Hour), now.Add(time.Hour))
	upcomingEvent := testEvent(2, now.Add(time.Hour), now.Add(2*time.Hour))
	eventsRepo := &stubEventsRepo{events: []*models.Event{liveEvent, upcomingEvent}}
	interactionsRepo := &stubInteractionsRepo{}

	cs := NewChatService(eventsRepo, interactionsRepo)
	userId := uuid.New()

	if _, err := cs.PostMessage(context.Background(), userId, liveEvent.ID, "hello"); err != nil {
		t.Fatalf("posting to a live lobby should succeed: %v", err)
	}

	_, err := cs.PostMessage(context.Background(), userId, upcomingEvent.ID, "too early")
	if !errors.Is(err, ErrLobbyClosed) {
		t.Fatalf("expected ErrLobbyClosed, got %v", err)
	}

	msgs, err := cs.RecentMessages(context.Background(), upcomingEvent.ID)
	if err != nil {
		t.Fatalf("RecentMessages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("closed lobby should return no messages, got %d", len(msgs))
	}
}
