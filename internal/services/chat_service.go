package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/feed"
	"github.com/joshua-takyi/citypulse/internal/models"
)

// ErrLobbyClosed is returned when the event is not live. The lobby opens
// exactly at start_time and closes exactly at end_time, per the shared
// liveness classification.
var ErrLobbyClosed = errors.New("event lobby is closed")

// ChatService owns the live-lobby rules. The transport (websocket rooms or
// polling) sits above it; every access decision funnels through the same
// liveness check the feed and search use.
type ChatService struct {
	eventsRepo       models.EventsRepo
	interactionsRepo models.InteractionsRepo
}

func NewChatService(eventsRepo models.EventsRepo, interactionsRepo models.InteractionsRepo) *ChatService {
	return &ChatService{
		eventsRepo:       eventsRepo,
		interactionsRepo: interactionsRepo,
	}
}

// IsLobbyOpen reports whether the event accepts chat right now.
func (cs *ChatService) IsLobbyOpen(ctx context.Context, eventId uuid.UUID) (bool, error) {
	event, err := cs.eventsRepo.GetEventByID(ctx, eventId)
	if err != nil {
		return false, err
	}
	if event == nil {
		return false, ErrEventNotFound
	}

	return feed.IsLive(event.StartTime, event.EndTime, time.Now()), nil
}

// PostMessage persists a lobby message. Messages share the comments
// collection with regular event comments.
func (cs *ChatService) PostMessage(ctx context.Context, userId, eventId uuid.UUID, content string) (*models.Comment, error) {
	if userId == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	content, err := sanitizeContent(content)
	if err != nil {
		return nil, err
	}

	open, err := cs.IsLobbyOpen(ctx, eventId)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrLobbyClosed
	}

	message := &models.Comment{
		EventID:   eventId,
		UserID:    userId,
		Content:   content,
		CreatedAt: time.Now(),
	}

	return cs.interactionsRepo.AddComment(ctx, message)
}

// RecentMessages returns the latest 50 lobby messages, newest first, or an
// empty slice when the lobby is closed.
func (cs *ChatService) RecentMessages(ctx context.Context, eventId uuid.UUID) ([]*models.Comment, error) {
	open, err := cs.IsLobbyOpen(ctx, eventId)
	if err != nil {
		return nil, err
	}
	if !open {
		return []*models.Comment{}, nil
	}

	return cs.interactionsRepo.ListComments(ctx, eventId, 50)
}
