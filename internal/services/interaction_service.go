package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/models"
)

var (
	ErrInvalidAttendStatus = errors.New("invalid attendance status")
	ErrInvalidComment      = errors.New("invalid comment")
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// sanitizeContent strips HTML tags so markup is never stored, then enforces
// the 1-1000 character bound. Length is counted in runes, not bytes.
func sanitizeContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: content is required", ErrInvalidComment)
	}

	sanitized := strings.TrimSpace(htmlTagPattern.ReplaceAllString(content, ""))
	if sanitized == "" {
		return "", fmt.Errorf("%w: content cannot be empty after sanitization", ErrInvalidComment)
	}
	if utf8.RuneCountInString(sanitized) > 1000 {
		return "", fmt.Errorf("%w: content must not exceed 1000 characters", ErrInvalidComment)
	}

	return sanitized, nil
}

type InteractionService struct {
	eventsRepo       models.EventsRepo
	interactionsRepo models.InteractionsRepo
}

func NewInteractionService(eventsRepo models.EventsRepo, interactionsRepo models.InteractionsRepo) *InteractionService {
	return &InteractionService{
		eventsRepo:       eventsRepo,
		interactionsRepo: interactionsRepo,
	}
}

type ToggleLikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type AttendResult struct {
	Status        string `json:"status"`
	AttendeeCount int    `json:"attendee_count"`
}

func (is *InteractionService) assertEventExists(ctx context.Context, eventId uuid.UUID) error {
	if eventId == uuid.Nil {
		return fmt.Errorf("invalid event ID")
	}
	event, err := is.eventsRepo.GetEventByID(ctx, eventId)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}
	return nil
}

func (is *InteractionService) ToggleLike(ctx context.Context, userId, eventId uuid.UUID) (*ToggleLikeResult, error) {
	if userId == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	if err := is.assertEventExists(ctx, eventId); err != nil {
		return nil, err
	}

	liked, count, err := is.interactionsRepo.ToggleLike(ctx, userId, eventId)
	if err != nil {
		return nil, err
	}

	return &ToggleLikeResult{Liked: liked, LikeCount: count}, nil
}

func (is *InteractionService) MarkAttendance(ctx context.Context, userId, eventId uuid.UUID, status string) (*AttendResult, error) {
	if userId == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	if status != models.AttendStatusGoing && status != models.AttendStatusInterested {
		return nil, fmt.Errorf("%w: status must be either %q or %q", ErrInvalidAttendStatus, models.AttendStatusGoing, models.AttendStatusInterested)
	}
	if err := is.assertEventExists(ctx, eventId); err != nil {
		return nil, err
	}

	count, err := is.interactionsRepo.MarkAttendance(ctx, userId, eventId, status)
	if err != nil {
		return nil, err
	}

	return &AttendResult{Status: status, AttendeeCount: count}, nil
}

func (is *InteractionService) AddComment(ctx context.Context, userId, eventId uuid.UUID, content string) (*models.Comment, error) {
	if userId == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	content, err := sanitizeContent(content)
	if err != nil {
		return nil, err
	}
	if err := is.assertEventExists(ctx, eventId); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		EventID:   eventId,
		UserID:    userId,
		Content:   content,
		CreatedAt: time.Now(),
	}

	return is.interactionsRepo.AddComment(ctx, comment)
}

func (is *InteractionService) ListComments(ctx context.Context, eventId uuid.UUID) ([]*models.Comment, error) {
	if err := is.assertEventExists(ctx, eventId); err != nil {
		return nil, err
	}

	return is.interactionsRepo.ListComments(ctx, eventId, 50)
}
