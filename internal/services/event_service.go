package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/connect"
	"github.com/joshua-takyi/citypulse/internal/helpers"
	"github.com/joshua-takyi/citypulse/internal/models"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotEventOwner = errors.New("you are not the owner of this event")
)

type EventService struct {
	eventsRepo       models.EventsRepo
	interactionsRepo models.InteractionsRepo
}

func NewEventService(eventsRepo models.EventsRepo, interactionsRepo models.InteractionsRepo) *EventService {
	return &EventService{
		eventsRepo:       eventsRepo,
		interactionsRepo: interactionsRepo,
	}
}

func validateEventWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !end.After(start) {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}

func (es *EventService) CreateEvent(ctx context.Context, event *models.Event, creator uuid.UUID, accessToken string) (*models.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	if err := models.Validate.Struct(event); err != nil {
		return nil, fmt.Errorf("invalid event data provided: %v", err)
	}
	if !event.Coordinates.InBounds() {
		return nil, fmt.Errorf("lat must be between -90 and 90 and lng between -180 and 180")
	}
	if err := validateEventWindow(event.StartTime, event.EndTime); err != nil {
		return nil, err
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now()
	event.CreatedBy = creator
	event.CreatedAt = now
	event.UpdatedAt = now

	// Upload cover image first if one was provided
	var uploadedPublicID string
	if event.ImageURL != "" {
		uploadChan := make(chan struct {
			url      string
			publicID string
		}, 1)
		errorChan := make(chan error, 1)

		go func() {
			url, publicID, uploadErr := helpers.UploadImage(ctx, connect.Cld, event.ImageURL, helpers.EventsFolder)
			if uploadErr != nil {
				errorChan <- uploadErr
				return
			}
			uploadChan <- struct {
				url      string
				publicID string
			}{url, publicID}
		}()

		select {
		case result := <-uploadChan:
			event.ImageURL = result.url
			uploadedPublicID = result.publicID
		case uploadErr := <-errorChan:
			return nil, fmt.Errorf("failed to upload cover image: %v", uploadErr)
		case <-time.After(30 * time.Second):
			return nil, fmt.Errorf("cover image upload timeout")
		}
	}

	created, err := es.eventsRepo.CreateEvent(ctx, event, accessToken)
	if err != nil {
		// If event creation fails, clean up the uploaded image
		if uploadedPublicID != "" {
			helpers.DeleteImages(ctx, connect.Cld, helpers.EventsFolder, []string{uploadedPublicID})
		}
		return nil, err
	}

	return created, nil
}

func (es *EventService) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid event ID")
	}

	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	return event, nil
}

// GetEventDetail returns the event with fresh engagement counts, the
// attendee list and the latest 50 comments.
func (es *EventService) GetEventDetail(ctx context.Context, id uuid.UUID) (*models.EventDetail, error) {
	event, err := es.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := es.interactionsRepo.CountsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement counts: %v", err)
	}

	attendees, err := es.interactionsRepo.ListAttendees(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendees: %v", err)
	}

	comments, err := es.interactionsRepo.ListComments(ctx, id, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %v", err)
	}

	return &models.EventDetail{
		Event:         *event,
		LikeCount:     counts[id].LikeCount,
		AttendeeCount: counts[id].AttendeeCount,
		Attendees:     attendees,
		Comments:      comments,
	}, nil
}

// UpdateEventInput carries the optional fields of a partial event update.
type UpdateEventInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Lat         *float64   `json:"lat"`
	Lng         *float64   `json:"lng"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

func (es *EventService) UpdateEvent(ctx context.Context, id, userId uuid.UUID, isAdmin bool, input UpdateEventInput, accessToken string) (*models.Event, error) {
	existing, err := es.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != userId && !isAdmin {
		return nil, ErrNotEventOwner
	}

	fields := map[string]interface{}{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	// Location changes only when both halves are provided
	if input.Lat != nil && input.Lng != nil {
		coords := models.Coordinates{Latitude: *input.Lat, Longitude: *input.Lng}
		if !coords.InBounds() {
			return nil, fmt.Errorf("lat must be between -90 and 90 and lng between -180 and 180")
		}
		fields["location"] = coords
	} else if input.Lat != nil || input.Lng != nil {
		return nil, fmt.Errorf("lat and lng must be provided together")
	}

	// end > start must hold against the effective window, not just the
	// provided fields
	start := existing.StartTime
	end := existing.EndTime
	if input.StartTime != nil {
		start = *input.StartTime
		fields["start_time"] = start
	}
	if input.EndTime != nil {
		end = *input.EndTime
		fields["end_time"] = end
	}
	if err := validateEventWindow(start, end); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	return es.eventsRepo.UpdateEvent(ctx, id, fields, accessToken)
}

func (es *EventService) DeleteEvent(ctx context.Context, id, userId uuid.UUID, isAdmin bool, accessToken string) error {
	existing, err := es.GetEventByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.CreatedBy != userId && !isAdmin {
		return ErrNotEventOwner
	}

	return es.eventsRepo.DeleteEvent(ctx, id, accessToken)
}
