package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event, accessToken string) (*Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListActiveEvents(ctx context.Context, now time.Time) ([]*Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, fields map[string]interface{}, accessToken string) (*Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID, accessToken string) error
}

const eventSelect = "id,title,description,location,start_time,end_time,image_url,created_by,created_at,updated_at"

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event, accessToken string) (*Event, error) {
	client := su.supabaseClient
	if accessToken != "" {
		authClient, err := su.GetAuthenticatedClient(accessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticated client: %v", err)
		}
		client = authClient
	}

	// Convert coordinates to PostGIS format manually for the REST API
	eventData := map[string]interface{}{
		"id":          event.ID,
		"title":       event.Title,
		"description": event.Description,
		"location":    fmt.Sprintf("SRID=4326;POINT(%f %f)", event.Coordinates.Longitude, event.Coordinates.Latitude),
		"start_time":  event.StartTime,
		"end_time":    event.EndTime,
		"image_url":   event.ImageURL,
		"created_by":  event.CreatedBy,
		"created_at":  event.CreatedAt,
		"updated_at":  event.UpdatedAt,
	}

	data, count, err := client.
		From(EventsTable).
		Insert(eventData, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("event insert returned no rows")
	}

	events, err := decodeEventRows(data)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("event insert returned no rows")
	}

	return events[0], nil
}

func (su *SupabaseRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	data, _, err := su.supabaseClient.
		From(EventsTable).
		Select(eventSelect, "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %v", err)
	}

	events, err := decodeEventRows(data)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	return events[0], nil
}

// ListActiveEvents returns every event with end_time > now. Expiry is
// filtered at the source so expired rows are never fetched, let alone
// scored.
func (su *SupabaseRepo) ListActiveEvents(ctx context.Context, now time.Time) ([]*Event, error) {
	data, _, err := su.supabaseClient.
		From(EventsTable).
		Select(eventSelect, "", false).
		Gt("end_time", now.UTC().Format(time.RFC3339)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list active events: %v", err)
	}

	return decodeEventRows(data)
}

func (su *SupabaseRepo) UpdateEvent(ctx context.Context, id uuid.UUID, fields map[string]interface{}, accessToken string) (*Event, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	client := su.supabaseClient
	if accessToken != "" {
		authClient, err := su.GetAuthenticatedClient(accessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticated client: %v", err)
		}
		client = authClient
	}

	// Coordinates need the PostGIS literal, not the struct
	if coords, ok := fields["location"].(Coordinates); ok {
		value, err := coords.Value()
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %v", err)
		}
		fields["location"] = value
	}
	fields["updated_at"] = time.Now()

	data, count, err := client.
		From(EventsTable).
		Update(fields, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("event not found")
	}

	events, err := decodeEventRows(data)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("event not found")
	}

	return events[0], nil
}

func (su *SupabaseRepo) DeleteEvent(ctx context.Context, id uuid.UUID, accessToken string) error {
	client := su.supabaseClient
	if accessToken != "" {
		authClient, err := su.GetAuthenticatedClient(accessToken)
		if err != nil {
			return fmt.Errorf("failed to create authenticated client: %v", err)
		}
		client = authClient
	}

	_, _, err := client.
		From(EventsTable).
		Delete("", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete event: %v", err)
	}

	return nil
}

// decodeEventRows unmarshals PostgREST rows, handling the PostGIS location
// column separately since it comes back as a WKT or EWKB string.
func decodeEventRows(data []byte) ([]*Event, error) {
	var rawEvents []map[string]interface{}
	if err := json.Unmarshal(data, &rawEvents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %v", err)
	}

	events := make([]*Event, 0, len(rawEvents))
	for _, raw := range rawEvents {
		event := &Event{}

		var locStr string
		if loc, exists := raw["location"]; exists {
			if str, ok := loc.(string); ok {
				locStr = str
			}
			delete(raw, "location")
		}

		eventData, _ := json.Marshal(raw)
		if err := json.Unmarshal(eventData, event); err != nil {
			return nil, fmt.Errorf("failed to convert event data: %v", err)
		}

		if locStr != "" {
			if err := event.Coordinates.Scan([]byte(locStr)); err != nil {
				return nil, fmt.Errorf("failed to parse location for event %v: %v", raw["id"], err)
			}
		}

		events = append(events, event)
	}

	return events, nil
}
