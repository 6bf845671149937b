package models

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID uuid.UUID `db:"id" json:"id"`

	Title       string      `db:"title" json:"title" validate:"required"`
	Description string      `db:"description" json:"description,omitempty"`
	Coordinates Coordinates `db:"location" json:"coordinates"`
	StartTime   time.Time   `db:"start_time" json:"start_time"` // e.g., "2025-10-01T18:00:00Z"
	EndTime     time.Time   `db:"end_time" json:"end_time"`     // always after StartTime
	ImageURL    string      `db:"image_url" json:"image_url,omitempty"`
	CreatedBy   uuid.UUID   `db:"created_by" json:"created_by"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// EngagementCounts holds per-event like/attendee tallies, always read fresh
// from the interactions store at query time.
type EngagementCounts struct {
	LikeCount     int `json:"like_count"`
	AttendeeCount int `json:"attendee_count"`
}

// FeedEvent is an event annotated for the ranked feed.
type FeedEvent struct {
	Event
	LikeCount     int     `json:"like_count"`
	AttendeeCount int     `json:"attendee_count"`
	IsLive        bool    `json:"is_live"`
	Score         float64 `json:"score"`
}

type FeedPage struct {
	Events []FeedEvent `json:"events"`
	Total  int         `json:"total"`
	Page   int         `json:"page"`
	Limit  int         `json:"limit"`
}

// SearchQuery carries the parsed /search parameters. Geo filtering is active
// only when Lat, Lng and RadiusKm are all present.
type SearchQuery struct {
	Q        string
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
}

func (sq SearchQuery) HasGeo() bool {
	return sq.Lat != nil && sq.Lng != nil && sq.RadiusKm != nil
}

func (sq SearchQuery) HasText() bool {
	return sq.Q != ""
}

// SearchResult is an event annotated for search output. DistanceKm is nil
// when the query had no geo constraint.
type SearchResult struct {
	Event
	LikeCount     int      `json:"like_count"`
	AttendeeCount int      `json:"attendee_count"`
	DistanceKm    *float64 `json:"distance_km"`
}

type EventDetail struct {
	Event
	LikeCount     int        `json:"like_count"`
	AttendeeCount int        `json:"attendee_count"`
	Attendees     []Attendee `json:"attendees"`
	Comments      []*Comment `json:"comments"`
}
