package models

import (
	"time"

	"github.com/google/uuid"
)

// Itinerary is a user-built day-by-day travel plan.
type Itinerary struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Title     string         `json:"title"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	Days      []ItineraryDay `json:"days,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ItineraryDay is one day of an itinerary, ordered by DayNumber.
type ItineraryDay struct {
	ID        uuid.UUID       `json:"id"`
	DayNumber int             `json:"day_number"`
	Items     []ItineraryItem `json:"items,omitempty"`
}

// ItineraryItem is one stop within a day, ordered by Position.
type ItineraryItem struct {
	ID              uuid.UUID  `json:"id"`
	DestinationID   *uuid.UUID `json:"destination_id,omitempty"`
	DestinationName *string    `json:"destination_name,omitempty"`
	Position        int        `json:"position"`
	Note            *string    `json:"note,omitempty"`
}

// CreateItineraryParams carries a new itinerary submission.
type CreateItineraryParams struct {
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	StartDate *time.Time `json:"start_date,omitempty"`
	DayCount  int        `json:"day_count"`
}

// AddItineraryItemParams places a destination on a given day.
type AddItineraryItemParams struct {
	DayNumber     int        `json:"day_number"`
	DestinationID *uuid.UUID `json:"destination_id,omitempty"`
	Note          *string    `json:"note,omitempty"`
}
