package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is one entry in the cultural events calendar.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	ProvinceID  *uuid.UUID `json:"province_id,omitempty"`
	StartsOn    time.Time  `json:"starts_on"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// EventFilter narrows event listings to a month or an open-ended
// "upcoming" window.
type EventFilter struct {
	Year  int
	Month time.Month
	After *time.Time
	Limit int
}
