package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is one traveller review attached to a destination.
type Review struct {
	ID            uuid.UUID `json:"id"`
	DestinationID uuid.UUID `json:"destination_id"`
	UserID        uuid.UUID `json:"user_id"`
	Author        string    `json:"author"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateReviewParams carries a new review submission.
type CreateReviewParams struct {
	DestinationID uuid.UUID `json:"destination_id"`
	UserID        uuid.UUID `json:"user_id"`
	Author        string    `json:"author"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
}
