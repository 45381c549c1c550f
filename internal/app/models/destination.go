package models

import (
	"time"

	"github.com/google/uuid"
)

// Destination is a place travellers can browse and add to itineraries.
// Optional attributes are pointers; their presence feeds the duplicate
// resolver's completeness score.
type Destination struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	ProvinceID   *uuid.UUID `json:"province_id,omitempty"`
	ProvinceName *string    `json:"province_name,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	Latitude     *float64   `json:"location_lat,omitempty"`
	Longitude    *float64   `json:"location_lng,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DestinationFilter narrows destination listings. Filtering is a store
// capability; the algorithmic core never filters rows itself.
type DestinationFilter struct {
	ProvinceID         *uuid.UUID
	MissingImage       bool
	MissingDescription bool
	Search             string
	Limit              int
	Offset             int
}

// UpdateDestinationParams carries the fields an update may touch. Nil
// means "leave unchanged".
type UpdateDestinationParams struct {
	Name        *string
	Description *string
	ProvinceID  *uuid.UUID
	ImageURL    *string
	Latitude    *float64
	Longitude   *float64
}

// Province is a first-level administrative region.
type Province struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ImageAssignment reports one proposed or applied image attachment.
type ImageAssignment struct {
	DestinationID uuid.UUID `json:"destination_id"`
	Name          string    `json:"name"`
	ImageURL      string    `json:"image_url"`
	Source        string    `json:"source"` // override or the matching asset root tag
	Applied       bool      `json:"applied"`
}

// DescriptionFill reports one proposed or applied fallback description.
type DescriptionFill struct {
	DestinationID uuid.UUID `json:"destination_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	FromRule      bool      `json:"from_rule"` // false when templated from name and province
	Applied       bool      `json:"applied"`
}
