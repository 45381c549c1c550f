package itineraries

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

const maxDayCount = 60

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Create(ctx context.Context, params models.CreateItineraryParams) (uuid.UUID, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*models.Itinerary, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error)
	AddItem(ctx context.Context, itineraryID, userID uuid.UUID, params models.AddItineraryItemParams) (uuid.UUID, error)
	RemoveItem(ctx context.Context, itineraryID, userID, itemID uuid.UUID) error
	ReorderItems(ctx context.Context, itineraryID, userID uuid.UUID, dayNumber int, itemIDs []uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{repo: repo, logger: logger}
}

func (s *ServiceImpl) Create(ctx context.Context, params models.CreateItineraryParams) (uuid.UUID, error) {
	params.Title = strings.TrimSpace(params.Title)
	if params.Title == "" {
		return uuid.Nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if params.DayCount < 1 || params.DayCount > maxDayCount {
		return uuid.Nil, fmt.Errorf("%w: day_count must be between 1 and %d", models.ErrValidation, maxDayCount)
	}
	if params.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: user_id is required", models.ErrValidation)
	}
	return s.repo.Create(ctx, params)
}

func (s *ServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*models.Itinerary, error) {
	return s.repo.Get(ctx, id, userID)
}

func (s *ServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ServiceImpl) AddItem(ctx context.Context, itineraryID, userID uuid.UUID, params models.AddItineraryItemParams) (uuid.UUID, error) {
	if params.DayNumber < 1 {
		return uuid.Nil, fmt.Errorf("%w: day_number must be positive", models.ErrValidation)
	}
	if params.DestinationID == nil && (params.Note == nil || strings.TrimSpace(*params.Note) == "") {
		return uuid.Nil, fmt.Errorf("%w: an item needs a destination or a note", models.ErrValidation)
	}
	return s.repo.AddItem(ctx, itineraryID, userID, params)
}

func (s *ServiceImpl) RemoveItem(ctx context.Context, itineraryID, userID, itemID uuid.UUID) error {
	return s.repo.RemoveItem(ctx, itineraryID, userID, itemID)
}

func (s *ServiceImpl) ReorderItems(ctx context.Context, itineraryID, userID uuid.UUID, dayNumber int, itemIDs []uuid.UUID) error {
	if dayNumber < 1 {
		return fmt.Errorf("%w: day_number must be positive", models.ErrValidation)
	}
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: ordering is required", models.ErrValidation)
	}
	seen := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if id == uuid.Nil {
			return fmt.Errorf("%w: ordering contains an empty id", models.ErrValidation)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: item %s listed twice", models.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return s.repo.ReorderItems(ctx, itineraryID, userID, dayNumber, itemIDs)
}

func (s *ServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("Itinerary removed", zap.String("id", id.String()))
	return nil
}
