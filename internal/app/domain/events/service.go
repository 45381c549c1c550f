package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
	"github.com/compasslk/compass/internal/pkg/cache"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// ListMonth returns the events starting within the given month.
	ListMonth(ctx context.Context, year int, month time.Month) ([]models.Event, error)
	// ListUpcoming returns events starting on or after now, capped at limit.
	ListUpcoming(ctx context.Context, limit int) ([]models.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Create(ctx context.Context, e models.Event) (uuid.UUID, error)
}

type ServiceImpl struct {
	repo      Repository
	logger    *zap.Logger
	listCache *cache.TTLCache[[]models.Event]
	now       func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		logger:    logger,
		listCache: cache.New[[]models.Event](5*time.Minute, "events_list", logger),
		now:       time.Now,
	}
}

func (s *ServiceImpl) ListMonth(ctx context.Context, year int, month time.Month) ([]models.Event, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month out of range", models.ErrBadRequest)
	}
	key := fmt.Sprintf("month:%04d-%02d", year, month)
	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	events, err := s.repo.List(ctx, models.EventFilter{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	s.listCache.Set(key, events)
	return events, nil
}

func (s *ServiceImpl) ListUpcoming(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	after := s.now().UTC().Truncate(24 * time.Hour)
	return s.repo.List(ctx, models.EventFilter{After: &after, Limit: limit})
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, e models.Event) (uuid.UUID, error) {
	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return uuid.Nil, err
	}
	s.listCache.Clear()
	return id, nil
}
