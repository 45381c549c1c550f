package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxCommentLen   = 4000
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Create(ctx context.Context, params models.CreateReviewParams) (uuid.UUID, error)
	ListByDestination(ctx context.Context, destinationID uuid.UUID, limit, offset int) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{repo: repo, logger: logger}
}

func (s *ServiceImpl) Create(ctx context.Context, params models.CreateReviewParams) (uuid.UUID, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return uuid.Nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}
	params.Author = strings.TrimSpace(params.Author)
	if params.Author == "" {
		return uuid.Nil, fmt.Errorf("%w: author is required", models.ErrValidation)
	}
	if params.Comment != nil && len(*params.Comment) > maxCommentLen {
		return uuid.Nil, fmt.Errorf("%w: comment exceeds %d characters", models.ErrValidation, maxCommentLen)
	}
	if params.DestinationID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: destination_id is required", models.ErrValidation)
	}

	return s.repo.Create(ctx, params)
}

func (s *ServiceImpl) ListByDestination(ctx context.Context, destinationID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByDestination(ctx, destinationID, limit, offset)
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Review deleted", zap.String("id", id.String()))
	return nil
}
