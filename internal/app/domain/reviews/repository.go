package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Create(ctx context.Context, params models.CreateReviewParams) (uuid.UUID, error)
	ListByDestination(ctx context.Context, destinationID uuid.UUID, limit, offset int) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, params models.CreateReviewParams) (uuid.UUID, error) {
	query := `
        INSERT INTO reviews (destination_id, user_id, author, rating, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		params.DestinationID, params.UserID, params.Author, params.Rating, params.Comment,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: the destination was deleted between lookup and insert.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return uuid.Nil, fmt.Errorf("destination %s: %w", params.DestinationID, models.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("failed to insert review: %w", err)
	}

	r.logger.Info("Review created",
		zap.String("destination_id", params.DestinationID.String()),
		zap.Int("rating", params.Rating))
	return id, nil
}

func (r *RepositoryImpl) ListByDestination(ctx context.Context, destinationID uuid.UUID, limit, offset int) ([]models.Review, error) {
	query := `
        SELECT id, destination_id, user_id, author, rating, comment, created_at
        FROM reviews
        WHERE destination_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.pgpool.Query(ctx, query, destinationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.DestinationID, &rev.UserID, &rev.Author,
			&rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}
	return out, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
