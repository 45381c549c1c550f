package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Create(ctx context.Context, e models.Event) (uuid.UUID, error)
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

func (r *RepositoryImpl) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	qb := sq.Select("id", "name", "description", "location", "province_id", "starts_on", "ends_on", "created_at").
		From("events").
		PlaceholderFormat(sq.Dollar).
		OrderBy("starts_on ASC, name ASC")

	if filter.Year != 0 && filter.Month != 0 {
		from := time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)
		qb = qb.Where(sq.GtOrEq{"starts_on": from}).Where(sq.Lt{"starts_on": to})
	}
	if filter.After != nil {
		qb = qb.Where(sq.GtOrEq{"starts_on": *filter.After})
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build events query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Location, &e.ProvinceID,
			&e.StartsOn, &e.EndsOn, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return out, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `
        SELECT id, name, description, location, province_id, starts_on, ends_on, created_at
        FROM events
        WHERE id = $1
    `
	var e models.Event
	err := r.pgpool.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name, &e.Description, &e.Location,
		&e.ProvinceID, &e.StartsOn, &e.EndsOn, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, e models.Event) (uuid.UUID, error) {
	if e.Name == "" {
		return uuid.Nil, fmt.Errorf("%w: event name is required", models.ErrValidation)
	}
	if e.StartsOn.IsZero() {
		return uuid.Nil, fmt.Errorf("%w: event start date is required", models.ErrValidation)
	}
	if e.EndsOn != nil && e.EndsOn.Before(e.StartsOn) {
		return uuid.Nil, fmt.Errorf("%w: event end date precedes start date", models.ErrValidation)
	}

	query := `
        INSERT INTO events (name, description, location, province_id, starts_on, ends_on)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		e.Name, e.Description, e.Location, e.ProvinceID, e.StartsOn, e.EndsOn,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert event: %w", err)
	}

	r.logger.Info("Event created", zap.String("name", e.Name), zap.String("id", id.String()))
	return id, nil
}
