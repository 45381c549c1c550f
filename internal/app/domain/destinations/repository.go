package destinations

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

// DB is the slice of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	List(ctx context.Context, filter models.DestinationFilter) ([]models.Destination, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Destination, error)
	Create(ctx context.Context, d models.Destination) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, params models.UpdateDestinationParams) error
	DeleteBatch(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	db     DB
}

func NewRepository(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

var destinationColumns = []string{
	"d.id", "d.name", "d.description", "d.province_id", "p.name AS province_name",
	"d.image_url", "d.location_lat", "d.location_lng", "d.created_at", "d.updated_at",
}

func (r *RepositoryImpl) List(ctx context.Context, filter models.DestinationFilter) ([]models.Destination, error) {
	qb := sq.Select(destinationColumns...).
		From("destinations d").
		LeftJoin("provinces p ON p.id = d.province_id").
		PlaceholderFormat(sq.Dollar).
		OrderBy("d.name ASC, d.id ASC")

	if filter.ProvinceID != nil {
		qb = qb.Where(sq.Eq{"d.province_id": *filter.ProvinceID})
	}
	if filter.MissingImage {
		qb = qb.Where(sq.Or{sq.Eq{"d.image_url": nil}, sq.Eq{"d.image_url": ""}})
	}
	if filter.MissingDescription {
		qb = qb.Where(sq.Or{sq.Eq{"d.description": nil}, sq.Expr("btrim(d.description) = ''")})
	}
	if filter.Search != "" {
		qb = qb.Where(sq.ILike{"d.name": "%" + filter.Search + "%"})
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build destinations query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapStoreError("failed to query destinations", err)
	}
	defer rows.Close()

	var out []models.Destination
	for rows.Next() {
		var d models.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.ProvinceID, &d.ProvinceName,
			&d.ImageURL, &d.Latitude, &d.Longitude, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan destination row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destination rows: %w", err)
	}

	return out, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Destination, error) {
	query := `
        SELECT d.id, d.name, d.description, d.province_id, p.name AS province_name,
               d.image_url, d.location_lat, d.location_lng, d.created_at, d.updated_at
        FROM destinations d
        LEFT JOIN provinces p ON p.id = d.province_id
        WHERE d.id = $1
    `
	var d models.Destination
	err := r.db.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Description, &d.ProvinceID,
		&d.ProvinceName, &d.ImageURL, &d.Latitude, &d.Longitude, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, mapStoreError("failed to get destination", err)
	}
	return &d, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, d models.Destination) (uuid.UUID, error) {
	if d.Name == "" {
		return uuid.Nil, fmt.Errorf("%w: destination name is required", models.ErrValidation)
	}

	query := `
        INSERT INTO destinations (name, description, province_id, image_url, location_lat, location_lng)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		d.Name, d.Description, d.ProvinceID, d.ImageURL, d.Latitude, d.Longitude,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapStoreError("failed to insert destination", err)
	}

	r.logger.Info("Destination created", zap.String("name", d.Name), zap.String("id", id.String()))
	return id, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id uuid.UUID, params models.UpdateDestinationParams) error {
	qb := sq.Update("destinations").PlaceholderFormat(sq.Dollar).Where(sq.Eq{"id": id})

	updates := 0
	if params.Name != nil {
		qb = qb.Set("name", *params.Name)
		updates++
	}
	if params.Description != nil {
		qb = qb.Set("description", *params.Description)
		updates++
	}
	if params.ProvinceID != nil {
		qb = qb.Set("province_id", *params.ProvinceID)
		updates++
	}
	if params.ImageURL != nil {
		qb = qb.Set("image_url", *params.ImageURL)
		updates++
	}
	if params.Latitude != nil {
		qb = qb.Set("location_lat", *params.Latitude)
		updates++
	}
	if params.Longitude != nil {
		qb = qb.Set("location_lng", *params.Longitude)
		updates++
	}
	if updates == 0 {
		return nil
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build destination update: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapStoreError("failed to update destination", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteBatch deletes the given ids in one statement and returns the ids
// the store actually removed. Callers chunk the input; a partial result
// is normal and must be reconciled against the request.
func (r *RepositoryImpl) DeleteBatch(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `DELETE FROM destinations WHERE id = ANY($1) RETURNING id`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, mapStoreError("failed to delete destinations", err)
	}
	defer rows.Close()

	var deleted []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted id: %w", err)
		}
		deleted = append(deleted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted ids: %w", err)
	}

	r.logger.Info("Destinations deleted",
		zap.Int("requested", len(ids)),
		zap.Int("deleted", len(deleted)))
	return deleted, nil
}

func (r *RepositoryImpl) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM destinations WHERE id = $1)`
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query destinations: %w", err)
	}
	return exists, nil
}

// mapStoreError surfaces store-side policy rejections as ErrForbidden so
// callers can hint at a permission misconfiguration rather than a code bug.
func mapStoreError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return fmt.Errorf("%s: %w: %s", msg, models.ErrForbidden, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
