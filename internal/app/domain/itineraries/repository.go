package itineraries

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

// DB is the slice of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	Create(ctx context.Context, params models.CreateItineraryParams) (uuid.UUID, error)
	// Get loads the itinerary with its days and items. Ownership is
	// enforced here: a foreign itinerary reads as not found.
	Get(ctx context.Context, id, userID uuid.UUID) (*models.Itinerary, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error)
	AddItem(ctx context.Context, itineraryID, userID uuid.UUID, params models.AddItineraryItemParams) (uuid.UUID, error)
	RemoveItem(ctx context.Context, itineraryID, userID, itemID uuid.UUID) error
	// ReorderItems rewrites positions for one day. The id list must cover
	// exactly the items currently on that day.
	ReorderItems(ctx context.Context, itineraryID, userID uuid.UUID, dayNumber int, itemIDs []uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
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

func (r *RepositoryImpl) Create(ctx context.Context, params models.CreateItineraryParams) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Error("Failed to rollback transaction", zap.Error(err))
		}
	}()

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO itineraries (user_id, title, start_date) VALUES ($1, $2, $3) RETURNING id`,
		params.UserID, params.Title, params.StartDate,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert itinerary: %w", err)
	}

	for day := 1; day <= params.DayCount; day++ {
		if _, err := tx.Exec(ctx,
			`INSERT INTO itinerary_days (itinerary_id, day_number) VALUES ($1, $2)`,
			id, day,
		); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert itinerary day %d: %w", day, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit itinerary: %w", err)
	}

	r.logger.Info("Itinerary created",
		zap.String("id", id.String()),
		zap.Int("days", params.DayCount))
	return id, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id, userID uuid.UUID) (*models.Itinerary, error) {
	var it models.Itinerary
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, start_date, created_at, updated_at
         FROM itineraries WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&it.ID, &it.UserID, &it.Title, &it.StartDate, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get itinerary: %w", err)
	}

	days, err := r.loadDays(ctx, id)
	if err != nil {
		return nil, err
	}
	it.Days = days
	return &it, nil
}

func (r *RepositoryImpl) loadDays(ctx context.Context, itineraryID uuid.UUID) ([]models.ItineraryDay, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, day_number FROM itinerary_days
         WHERE itinerary_id = $1 ORDER BY day_number ASC`,
		itineraryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query itinerary days: %w", err)
	}
	defer rows.Close()

	var days []models.ItineraryDay
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var d models.ItineraryDay
		if err := rows.Scan(&d.ID, &d.DayNumber); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary day: %w", err)
		}
		index[d.ID] = len(days)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating itinerary days: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	itemRows, err := r.db.Query(ctx,
		`SELECT i.id, i.day_id, i.destination_id, d.name, i.position, i.note
         FROM itinerary_items i
         LEFT JOIN destinations d ON d.id = i.destination_id
         JOIN itinerary_days day ON day.id = i.day_id
         WHERE day.itinerary_id = $1
         ORDER BY i.position ASC`,
		itineraryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query itinerary items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.ItineraryItem
		var dayID uuid.UUID
		if err := itemRows.Scan(&item.ID, &dayID, &item.DestinationID,
			&item.DestinationName, &item.Position, &item.Note); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary item: %w", err)
		}
		if i, ok := index[dayID]; ok {
			days[i].Items = append(days[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating itinerary items: %w", err)
	}
	return days, nil
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, start_date, created_at, updated_at
         FROM itineraries WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query itineraries: %w", err)
	}
	defer rows.Close()

	var out []models.Itinerary
	for rows.Next() {
		var it models.Itinerary
		if err := rows.Scan(&it.ID, &it.UserID, &it.Title, &it.StartDate,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating itinerary rows: %w", err)
	}
	return out, nil
}

func (r *RepositoryImpl) AddItem(ctx context.Context, itineraryID, userID uuid.UUID, params models.AddItineraryItemParams) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Error("Failed to rollback transaction", zap.Error(err))
		}
	}()

	var dayID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT d.id FROM itinerary_days d
         JOIN itineraries i ON i.id = d.itinerary_id
         WHERE d.itinerary_id = $1 AND i.user_id = $2 AND d.day_number = $3`,
		itineraryID, userID, params.DayNumber,
	).Scan(&dayID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, models.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to find itinerary day: %w", err)
	}

	var itemID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO itinerary_items (day_id, destination_id, position, note)
         SELECT $1, $2, COALESCE(MAX(position), 0) + 1, $3
         FROM itinerary_items WHERE day_id = $1
         RETURNING id`,
		dayID, params.DestinationID, params.Note,
	).Scan(&itemID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert itinerary item: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE itineraries SET updated_at = now() WHERE id = $1`, itineraryID,
	); err != nil {
		return uuid.Nil, fmt.Errorf("failed to touch itinerary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit itinerary item: %w", err)
	}
	return itemID, nil
}

func (r *RepositoryImpl) RemoveItem(ctx context.Context, itineraryID, userID, itemID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM itinerary_items i
         USING itinerary_days d, itineraries it
         WHERE i.id = $1 AND i.day_id = d.id
           AND d.itinerary_id = $2 AND d.itinerary_id = it.id AND it.user_id = $3`,
		itemID, itineraryID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) ReorderItems(ctx context.Context, itineraryID, userID uuid.UUID, dayNumber int, itemIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Error("Failed to rollback transaction", zap.Error(err))
		}
	}()

	var dayID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT d.id FROM itinerary_days d
         JOIN itineraries i ON i.id = d.itinerary_id
         WHERE d.itinerary_id = $1 AND i.user_id = $2 AND d.day_number = $3`,
		itineraryID, userID, dayNumber,
	).Scan(&dayID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to find itinerary day: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM itinerary_items WHERE day_id = $1`, dayID,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to count itinerary items: %w", err)
	}
	if count != len(itemIDs) {
		return fmt.Errorf("%w: ordering must list all %d items of the day", models.ErrValidation, count)
	}

	// Shift out of the way first so the (day_id, position) unique index
	// never sees a transient collision.
	if _, err := tx.Exec(ctx,
		`UPDATE itinerary_items SET position = -position WHERE day_id = $1`, dayID,
	); err != nil {
		return fmt.Errorf("failed to stage item positions: %w", err)
	}

	for i, itemID := range itemIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE itinerary_items SET position = $1 WHERE id = $2 AND day_id = $3`,
			i+1, itemID, dayID,
		)
		if err != nil {
			return fmt.Errorf("failed to reposition item %s: %w", itemID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: item %s is not on day %d", models.ErrValidation, itemID, dayNumber)
		}
	}

	// A repeated id passes the count guard but leaves some other item
	// staged negative. Refuse to commit such an ordering.
	var stale int
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM itinerary_items WHERE day_id = $1 AND position < 0`, dayID,
	).Scan(&stale); err != nil {
		return fmt.Errorf("failed to verify item positions: %w", err)
	}
	if stale > 0 {
		return fmt.Errorf("%w: ordering must list each of the day's items exactly once", models.ErrValidation)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE itineraries SET updated_at = now() WHERE id = $1`, itineraryID,
	); err != nil {
		return fmt.Errorf("failed to touch itinerary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM itineraries WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	r.logger.Info("Itinerary deleted", zap.String("id", id.String()))
	return nil
}
