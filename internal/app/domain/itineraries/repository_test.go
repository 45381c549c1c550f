package itineraries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewRepository(mockPool, zap.NewNop()), mockPool
}

func TestReorderItemsRejectsRepeatedID(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	itineraryID, userID := uuid.New(), uuid.New()
	dayID := uuid.New()
	itemA := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT d.id FROM itinerary_days d`).
		WithArgs(itineraryID, userID, 1).
		WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(dayID))
	mockPool.ExpectQuery(`SELECT count\(\*\) FROM itinerary_items WHERE day_id = \$1$`).
		WithArgs(dayID).
		WillReturnRows(mockPool.NewRows([]string{"count"}).AddRow(2))
	mockPool.ExpectExec(`UPDATE itinerary_items SET position = -position`).
		WithArgs(dayID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	// Both positions land on the same row, so the sibling item is still
	// staged negative when the ordering has been consumed.
	mockPool.ExpectExec(`UPDATE itinerary_items SET position = \$1`).
		WithArgs(1, itemA, dayID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(`UPDATE itinerary_items SET position = \$1`).
		WithArgs(2, itemA, dayID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectQuery(`SELECT count\(\*\) FROM itinerary_items WHERE day_id = \$1 AND position < 0`).
		WithArgs(dayID).
		WillReturnRows(mockPool.NewRows([]string{"count"}).AddRow(1))
	mockPool.ExpectRollback()

	err := repo.ReorderItems(context.Background(), itineraryID, userID, 1, []uuid.UUID{itemA, itemA})
	assert.ErrorIs(t, err, models.ErrValidation)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestReorderItemsRejectsShortOrdering(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	itineraryID, userID := uuid.New(), uuid.New()
	dayID := uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT d.id FROM itinerary_days d`).
		WithArgs(itineraryID, userID, 1).
		WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(dayID))
	mockPool.ExpectQuery(`SELECT count\(\*\) FROM itinerary_items WHERE day_id = \$1$`).
		WithArgs(dayID).
		WillReturnRows(mockPool.NewRows([]string{"count"}).AddRow(3))
	mockPool.ExpectRollback()

	err := repo.ReorderItems(context.Background(), itineraryID, userID, 1, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, models.ErrValidation)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestReorderItemsCommitsCleanOrdering(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	itineraryID, userID := uuid.New(), uuid.New()
	dayID := uuid.New()
	itemA, itemB := uuid.New(), uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT d.id FROM itinerary_days d`).
		WithArgs(itineraryID, userID, 2).
		WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(dayID))
	mockPool.ExpectQuery(`SELECT count\(\*\) FROM itinerary_items WHERE day_id = \$1$`).
		WithArgs(dayID).
		WillReturnRows(mockPool.NewRows([]string{"count"}).AddRow(2))
	mockPool.ExpectExec(`UPDATE itinerary_items SET position = -position`).
		WithArgs(dayID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mockPool.ExpectExec(`UPDATE itinerary_items SET position = \$1`).
		WithArgs(1, itemB, dayID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(`UPDATE itinerary_items SET position = \$1`).
		WithArgs(2, itemA, dayID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectQuery(`SELECT count\(\*\) FROM itinerary_items WHERE day_id = \$1 AND position < 0`).
		WithArgs(dayID).
		WillReturnRows(mockPool.NewRows([]string{"count"}).AddRow(0))
	mockPool.ExpectExec(`UPDATE itineraries SET updated_at = now\(\)`).
		WithArgs(itineraryID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	err := repo.ReorderItems(context.Background(), itineraryID, userID, 2, []uuid.UUID{itemB, itemA})
	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
