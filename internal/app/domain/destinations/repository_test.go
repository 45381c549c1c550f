package destinations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func destinationRows(mockPool pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mockPool.NewRows([]string{
		"id", "name", "description", "province_id", "province_name",
		"image_url", "location_lat", "location_lng", "created_at", "updated_at",
	})
}

func TestRepositoryList(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	id := uuid.New()
	now := time.Now()
	rows := destinationRows(mockPool).
		AddRow(id, "Ella", nil, nil, nil, nil, nil, nil, now, now)

	mockPool.ExpectQuery("SELECT d.id, d.name, .+ FROM destinations d LEFT JOIN provinces p").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), models.DestinationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Ella", got[0].Name)
	assert.Nil(t, got[0].Description)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryListMissingImageFilter(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectQuery(`WHERE \(d.image_url IS NULL OR d.image_url = \$1\)`).
		WithArgs("").
		WillReturnRows(destinationRows(mockPool))

	got, err := repo.List(context.Background(), models.DestinationFilter{MissingImage: true})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryListSearchAndPagination(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectQuery(`d.name ILIKE \$1 .+ LIMIT 10 OFFSET 20`).
		WithArgs("%fort%").
		WillReturnRows(destinationRows(mockPool))

	_, err := repo.List(context.Background(), models.DestinationFilter{
		Search: "fort",
		Limit:  10,
		Offset: 20,
	})
	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryGetNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	id := uuid.New()
	mockPool.ExpectQuery("SELECT d.id, d.name").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryCreateRequiresName(t *testing.T) {
	repo, _ := newMockRepo(t)

	_, err := repo.Create(context.Background(), models.Destination{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRepositoryUpdateNoFieldsIsNoOp(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	err := repo.Update(context.Background(), uuid.New(), models.UpdateDestinationParams{})
	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryUpdateNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	id := uuid.New()
	name := "Renamed"
	mockPool.ExpectExec(`UPDATE destinations SET name = \$1 WHERE id = \$2`).
		WithArgs(name, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), id, models.UpdateDestinationParams{Name: &name})
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryDeleteBatchReturnsDeletedIDs(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	kept := uuid.New()
	gone := uuid.New()
	ids := []uuid.UUID{gone, kept}

	rows := mockPool.NewRows([]string{"id"}).AddRow(gone)
	mockPool.ExpectQuery(`DELETE FROM destinations WHERE id = ANY\(\$1\) RETURNING id`).
		WithArgs(ids).
		WillReturnRows(rows)

	deleted, err := repo.DeleteBatch(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{gone}, deleted)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryDeleteBatchEmptyInput(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	deleted, err := repo.DeleteBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, deleted)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryDeleteBatchInsufficientPrivilege(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	ids := []uuid.UUID{uuid.New()}
	mockPool.ExpectQuery(`DELETE FROM destinations`).
		WithArgs(ids).
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for table destinations"})

	_, err := repo.DeleteBatch(context.Background(), ids)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Contains(t, err.Error(), "permission denied")
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryExistsByID(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	id := uuid.New()
	mockPool.ExpectQuery(`SELECT EXISTS`).
		WithArgs(id).
		WillReturnRows(mockPool.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestMapStoreErrorPassthrough(t *testing.T) {
	base := errors.New("connection reset")
	err := mapStoreError("failed to query destinations", base)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, models.ErrForbidden)
}
