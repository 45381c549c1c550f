// Package provinces serves the province lookup table. Provinces are
// seeded by migration and effectively immutable at runtime, so the whole
// package is a thin read path.
package provinces

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	List(ctx context.Context) ([]models.Province, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Province, error)
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

func (r *RepositoryImpl) List(ctx context.Context) ([]models.Province, error) {
	query := `SELECT id, name FROM provinces ORDER BY name ASC`
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query provinces: %w", err)
	}
	defer rows.Close()

	var out []models.Province
	for rows.Next() {
		var p models.Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan province row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating province rows: %w", err)
	}
	return out, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Province, error) {
	query := `SELECT id, name FROM provinces WHERE id = $1`
	var p models.Province
	err := r.pgpool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get province: %w", err)
	}
	return &p, nil
}

type Handlers struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandlers(repo Repository, logger *zap.Logger) *Handlers {
	return &Handlers{repo: repo, logger: logger}
}

func (h *Handlers) ListProvinces(c *gin.Context) {
	provinces, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list provinces", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list provinces"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"provinces": provinces})
}

func (h *Handlers) GetProvince(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid province id"})
		return
	}

	province, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "province not found"})
			return
		}
		h.logger.Error("Failed to get province", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get province"})
		return
	}
	c.JSON(http.StatusOK, province)
}
