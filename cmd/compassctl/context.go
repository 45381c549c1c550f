package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/compasslk/compass/internal/app/assets"
	"github.com/compasslk/compass/internal/app/domain/destinations"
	database "github.com/compasslk/compass/internal/db"
	"github.com/compasslk/compass/internal/pkg/audit"
	"github.com/compasslk/compass/internal/pkg/config"
	"github.com/compasslk/compass/internal/pkg/imagescan"
	"github.com/compasslk/compass/internal/pkg/logger"
)

// commandContext lazily builds the shared dependencies. Commands share
// one config, one logger and one pool for the life of the invocation.
type commandContext struct {
	cfg     *config.Config
	zlog    *zap.Logger
	pool    *pgxpool.Pool
	service destinations.Service
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureLogger() (*zap.Logger, error) {
	if c.zlog != nil {
		return c.zlog, nil
	}
	if err := logger.Init(zapcore.WarnLevel); err != nil {
		return nil, err
	}
	c.zlog = logger.Log
	return c.zlog, nil
}

func (c *commandContext) ensureService(ctx context.Context) (destinations.Service, error) {
	if c.service != nil {
		return c.service, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	zlog, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	dbConfig, err := database.NewDatabaseConfig(cfg, zlog)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database configuration: %w", err)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, zlog)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	if !database.WaitForDB(ctx, pool, zlog) {
		pool.Close()
		return nil, fmt.Errorf("database did not become ready")
	}
	c.pool = pool

	repo := destinations.NewRepository(pool, zlog)
	auditWriter := audit.NewFileWriter(cfg.Audit.Dir, zlog)
	c.service = destinations.NewService(repo, auditWriter, zlog)
	return c.service, nil
}

// matchConfig loads the shared override and text rules file.
func (c *commandContext) matchConfig() (*assets.OverrideSet, []assets.TextRule, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	return assets.LoadMatchConfig(cfg.Assets.MatchConfigPath)
}

// buildCatalog scans the configured asset roots.
func (c *commandContext) buildCatalog(ctx context.Context) (*assets.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	roots, err := imagescan.Scan(ctx, []imagescan.RootConfig{
		{Tag: "primary", Dir: cfg.Assets.PrimaryRoot, URLPrefix: cfg.Assets.PublicPrefix},
		{Tag: "legacy", Dir: cfg.Assets.FallbackRoot, URLPrefix: cfg.Assets.PublicPrefix + "/legacy"},
	})
	if err != nil {
		return nil, err
	}
	return assets.NewCatalog(roots...), nil
}

func (c *commandContext) close() {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}
