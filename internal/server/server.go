package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	database "github.com/compasslk/compass/internal/db"
	"github.com/compasslk/compass/internal/pkg/config"
)

// Server owns the process-level resources: the connection pool and the
// HTTP handler it serves.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	dbPool *pgxpool.Pool
	router http.Handler
}

// New connects to Postgres and runs pending migrations. The router is
// attached separately via SetRouter once its dependencies exist.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	pool, err := s.connect(context.Background())
	if err != nil {
		return nil, fmt.Errorf("database setup: %w", err)
	}
	s.dbPool = pool
	return s, nil
}

func (s *Server) connect(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(s.cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build database configuration: %w", err)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database pool: %w", err)
	}

	database.WaitForDB(ctx, pool, s.logger)
	s.logger.Info("Connected to Postgres",
		zap.String("host", s.cfg.Repositories.Postgres.Host),
		zap.String("port", s.cfg.Repositories.Postgres.Port),
		zap.String("database", s.cfg.Repositories.Postgres.DB))

	if err := database.RunMigrations(dbConfig.ConnectionURL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return pool, nil
}

// HTTPServer wraps the attached router in an http.Server with the
// timeouts the app runs under.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) GetDBPool() *pgxpool.Pool {
	return s.dbPool
}

// Close releases the pool. Safe to call on a partially built server.
func (s *Server) Close() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
