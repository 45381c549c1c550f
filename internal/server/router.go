package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/observability/metrics"
	"github.com/compasslk/compass/internal/pkg/config"
	"github.com/compasslk/compass/internal/pkg/middleware"
	"github.com/compasslk/compass/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(dbPool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("compass-lk"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(requestMetrics())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	if err := routes.Setup(r, dbPool, cfg, logger); err != nil {
		return nil, err
	}

	// Matched image URLs resolve against this mount.
	r.Static(cfg.Assets.PublicPrefix, cfg.Assets.PrimaryRoot)

	return r, nil
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m := metrics.Get()
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", c.FullPath()),
			attribute.Int("status", c.Writer.Status()),
		)
		m.HTTPRequestsTotal.Add(c.Request.Context(), 1, attrs)
		m.HTTPRequestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}
