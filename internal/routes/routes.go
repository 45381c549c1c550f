package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/assets"
	"github.com/compasslk/compass/internal/app/domain/destinations"
	"github.com/compasslk/compass/internal/app/domain/events"
	"github.com/compasslk/compass/internal/app/domain/itineraries"
	"github.com/compasslk/compass/internal/app/domain/provinces"
	"github.com/compasslk/compass/internal/app/domain/reviews"
	"github.com/compasslk/compass/internal/pkg/audit"
	"github.com/compasslk/compass/internal/pkg/config"
	"github.com/compasslk/compass/internal/pkg/imagescan"
	"github.com/compasslk/compass/internal/pkg/middleware"
)

type AppHandlers struct {
	Destinations *destinations.Handlers
	Admin        *destinations.AdminHandlers
	Provinces    *provinces.Handlers
	Events       *events.Handlers
	Reviews      *reviews.Handlers
	Itineraries  *itineraries.Handlers
}

// Setup wires repositories, services and handlers and registers every
// route on the router.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) error {
	handlers, err := setupDependencies(dbPool, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	setupRouter(r, handlers, cfg, log)
	return nil
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*AppHandlers, error) {
	// Repositories
	destinationsRepo := destinations.NewRepository(dbPool, log)
	provincesRepo := provinces.NewRepository(dbPool, log)
	eventsRepo := events.NewRepository(dbPool, log)
	reviewsRepo := reviews.NewRepository(dbPool, log)
	itinerariesRepo := itineraries.NewRepository(dbPool, log)

	// Services
	auditWriter := audit.NewFileWriter(cfg.Audit.Dir, log)
	destinationsService := destinations.NewService(destinationsRepo, auditWriter, log)
	eventsService := events.NewService(eventsRepo, log)
	reviewsService := reviews.NewService(reviewsRepo, log)
	itinerariesService := itineraries.NewService(itinerariesRepo, log)

	// The matcher's override and text rules come from a single file so
	// the HTTP endpoints and the CLI agree on them.
	overrides, textRules, err := assets.LoadMatchConfig(cfg.Assets.MatchConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load match config: %w", err)
	}

	scanRoots := []imagescan.RootConfig{
		{Tag: "primary", Dir: cfg.Assets.PrimaryRoot, URLPrefix: cfg.Assets.PublicPrefix},
		{Tag: "legacy", Dir: cfg.Assets.FallbackRoot, URLPrefix: cfg.Assets.PublicPrefix + "/legacy"},
	}
	buildCatalog := func(ctx context.Context) (*assets.Catalog, error) {
		roots, err := imagescan.Scan(ctx, scanRoots)
		if err != nil {
			return nil, err
		}
		return assets.NewCatalog(roots...), nil
	}

	return &AppHandlers{
		Destinations: destinations.NewHandlers(destinationsService),
		Admin:        destinations.NewAdminHandlers(destinationsService, buildCatalog, overrides, textRules),
		Provinces:    provinces.NewHandlers(provincesRepo, log),
		Events:       events.NewHandlers(eventsService),
		Reviews:      reviews.NewHandlers(reviewsService),
		Itineraries:  itineraries.NewHandlers(itinerariesService),
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers, cfg *config.Config, log *zap.Logger) {
	api := r.Group("/api")
	{
		api.GET("/destinations", h.Destinations.ListDestinations)
		api.GET("/destinations/:id", h.Destinations.GetDestination)
		api.GET("/destinations/:id/reviews", h.Reviews.ListReviews)

		api.GET("/provinces", h.Provinces.ListProvinces)
		api.GET("/provinces/:id", h.Provinces.GetProvince)

		api.GET("/events", h.Events.ListEvents)
		api.GET("/events/:id", h.Events.GetEvent)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret, log))
	{
		authed.POST("/destinations/:id/reviews", h.Reviews.CreateReview)

		authed.POST("/itineraries", h.Itineraries.CreateItinerary)
		authed.GET("/itineraries", h.Itineraries.ListItineraries)
		authed.GET("/itineraries/:id", h.Itineraries.GetItinerary)
		authed.DELETE("/itineraries/:id", h.Itineraries.DeleteItinerary)
		authed.POST("/itineraries/:id/items", h.Itineraries.AddItem)
		authed.PUT("/itineraries/:id/items/order", h.Itineraries.ReorderItems)
		authed.DELETE("/itineraries/:id/items/:itemID", h.Itineraries.RemoveItem)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg.JWTSecret, log))
	{
		admin.GET("/dedupe/preview", h.Admin.DedupePreview)
		admin.POST("/dedupe/apply", h.Admin.DedupeApply)
		admin.POST("/images/assign", h.Admin.AssignImages)
		admin.POST("/descriptions/fill", h.Admin.FillDescriptions)

		admin.POST("/events", h.Events.CreateEvent)
		admin.DELETE("/reviews/:id", h.Reviews.DeleteReview)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
