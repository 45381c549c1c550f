package destinations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/assets"
	"github.com/compasslk/compass/internal/app/dedupe"
	"github.com/compasslk/compass/internal/app/models"
	"github.com/compasslk/compass/internal/pkg/audit"
	"github.com/compasslk/compass/internal/pkg/cache"
)

// deleteBatchSize bounds one delete statement to respect store limits.
const deleteBatchSize = 100

var _ Service = (*ServiceImpl)(nil)

// Service is the business logic contract for destinations, including the
// maintenance operations shared between CLI and admin endpoints.
type Service interface {
	List(ctx context.Context, filter models.DestinationFilter) ([]models.Destination, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Destination, error)
	Update(ctx context.Context, id uuid.UUID, params models.UpdateDestinationParams) error

	// DedupePreview computes the removal plan without side effects.
	DedupePreview(ctx context.Context) (dedupe.Plan, error)
	// DedupeApply executes a plan. Without confirm it is a no-op, not an
	// error. The plan is audited to durable storage before any deletion.
	DedupeApply(ctx context.Context, plan dedupe.Plan, confirm bool) (*models.BatchResult, error)

	AssignLocalImages(ctx context.Context, catalog *assets.Catalog, overrides *assets.OverrideSet, apply bool) ([]models.ImageAssignment, error)
	FillMissingDescriptions(ctx context.Context, overrides *assets.OverrideSet, rules []assets.TextRule, apply bool) ([]models.DescriptionFill, error)
}

type ServiceImpl struct {
	repo      Repository
	audit     audit.Writer
	logger    *zap.Logger
	listCache *cache.TTLCache[[]models.Destination]
}

func NewService(repo Repository, auditWriter audit.Writer, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		audit:     auditWriter,
		logger:    logger,
		listCache: cache.New[[]models.Destination](5*time.Minute, "destinations", logger),
	}
}

// List returns destinations with duplicate rows collapsed: only each
// group's keeper is shown. The same resolver decides here and in the
// destructive dedupe, so browsing and cleanup never disagree.
func (s *ServiceImpl) List(ctx context.Context, filter models.DestinationFilter) ([]models.Destination, error) {
	key := listCacheKey(filter)
	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	plan := dedupe.Resolve(entitiesOf(rows))
	hidden := make(map[string]bool)
	for _, id := range plan.RemoveIDs() {
		hidden[id] = true
	}

	out := make([]models.Destination, 0, len(rows))
	for _, d := range rows {
		if !hidden[d.ID.String()] {
			out = append(out, d)
		}
	}

	s.listCache.Set(key, out)
	return out, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Destination, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, id uuid.UUID, params models.UpdateDestinationParams) error {
	if err := s.repo.Update(ctx, id, params); err != nil {
		return err
	}
	s.listCache.Clear()
	return nil
}

func (s *ServiceImpl) DedupePreview(ctx context.Context) (dedupe.Plan, error) {
	rows, err := s.repo.List(ctx, models.DestinationFilter{})
	if err != nil {
		return dedupe.Plan{}, err
	}
	plan := dedupe.Resolve(entitiesOf(rows))
	s.logger.Info("Dedupe plan computed",
		zap.Int("destinations", len(rows)),
		zap.Int("groups", len(plan.Groups)),
		zap.Int("removals", len(plan.RemoveIDs())))
	return plan, nil
}

func (s *ServiceImpl) DedupeApply(ctx context.Context, plan dedupe.Plan, confirm bool) (*models.BatchResult, error) {
	result := &models.BatchResult{Confirmed: confirm}
	if plan.Empty() {
		return result, nil
	}
	if !confirm {
		s.logger.Info("Dedupe apply skipped: confirmation not set",
			zap.Int("would_remove", len(plan.RemoveIDs())))
		return result, nil
	}

	// The full plan must be durable before the first delete.
	auditPath, err := s.audit.Write(ctx, audit.RecordFromPlan("dedupe", plan))
	if err != nil {
		return nil, fmt.Errorf("audit write failed, aborting deletion: %w", err)
	}
	result.AuditPath = auditPath

	ids := plan.RemoveIDs()
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		s.applyChunk(ctx, ids[start:end], result)
	}

	s.listCache.Clear()
	s.logger.Info("Dedupe applied",
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("failed", len(result.Failed)),
		zap.String("audit_path", auditPath))
	return result, nil
}

// applyChunk deletes one bounded batch. Failures are recorded per id and
// never retried here; the audit artifact plus the per-id report allow a
// safe manual retry.
func (s *ServiceImpl) applyChunk(ctx context.Context, chunk []string, result *models.BatchResult) {
	parsed := make([]uuid.UUID, 0, len(chunk))
	for _, id := range chunk {
		u, err := uuid.Parse(id)
		if err != nil {
			result.Failed = append(result.Failed, models.BatchError{ID: id, Err: fmt.Errorf("%w: malformed id", models.ErrBadRequest)})
			continue
		}
		parsed = append(parsed, u)
	}
	if len(parsed) == 0 {
		return
	}

	deleted, err := s.repo.DeleteBatch(ctx, parsed)
	if err != nil {
		s.logger.Error("Batch delete failed",
			zap.Int("batch_size", len(parsed)),
			zap.Error(err))
		for _, u := range parsed {
			result.Failed = append(result.Failed, models.BatchError{ID: u.String(), Err: err})
		}
		return
	}

	deletedSet := make(map[uuid.UUID]bool, len(deleted))
	for _, u := range deleted {
		deletedSet[u] = true
	}

	for _, u := range parsed {
		if !deletedSet[u] {
			result.Failed = append(result.Failed, models.BatchError{ID: u.String(), Err: models.ErrNotFound})
			continue
		}
		// A row the store claims to have deleted but still returns on
		// re-query is usually a policy block, not a request error.
		exists, err := s.repo.ExistsByID(ctx, u)
		if err != nil {
			result.Failed = append(result.Failed, models.BatchError{ID: u.String(), Err: fmt.Errorf("delete verification failed: %w", err)})
			continue
		}
		if exists {
			result.Failed = append(result.Failed, models.BatchError{ID: u.String(), Err: models.ErrVerificationMismatch})
			continue
		}
		result.Deleted = append(result.Deleted, u.String())
	}
}

func (s *ServiceImpl) AssignLocalImages(ctx context.Context, catalog *assets.Catalog, overrides *assets.OverrideSet, apply bool) ([]models.ImageAssignment, error) {
	rows, err := s.repo.List(ctx, models.DestinationFilter{MissingImage: true})
	if err != nil {
		return nil, err
	}

	var out []models.ImageAssignment
	for _, d := range rows {
		assignment, ok := s.chooseImage(d, catalog, overrides)
		if !ok {
			continue
		}
		if apply {
			if err := s.repo.Update(ctx, d.ID, models.UpdateDestinationParams{ImageURL: &assignment.ImageURL}); err != nil {
				s.logger.Error("Failed to attach image",
					zap.String("destination_id", d.ID.String()),
					zap.String("name", d.Name),
					zap.Error(err))
			} else {
				assignment.Applied = true
			}
		}
		out = append(out, assignment)
	}

	if apply {
		s.listCache.Clear()
	}
	return out, nil
}

// chooseImage picks the primary image for one destination: a firing
// override is authoritative, otherwise the first computed candidate wins.
func (s *ServiceImpl) chooseImage(d models.Destination, catalog *assets.Catalog, overrides *assets.OverrideSet) (models.ImageAssignment, bool) {
	if overrides != nil {
		if rule, ok := overrides.Resolve(d.Name); ok && rule.Image != "" {
			return models.ImageAssignment{
				DestinationID: d.ID,
				Name:          d.Name,
				ImageURL:      rule.Image,
				Source:        "override",
			}, true
		}
	}

	candidates := catalog.FindLocalImages(d.Name)
	if len(candidates) == 0 {
		return models.ImageAssignment{}, false
	}
	return models.ImageAssignment{
		DestinationID: d.ID,
		Name:          d.Name,
		ImageURL:      candidates[0].URL,
		Source:        candidates[0].Root,
	}, true
}

func (s *ServiceImpl) FillMissingDescriptions(ctx context.Context, overrides *assets.OverrideSet, rules []assets.TextRule, apply bool) ([]models.DescriptionFill, error) {
	rows, err := s.repo.List(ctx, models.DestinationFilter{MissingDescription: true})
	if err != nil {
		return nil, err
	}

	var out []models.DescriptionFill
	for _, d := range rows {
		fill := models.DescriptionFill{DestinationID: d.ID, Name: d.Name}

		if overrides != nil {
			if rule, ok := overrides.Resolve(d.Name); ok && rule.Text != "" {
				fill.Description = rule.Text
				fill.FromRule = true
			}
		}
		if fill.Description == "" {
			province := ""
			if d.ProvinceName != nil {
				province = *d.ProvinceName
			}
			fill.Description, fill.FromRule = assets.FallbackDescription(d.Name, province, rules)
		}

		if apply {
			if err := s.repo.Update(ctx, d.ID, models.UpdateDestinationParams{Description: &fill.Description}); err != nil {
				s.logger.Error("Failed to fill description",
					zap.String("destination_id", d.ID.String()),
					zap.String("name", d.Name),
					zap.Error(err))
			} else {
				fill.Applied = true
			}
		}
		out = append(out, fill)
	}

	if apply {
		s.listCache.Clear()
	}
	return out, nil
}

func entitiesOf(rows []models.Destination) []dedupe.Entity {
	entities := make([]dedupe.Entity, 0, len(rows))
	for _, d := range rows {
		e := dedupe.Entity{
			ID:          d.ID.String(),
			Name:        d.Name,
			Description: d.Description,
			ImageURL:    d.ImageURL,
			Latitude:    d.Latitude,
			Longitude:   d.Longitude,
		}
		if d.ProvinceID != nil {
			pid := d.ProvinceID.String()
			e.ProvinceID = &pid
		}
		entities = append(entities, e)
	}
	return entities
}

func listCacheKey(filter models.DestinationFilter) string {
	var b strings.Builder
	if filter.ProvinceID != nil {
		b.WriteString(filter.ProvinceID.String())
	}
	fmt.Fprintf(&b, "|%t|%t|%s|%d|%d",
		filter.MissingImage, filter.MissingDescription, filter.Search, filter.Limit, filter.Offset)
	return b.String()
}
