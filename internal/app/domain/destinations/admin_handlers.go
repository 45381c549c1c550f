package destinations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/assets"
	"github.com/compasslk/compass/internal/app/dedupe"
	"github.com/compasslk/compass/internal/app/models"
	"github.com/compasslk/compass/internal/observability/metrics"
	"github.com/compasslk/compass/internal/pkg/logger"
)

// CatalogFunc enumerates the local asset roots on demand. The admin
// handlers never walk the filesystem themselves.
type CatalogFunc func(ctx context.Context) (*assets.Catalog, error)

const catalogCacheKey = "asset_catalog"

// AdminHandlers expose the maintenance operations over HTTP. They call
// the same service methods as the compassctl CLI.
type AdminHandlers struct {
	service      Service
	buildCatalog CatalogFunc
	overrides    *assets.OverrideSet
	textRules    []assets.TextRule
	catalogCache *gocache.Cache
}

func NewAdminHandlers(service Service, buildCatalog CatalogFunc, overrides *assets.OverrideSet, textRules []assets.TextRule) *AdminHandlers {
	return &AdminHandlers{
		service:      service,
		buildCatalog: buildCatalog,
		overrides:    overrides,
		textRules:    textRules,
		catalogCache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

type applyRequest struct {
	Confirm bool `json:"confirm"`
}

type planGroupResponse struct {
	Key         string   `json:"key"`
	KeeperID    string   `json:"keeper_id"`
	KeeperName  string   `json:"keeper_name"`
	KeeperScore int      `json:"keeper_score"`
	RemovedIDs  []string `json:"removed_ids"`
}

type planResponse struct {
	Groups     []planGroupResponse `json:"groups"`
	RemoveIDs  []string            `json:"remove_ids"`
	GroupCount int                 `json:"group_count"`
}

func planToResponse(plan dedupe.Plan) planResponse {
	resp := planResponse{
		RemoveIDs:  plan.RemoveIDs(),
		GroupCount: len(plan.Groups),
	}
	for _, g := range plan.Groups {
		gr := planGroupResponse{
			Key:         g.Key,
			KeeperID:    g.Keeper.ID,
			KeeperName:  g.Keeper.Name,
			KeeperScore: dedupe.Score(g.Keeper),
		}
		for _, e := range g.Remove {
			gr.RemovedIDs = append(gr.RemovedIDs, e.ID)
		}
		resp.Groups = append(resp.Groups, gr)
	}
	return resp
}

// DedupePreview handles GET /api/admin/dedupe/preview.
func (h *AdminHandlers) DedupePreview(c *gin.Context) {
	plan, err := h.service.DedupePreview(c.Request.Context())
	if err != nil {
		logger.Log.Error("Dedupe preview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dedupe plan"})
		return
	}
	c.JSON(http.StatusOK, planToResponse(plan))
}

// DedupeApply handles POST /api/admin/dedupe/apply. The plan is
// recomputed server-side; the request body only carries the explicit
// confirmation flag. Without it, nothing is deleted.
func (h *AdminHandlers) DedupeApply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	plan, err := h.service.DedupePreview(c.Request.Context())
	if err != nil {
		logger.Log.Error("Dedupe plan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dedupe plan"})
		return
	}

	result, err := h.service.DedupeApply(c.Request.Context(), plan, req.Confirm)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "store policy rejected the deletion; check permissions"})
			return
		}
		logger.Log.Error("Dedupe apply failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply dedupe plan"})
		return
	}

	m := metrics.Get()
	m.DedupeRunsTotal.Add(c.Request.Context(), 1)
	m.DedupeRemovalsTotal.Add(c.Request.Context(), int64(len(result.Deleted)))

	status := http.StatusOK
	if result.Partial() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{
		"confirmed":  result.Confirmed,
		"deleted":    result.Deleted,
		"failed":     batchErrorsToResponse(result.Failed),
		"audit_path": result.AuditPath,
		"plan":       planToResponse(plan),
	})
}

// AssignImages handles POST /api/admin/images/assign.
func (h *AdminHandlers) AssignImages(c *gin.Context) {
	catalog, err := h.catalog(c.Request.Context())
	if err != nil {
		logger.Log.Error("Asset catalog build failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enumerate local images"})
		return
	}

	apply := c.Query("apply") == "true"
	assignments, err := h.service.AssignLocalImages(c.Request.Context(), catalog, h.overrides, apply)
	if err != nil {
		logger.Log.Error("Image assignment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign images"})
		return
	}

	metrics.Get().ImageMatchesTotal.Add(c.Request.Context(), int64(len(assignments)))

	c.JSON(http.StatusOK, gin.H{
		"applied":     apply,
		"assignments": assignments,
		"count":       len(assignments),
	})
}

// FillDescriptions handles POST /api/admin/descriptions/fill.
func (h *AdminHandlers) FillDescriptions(c *gin.Context) {
	apply := c.Query("apply") == "true"
	fills, err := h.service.FillMissingDescriptions(c.Request.Context(), h.overrides, h.textRules, apply)
	if err != nil {
		logger.Log.Error("Description fill failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fill descriptions"})
		return
	}

	metrics.Get().DescriptionFillsTotal.Add(c.Request.Context(), int64(len(fills)))

	c.JSON(http.StatusOK, gin.H{
		"applied": apply,
		"fills":   fills,
		"count":   len(fills),
	})
}

// catalog memoises the directory scan for a few minutes so repeated
// admin calls do not re-walk the asset tree.
func (h *AdminHandlers) catalog(ctx context.Context) (*assets.Catalog, error) {
	if v, ok := h.catalogCache.Get(catalogCacheKey); ok {
		return v.(*assets.Catalog), nil
	}
	catalog, err := h.buildCatalog(ctx)
	if err != nil {
		return nil, err
	}
	h.catalogCache.Set(catalogCacheKey, catalog, gocache.DefaultExpiration)
	return catalog, nil
}

func batchErrorsToResponse(failed []models.BatchError) []gin.H {
	out := make([]gin.H, 0, len(failed))
	for _, f := range failed {
		out = append(out, gin.H{"id": f.ID, "error": f.Message()})
	}
	return out
}
