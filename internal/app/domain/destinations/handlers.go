package destinations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
	"github.com/compasslk/compass/internal/pkg/logger"
)

type Handlers struct {
	service Service
}

func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// ListDestinations handles GET /api/destinations.
func (h *Handlers) ListDestinations(c *gin.Context) {
	var filter models.DestinationFilter

	if raw := c.Query("province_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid province_id"})
			return
		}
		filter.ProvinceID = &pid
	}
	filter.MissingImage = c.Query("missing_image") == "true"
	filter.MissingDescription = c.Query("missing_description") == "true"
	filter.Search = c.Query("q")
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		filter.Offset = offset
	}

	dests, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		logger.Log.Error("Failed to list destinations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list destinations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"destinations": dests, "count": len(dests)})
}

// GetDestination handles GET /api/destinations/:id.
func (h *Handlers) GetDestination(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination id"})
		return
	}

	dest, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "destination not found"})
			return
		}
		logger.Log.Error("Failed to get destination",
			zap.String("id", id.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get destination"})
		return
	}

	c.JSON(http.StatusOK, dest)
}
