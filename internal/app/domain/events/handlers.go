package events

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// ListEvents handles GET /api/events. With year and month query params it
// returns that month's calendar, otherwise the upcoming window.
func (h *Handlers) ListEvents(c *gin.Context) {
	rawYear, rawMonth := c.Query("year"), c.Query("month")
	if rawYear != "" || rawMonth != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil || year < 1900 || year > 2200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		month, err := strconv.Atoi(rawMonth)
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}

		events, err := h.service.ListMonth(c.Request.Context(), year, time.Month(month))
		if err != nil {
			logger.Log.Error("Failed to list events", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	events, err := h.service.ListUpcoming(c.Request.Context(), limit)
	if err != nil {
		logger.Log.Error("Failed to list upcoming events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// GetEvent handles GET /api/events/:id.
func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		logger.Log.Error("Failed to get event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

type createEventRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	ProvinceID  *uuid.UUID `json:"province_id"`
	StartsOn    time.Time  `json:"starts_on" binding:"required"`
	EndsOn      *time.Time `json:"ends_on"`
}

// CreateEvent handles POST /api/admin/events.
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}

	id, err := h.service.Create(c.Request.Context(), models.Event{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		ProvinceID:  req.ProvinceID,
		StartsOn:    req.StartsOn,
		EndsOn:      req.EndsOn,
	})
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Log.Error("Failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
