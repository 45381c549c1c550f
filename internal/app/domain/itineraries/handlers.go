package itineraries

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
	"github.com/compasslk/compass/internal/pkg/logger"
	"github.com/compasslk/compass/internal/pkg/middleware"
)

type Handlers struct {
	service Service
}

func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return uuid.Nil, false
	}
	return id, true
}

type createItineraryRequest struct {
	Title     string     `json:"title" binding:"required"`
	StartDate *time.Time `json:"start_date"`
	DayCount  int        `json:"day_count" binding:"required"`
}

// CreateItinerary handles POST /api/itineraries.
func (h *Handlers) CreateItinerary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req createItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary payload"})
		return
	}

	id, err := h.service.Create(c.Request.Context(), models.CreateItineraryParams{
		UserID:    userID,
		Title:     req.Title,
		StartDate: req.StartDate,
		DayCount:  req.DayCount,
	})
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Log.Error("Failed to create itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create itinerary"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetItinerary handles GET /api/itineraries/:id.
func (h *Handlers) GetItinerary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	itinerary, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
			return
		}
		logger.Log.Error("Failed to get itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get itinerary"})
		return
	}
	c.JSON(http.StatusOK, itinerary)
}

// ListItineraries handles GET /api/itineraries.
func (h *Handlers) ListItineraries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itineraries, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error("Failed to list itineraries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list itineraries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": itineraries, "count": len(itineraries)})
}

// AddItem handles POST /api/itineraries/:id/items.
func (h *Handlers) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itineraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	var params models.AddItineraryItemParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload"})
		return
	}

	itemID, err := h.service.AddItem(c.Request.Context(), itineraryID, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary day not found"})
		default:
			logger.Log.Error("Failed to add itinerary item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": itemID})
}

// RemoveItem handles DELETE /api/itineraries/:id/items/:itemID.
func (h *Handlers) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itineraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), itineraryID, userID, itemID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		logger.Log.Error("Failed to remove itinerary item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
		return
	}
	c.Status(http.StatusNoContent)
}

type reorderItemsRequest struct {
	DayNumber int         `json:"day_number" binding:"required"`
	ItemIDs   []uuid.UUID `json:"item_ids" binding:"required"`
}

// ReorderItems handles PUT /api/itineraries/:id/items/order.
func (h *Handlers) ReorderItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itineraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	var req reorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ordering payload"})
		return
	}

	if err := h.service.ReorderItems(c.Request.Context(), itineraryID, userID, req.DayNumber, req.ItemIDs); err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary day not found"})
		default:
			logger.Log.Error("Failed to reorder itinerary items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reorder items"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteItinerary handles DELETE /api/itineraries/:id.
func (h *Handlers) DeleteItinerary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
			return
		}
		logger.Log.Error("Failed to delete itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete itinerary"})
		return
	}
	c.Status(http.StatusNoContent)
}
