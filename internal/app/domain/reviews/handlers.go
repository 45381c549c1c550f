package reviews

import (
	"errors"
	"net/http"
	"strconv"

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

type createReviewRequest struct {
	Author  string  `json:"author" binding:"required"`
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

// CreateReview handles POST /api/destinations/:id/reviews.
func (h *Handlers) CreateReview(c *gin.Context) {
	destinationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination id"})
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review payload"})
		return
	}

	userID, err := uuid.Parse(middleware.GetUserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := h.service.Create(c.Request.Context(), models.CreateReviewParams{
		DestinationID: destinationID,
		UserID:        userID,
		Author:        req.Author,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "destination not found"})
		default:
			logger.Log.Error("Failed to create review", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListReviews handles GET /api/destinations/:id/reviews.
func (h *Handlers) ListReviews(c *gin.Context) {
	destinationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid destination id"})
		return
	}

	limit, offset := 0, 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
	}

	reviews, err := h.service.ListByDestination(c.Request.Context(), destinationID, limit, offset)
	if err != nil {
		logger.Log.Error("Failed to list reviews", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// DeleteReview handles DELETE /api/admin/reviews/:id.
func (h *Handlers) DeleteReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		logger.Log.Error("Failed to delete review", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
		return
	}
	c.Status(http.StatusNoContent)
}
