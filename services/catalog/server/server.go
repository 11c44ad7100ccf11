// Package server exposes the enriched catalog over HTTP for the rendering
// layer. Read-only: nothing here ever touches the raw dataset.
package server

import (
	"net/http"
	"strconv"

	"glowpicked-backend/services/catalog"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Enricher *catalog.Enricher
	// TrackedIDs drives the list endpoint; order is preserved.
	TrackedIDs []string
}

func NewHandler(enricher *catalog.Enricher, trackedIDs []string) *Handler {
	return &Handler{Enricher: enricher, TrackedIDs: trackedIDs}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.list)
	rg.GET("/products/:id", h.getByID)
	rg.GET("/stats", h.stats)
}

func fallbackHint(c *gin.Context) *catalog.FallbackHint {
	ratingStr := c.Query("fallback_rating")
	reviewsStr := c.Query("fallback_reviews")
	if ratingStr == "" && reviewsStr == "" {
		return nil
	}

	hint := &catalog.FallbackHint{}
	if v, err := strconv.ParseFloat(ratingStr, 64); err == nil {
		hint.Rating = v
	}
	if v, err := strconv.Atoi(reviewsStr); err == nil {
		hint.Reviews = v
	}
	return hint
}

func (h *Handler) list(c *gin.Context) {
	items := make([]catalog.EnrichedProduct, len(h.TrackedIDs))
	for i, id := range h.TrackedIDs {
		items[i] = h.Enricher.Enrich(id, nil)
	}
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	hint := fallbackHint(c)

	if !h.Enricher.Known(id) && hint == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown product"})
		return
	}
	c.JSON(http.StatusOK, h.Enricher.Enrich(id, hint))
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Enricher.Stats())
}
