package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/service"
)

// ResourceHandler serves the resource library.
type ResourceHandler struct {
	Resources *service.ResourceService
	Logger    *zap.Logger
}

// NewResourceHandler creates the handler set.
func NewResourceHandler(resources *service.ResourceService, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{Resources: resources, Logger: logger}
}

// List returns resources filtered by the optional category and language query.
func (h *ResourceHandler) List(c *gin.Context) {
	items, err := h.Resources.List(c.Request.Context(), domain.ResourceFilter{
		Category: c.Query("category"),
		Language: c.Query("language"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "resources": items})
}

// Seed loads the starter library once.
func (h *ResourceHandler) Seed(c *gin.Context) {
	result, err := h.Resources.Seed(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if !result.Seeded {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Already seeded", "count": result.Count})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Seeded resources"})
}
