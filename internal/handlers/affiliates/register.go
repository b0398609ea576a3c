// Package affiliates serves the affiliate exception routes.
package affiliates

import (
	"context"

	"github.com/PancyStudios/GeoGateGo/internal/workflows/affiliates"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// Store is what the affiliate routes need from the settings store
type Store interface {
	Load(ctx context.Context) (*models.GeoBlockingSettings, error)
	UpdateAffiliateExceptions(ctx context.Context, list []models.AffiliateException) (*models.GeoBlockingSettings, error)
}

// RegisterAffiliateRoutes mounts /affiliate-exceptions
func RegisterAffiliateRoutes(api *gin.RouterGroup, store Store, m *metrics.Metrics) {
	h := &handler{
		store:   store,
		manager: affiliates.New(store, nil, m),
	}

	group := api.Group("/affiliate-exceptions")
	group.GET("", h.list)
	group.POST("", h.create)
	group.POST("/identifiers/classify", h.classify)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.remove)
	group.PATCH("/:id/enabled", h.setEnabled)
}
