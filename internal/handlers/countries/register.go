// Package countries serves the blocked-country selection routes.
package countries

import (
	"context"

	countrywf "github.com/PancyStudios/GeoGateGo/internal/workflows/countries"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// Store is what the country routes need from the settings store
type Store interface {
	Load(ctx context.Context) (*models.GeoBlockingSettings, error)
	UpdateBlockedCountries(ctx context.Context, list []models.Country) (*models.GeoBlockingSettings, error)
}

// RegisterCountryRoutes mounts /countries
func RegisterCountryRoutes(api *gin.RouterGroup, store Store, m *metrics.Metrics) {
	h := &handler{
		store:     store,
		metrics:   m,
		selection: countrywf.New(store, nil, m),
	}

	group := api.Group("/countries")
	group.GET("", h.list)
	group.PUT("/blocked", h.setBlocked)
	group.POST("/bulk", h.bulk)
}
