// Package timerules serves the time restriction routes and the timezone catalog.
package timerules

import (
	"context"

	"github.com/PancyStudios/GeoGateGo/internal/workflows/timerules"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// Store is what the time restriction routes need from the settings store
type Store interface {
	Load(ctx context.Context) (*models.GeoBlockingSettings, error)
	UpdateTimeRestrictions(ctx context.Context, list []models.TimeRestriction) (*models.GeoBlockingSettings, error)
}

// RegisterTimeRuleRoutes mounts /time-restrictions and /timezones
func RegisterTimeRuleRoutes(api *gin.RouterGroup, store Store, m *metrics.Metrics) {
	h := &handler{
		store:   store,
		manager: timerules.New(store, nil, m),
	}

	group := api.Group("/time-restrictions")
	group.GET("", h.list)
	group.POST("", h.create)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.remove)
	group.PATCH("/:id/enabled", h.setEnabled)

	api.GET("/timezones", h.timezones)
}
