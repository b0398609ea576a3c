// Package messages serves the block message routes and the language catalog.
package messages

import (
	"context"

	"github.com/PancyStudios/GeoGateGo/internal/workflows/messages"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// Store is what the block message routes need from the settings store
type Store interface {
	Load(ctx context.Context) (*models.GeoBlockingSettings, error)
	UpdateBlockMessages(ctx context.Context, list []models.BlockMessage) (*models.GeoBlockingSettings, error)
}

// RegisterMessageRoutes mounts /block-messages and /languages
func RegisterMessageRoutes(api *gin.RouterGroup, store Store, m *metrics.Metrics) {
	h := &handler{
		store:   store,
		metrics: m,
		editor:  messages.New(store, nil, m),
	}

	group := api.Group("/block-messages")
	group.GET("", h.list)
	group.PUT("", h.replace)
	group.PUT("/:language", h.updateLanguage)

	api.GET("/languages", h.languages)
}
