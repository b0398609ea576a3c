// Package handlers groups the admin API routes.
// Routes are organized in subdirectories by workflow (countries, timerules, affiliates, etc.)
package handlers

import (
	"github.com/PancyStudios/GeoGateGo/internal/handlers/affiliates"
	"github.com/PancyStudios/GeoGateGo/internal/handlers/countries"
	"github.com/PancyStudios/GeoGateGo/internal/handlers/messages"
	"github.com/PancyStudios/GeoGateGo/internal/handlers/settings"
	"github.com/PancyStudios/GeoGateGo/internal/handlers/system"
	"github.com/PancyStudios/GeoGateGo/internal/handlers/timerules"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Store is the settings store surface every route group draws from
type Store interface {
	settings.Store
	countries.Store
	timerules.Store
	affiliates.Store
	messages.Store
}

// Dependencies carries what the route groups share
type Dependencies struct {
	Store   Store
	Metrics *metrics.Metrics
	System  system.Options
}

// RegisterAll mounts every route group under api
func (d Dependencies) RegisterAll(api *gin.RouterGroup) {
	// /health, /status, /ws
	system.RegisterSystemRoutes(api, d.System)

	// Whole aggregate
	settings.RegisterSettingsRoutes(api, d.Store)

	// One group per editing workflow
	countries.RegisterCountryRoutes(api, d.Store, d.Metrics)
	timerules.RegisterTimeRuleRoutes(api, d.Store, d.Metrics)
	affiliates.RegisterAffiliateRoutes(api, d.Store, d.Metrics)
	messages.RegisterMessageRoutes(api, d.Store, d.Metrics)
}
