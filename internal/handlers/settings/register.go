// Package settings serves the whole-aggregate routes.
package settings

import (
	"context"

	"github.com/PancyStudios/GeoGateGo/internal/handlers/respond"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// Store is what the aggregate routes need from the settings store
type Store interface {
	Load(ctx context.Context) (*models.GeoBlockingSettings, error)
	Save(ctx context.Context, next *models.GeoBlockingSettings) (*models.GeoBlockingSettings, error)
}

// RegisterSettingsRoutes mounts /settings
func RegisterSettingsRoutes(api *gin.RouterGroup, store Store) {
	group := api.Group("/settings")
	group.GET("", getSettings(store))
	group.PUT("", putSettings(store))
	group.GET("/summary", getSummary(store))
}

func getSummary(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := respond.Current(c, store)
		if !ok {
			return
		}
		respond.OK(c, models.Summarize(current))
	}
}

func getSettings(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := respond.Current(c, store)
		if !ok {
			return
		}
		respond.OK(c, current)
	}
}

// putSettings replaces the aggregate wholesale; every collection must be present
func putSettings(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var next models.GeoBlockingSettings
		if !respond.Bind(c, &next) {
			return
		}
		if err := requireCollections(&next); err != nil {
			respond.Error(c, err)
			return
		}
		saved, err := store.Save(c.Request.Context(), &next)
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, saved)
	}
}

func requireCollections(s *models.GeoBlockingSettings) error {
	switch {
	case s.BlockedCountries == nil:
		return models.NewValidationError(string(models.CollectionBlockedCountries), "is required")
	case s.TimeRestrictions == nil:
		return models.NewValidationError(string(models.CollectionTimeRestrictions), "is required")
	case s.AffiliateExceptions == nil:
		return models.NewValidationError(string(models.CollectionAffiliateExceptions), "is required")
	case s.BlockMessages == nil:
		return models.NewValidationError(string(models.CollectionBlockMessages), "is required")
	}
	return nil
}
