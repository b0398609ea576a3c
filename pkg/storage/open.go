package storage

import (
	"context"
	"fmt"

	"github.com/PancyStudios/GeoGateGo/pkg/config"
	"github.com/PancyStudios/GeoGateGo/pkg/database"
	"github.com/PancyStudios/GeoGateGo/pkg/logger"
)

// Open builds the backend selected by cfg.StorageDriver
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageDriver {
	case "", config.StorageMemory:
		logger.Warn("Usando almacenamiento en memoria. Los cambios se perderán al reiniciar.", "Storage")
		return NewMemory(), nil
	case config.StorageMongo:
		db := database.NewDatabase(cfg.MongoDBURL, cfg.DBName)
		if err := db.Connect(ctx); err != nil {
			// the reconnect loop keeps trying; reads fail until then
			logger.Error(fmt.Sprintf("Mongo no disponible: %v", err), "Storage")
		}
		return NewMongo(db, DefaultCollection), nil
	case config.StorageRedis:
		return NewRedis(ctx, cfg.RedisURL)
	case config.StoragePostgres:
		return OpenPostgres(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
