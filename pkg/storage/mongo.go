package storage

import (
	"context"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/database"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// DefaultCollection is the mongo collection holding key/value documents
const DefaultCollection = "settings"

// Mongo stores one document per key through a cached DataManager
type Mongo struct {
	db *database.Database
	dm *database.DataManager[models.StoredValue]
}

// NewMongo wraps a database whose connection is managed by the caller.
// Reads always hit the collection so writes from other processes are seen.
func NewMongo(db *database.Database, collection string) *Mongo {
	if collection == "" {
		collection = DefaultCollection
	}
	dm := database.NewDataManager[models.StoredValue](collection, db, database.DataManagerOptions{
		MaxCacheSize: 64,
		ReadThrough:  true,
	})
	dm.PrimeCache()
	return &Mongo{db: db, dm: dm}
}

func (m *Mongo) Name() string { return "mongo" }

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	doc, err := m.dm.Get(ctx, bson.M{"_id": key})
	if err != nil {
		return nil, false, err
	}
	if doc == nil {
		return nil, false, nil
	}
	return []byte(doc.Value), true, nil
}

func (m *Mongo) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.dm.Set(ctx, bson.M{"_id": key}, bson.M{
		"value":      string(value),
		"updated_at": time.Now().UTC(),
	})
	return err
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.db.Ping(ctx)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.db.Disconnect(ctx)
}
