// Package database provides the DataManager for cached database operations.
package database

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
	// ReadThrough makes Get always query the database. The cache then only
	// mirrors the last value read or written.
	ReadThrough bool
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// cacheEntry holds a cached value with its key
type cacheEntry[T any] struct {
	key   string
	value *T
}

// DataManager provides cached access to a MongoDB collection
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	options    DataManagerOptions

	mu        sync.Mutex
	cache     map[string]*list.Element
	cacheList *list.List
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		options:    dmOptions,
		cache:      make(map[string]*list.Element),
		cacheList:  list.New(),
	}
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

// generateCacheKey creates a deterministic key from a query.
// Keys are sorted so map iteration order does not matter.
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

func (dm *DataManager[T]) collection() (*mongo.Collection, error) {
	if dm.dbInstance == nil || !dm.dbInstance.Connected() {
		return nil, ErrNotConnected
	}
	col := dm.dbInstance.GetCollection(dm.name)
	if col == nil {
		return nil, ErrNotConnected
	}
	return col, nil
}

// Get retrieves a document from cache or database.
// A missing document yields (nil, nil).
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	if !dm.options.ReadThrough {
		if v, ok := dm.cached(cacheKey); ok {
			return v, nil
		}
	}

	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			dm.evict(cacheKey)
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s)", dm.name), "DataManager")
		return nil, err
	}

	dm.store(cacheKey, &result)
	return &result, nil
}

// Set upserts a document and refreshes the cache with the stored version
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data interface{}) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	col, err := dm.collection()
	if err != nil {
		logger.Warn(fmt.Sprintf("DB offline. Escritura rechazada para '%s'", dm.name), "DataManager")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	if err := col.FindOneAndUpdate(ctx, query, bson.M{"$set": data}, opts).Decode(&result); err != nil {
		logger.Error(fmt.Sprintf("Error en 'set' para '%s': %v", dm.name, err), "DataManager")
		dm.evict(cacheKey)
		return nil, err
	}

	dm.store(cacheKey, &result)
	return &result, nil
}

// Delete removes a document from the database and cache
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) error {
	dm.evict(dm.generateCacheKey(query))

	col, err := dm.collection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := col.DeleteOne(ctx, query); err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' para '%s': %v", dm.name, err), "DataManager")
		return err
	}
	return nil
}

func (dm *DataManager[T]) cached(key string) (*T, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	elem, ok := dm.cache[key]
	if !ok {
		return nil, false
	}
	dm.cacheList.MoveToFront(elem)
	return elem.Value.(*cacheEntry[T]).value, true
}

func (dm *DataManager[T]) store(key string, value *T) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	entry := &cacheEntry[T]{key: key, value: value}
	if elem, ok := dm.cache[key]; ok {
		elem.Value = entry
		dm.cacheList.MoveToFront(elem)
		return
	}
	dm.cache[key] = dm.cacheList.PushFront(entry)

	if dm.options.MaxCacheSize > 0 && dm.cacheList.Len() > dm.options.MaxCacheSize {
		if oldest := dm.cacheList.Back(); oldest != nil {
			delete(dm.cache, oldest.Value.(*cacheEntry[T]).key)
			dm.cacheList.Remove(oldest)
		}
	}
}

func (dm *DataManager[T]) evict(key string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if elem, ok := dm.cache[key]; ok {
		dm.cacheList.Remove(elem)
		delete(dm.cache, key)
	}
}

// ClearCache clears the entire cache
func (dm *DataManager[T]) ClearCache() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.cache = make(map[string]*list.Element)
	dm.cacheList = list.New()
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.cacheList.Len()
}

// PrimeCache logs that the cache is ready (caches are filled on demand)
func (dm *DataManager[T]) PrimeCache() {
	logger.System(fmt.Sprintf("Caché para '%s' preparada (tamaño máx: %d). Se llenará bajo demanda.", dm.name, dm.options.MaxCacheSize), "DataManager")
}
