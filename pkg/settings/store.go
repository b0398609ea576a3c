// Package settings owns the GeoBlockingSettings aggregate: loading with schema
// migration, whole and per-collection writes, and change notification.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/PancyStudios/GeoGateGo/pkg/storage"
)

const (
	// DefaultKey is the storage key of the aggregate
	DefaultKey = "geo_blocking_settings"
	// DefaultLatency is the artificial delay every operation pays
	DefaultLatency = 300 * time.Millisecond
)

// ErrStorage wraps every failure of the storage collaborator
var ErrStorage = errors.New("settings storage failure")

// Store serializes access to the persisted aggregate within one process
type Store struct {
	storage storage.Storage
	key     string
	latency time.Duration
	metrics *metrics.Metrics
	now     func() time.Time

	mu sync.Mutex
	// notifyMu orders listener runs by commit without holding mu
	notifyMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   []namedListener
}

// Option configures a Store
type Option func(*Store)

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLatency overrides the artificial latency; zero disables it
func WithLatency(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.latency = d
		}
	}
}

// WithMetrics records operations on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithListener registers a change listener at construction time
func WithListener(name string, l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, namedListener{name, l}) }
}

// New creates a Store over st
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		key:     DefaultKey,
		latency: DefaultLatency,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// Load returns the persisted aggregate, or the defaults when nothing readable is stored.
// A legacy document is rewritten in the current schema.
func (s *Store) Load(ctx context.Context) (settings *models.GeoBlockingSettings, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore("load", start, err) }()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return current.Clone(), nil
}

// Save validates and persists the whole aggregate
func (s *Store) Save(ctx context.Context, next *models.GeoBlockingSettings) (saved *models.GeoBlockingSettings, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore("save", start, err) }()

	if err := models.ValidateSettings(next); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	next = next.Clone()
	if err := s.write(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.unlockAndNotify(ctx, models.CollectionAll, next)
	return next.Clone(), nil
}

// UpdateBlockedCountries replaces the blocked country list
func (s *Store) UpdateBlockedCountries(ctx context.Context, list []models.Country) (*models.GeoBlockingSettings, error) {
	if err := models.ValidateCountries(list); err != nil {
		return nil, err
	}
	list = models.CloneCountries(list)
	return s.update(ctx, models.CollectionBlockedCountries, func(agg *models.GeoBlockingSettings) {
		agg.BlockedCountries = list
	})
}

// UpdateTimeRestrictions replaces the time restriction list
func (s *Store) UpdateTimeRestrictions(ctx context.Context, list []models.TimeRestriction) (*models.GeoBlockingSettings, error) {
	if err := models.ValidateTimeRestrictions(list); err != nil {
		return nil, err
	}
	list = models.CloneTimeRestrictions(list)
	return s.update(ctx, models.CollectionTimeRestrictions, func(agg *models.GeoBlockingSettings) {
		agg.TimeRestrictions = list
	})
}

// UpdateAffiliateExceptions replaces the affiliate exception list
func (s *Store) UpdateAffiliateExceptions(ctx context.Context, list []models.AffiliateException) (*models.GeoBlockingSettings, error) {
	if err := models.ValidateAffiliateExceptions(list); err != nil {
		return nil, err
	}
	list = models.CloneAffiliateExceptions(list)
	return s.update(ctx, models.CollectionAffiliateExceptions, func(agg *models.GeoBlockingSettings) {
		agg.AffiliateExceptions = list
	})
}

// UpdateBlockMessages replaces the block message list
func (s *Store) UpdateBlockMessages(ctx context.Context, list []models.BlockMessage) (*models.GeoBlockingSettings, error) {
	if err := models.ValidateBlockMessages(list); err != nil {
		return nil, err
	}
	list = models.CloneBlockMessages(list)
	return s.update(ctx, models.CollectionBlockMessages, func(agg *models.GeoBlockingSettings) {
		agg.BlockMessages = list
	})
}

// update runs read, replace one collection, write back under the store mutex.
// Listeners run after the mutex is released.
func (s *Store) update(ctx context.Context, col models.Collection, apply func(*models.GeoBlockingSettings)) (saved *models.GeoBlockingSettings, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore("update_"+string(col), start, err) }()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	current, err := s.read(ctx)
	if err == nil {
		apply(current)
		err = s.write(ctx, current)
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.unlockAndNotify(ctx, col, current)
	return current.Clone(), nil
}

// read loads and decodes the stored document; s.mu must be held
func (s *Store) read(ctx context.Context) (*models.GeoBlockingSettings, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, s.key, err)
	}
	if !ok {
		raw = nil
	}

	decoded := Decode(raw)
	s.metrics.SchemaDecoded(string(decoded.Outcome))

	switch decoded.Outcome {
	case OutcomeCorrupt:
		logger.Warn(fmt.Sprintf("Configuración almacenada ilegible, usando valores por defecto: %s", decoded.Notes[0]), "Settings")
	case OutcomeMigrated:
		for _, n := range decoded.Notes {
			logger.Info("Migración: "+n, "Settings")
		}
		if err := s.write(ctx, decoded.Settings); err != nil {
			// the migrated value is still served; the rewrite is retried on the next load
			logger.Warn(fmt.Sprintf("No se pudo reescribir la configuración migrada: %v", err), "Settings")
		} else {
			logger.Success("Configuración migrada al esquema actual.", "Settings")
		}
	}

	s.metrics.SetBlockedCountries(decoded.Settings.BlockedCount())
	return decoded.Settings, nil
}

// write encodes and persists the aggregate; s.mu must be held
func (s *Store) write(ctx context.Context, agg *models.GeoBlockingSettings) error {
	raw, err := Encode(agg)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorage, err)
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, s.key, err)
	}
	s.metrics.SetBlockedCountries(agg.BlockedCount())
	return nil
}

// wait pays the artificial latency unless ctx ends first
func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
