package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
)

// Listener receives every successful write
type Listener interface {
	SettingsChanged(ctx context.Context, change models.SettingsChange) error
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(ctx context.Context, change models.SettingsChange) error

func (f ListenerFunc) SettingsChanged(ctx context.Context, change models.SettingsChange) error {
	return f(ctx, change)
}

type namedListener struct {
	name string
	l    Listener
}

// Subscribe registers a listener; name labels its failures in logs and metrics
func (s *Store) Subscribe(name string, l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, namedListener{name, l})
}

// unlockAndNotify releases s.mu and then runs the listeners. notifyMu is
// taken first so two commits reach listeners in the order they were written.
func (s *Store) unlockAndNotify(ctx context.Context, col models.Collection, agg *models.GeoBlockingSettings) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Unlock()
	s.notify(ctx, col, agg)
}

// notify runs every listener in registration order. Failures and panics are logged only.
func (s *Store) notify(ctx context.Context, col models.Collection, agg *models.GeoBlockingSettings) {
	s.listenersMu.RLock()
	listeners := append([]namedListener(nil), s.listeners...)
	s.listenersMu.RUnlock()

	for _, nl := range listeners {
		change := models.SettingsChange{
			Collection: col,
			Settings:   agg.Clone(),
			At:         s.now().UTC(),
		}
		if err := safeCall(ctx, nl.l, change); err != nil {
			s.metrics.ListenerFailed(nl.name)
			logger.Error(fmt.Sprintf("Listener '%s' falló al procesar el cambio de %s: %v", nl.name, col, err), "Settings")
		}
	}
}

func safeCall(ctx context.Context, l Listener, change models.SettingsChange) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return l.SettingsChanged(ctx, change)
}
