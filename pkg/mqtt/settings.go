package mqtt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
)

// Publisher sends retained messages
type Publisher interface {
	PublishRetained(ctx context.Context, topic string, payload interface{}) error
}

// ChangeEvent is the payload published for one collection
type ChangeEvent struct {
	Collection models.Collection `json:"collection"`
	Data       interface{}       `json:"data"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// SettingsPublisher publishes every settings change for the runtime enforcers.
// It is registered as a listener on the settings store.
type SettingsPublisher struct {
	pub    Publisher
	prefix string
}

// NewSettingsPublisher creates a publisher rooted at prefix
func NewSettingsPublisher(pub Publisher, prefix string) *SettingsPublisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SettingsPublisher{pub: pub, prefix: prefix}
}

// SettingsChanged publishes the touched collection on <prefix>/settings/<collection>
// and the whole aggregate on <prefix>/settings
func (p *SettingsPublisher) SettingsChanged(ctx context.Context, change models.SettingsChange) error {
	collections := []models.Collection{change.Collection}
	if change.Collection == models.CollectionAll {
		collections = models.Collections
	}

	for _, col := range collections {
		data, err := models.CollectionData(change.Settings, col)
		if err != nil {
			return err
		}
		event := ChangeEvent{Collection: col, Data: data, UpdatedAt: change.At}
		if err := p.pub.PublishRetained(ctx, joinTopic(p.prefix, "settings", string(col)), event); err != nil {
			return fmt.Errorf("publish %s: %w", col, err)
		}
	}

	if err := p.pub.PublishRetained(ctx, joinTopic(p.prefix, "settings"), change.Settings); err != nil {
		return fmt.Errorf("publish settings: %w", err)
	}
	return nil
}

// SettingsResponder answers <prefix>/request/settings with the whole aggregate and
// <prefix>/request/settings/<collection> with one collection
func SettingsResponder(load func(ctx context.Context) (*models.GeoBlockingSettings, error), timeout time.Duration) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		topic, _ := payload["_topic"].(string)
		col := models.CollectionAll
		if rest, ok := strings.CutPrefix(topic, "settings/"); ok {
			col = models.Collection(rest)
		} else if topic != "settings" {
			return nil, fmt.Errorf("unknown request topic %q", topic)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return models.CollectionData(s, col)
	}
}
