package mqtt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"geogate/request/settings", "geogate/request/settings", true},
		{"geogate/request/settings/#", "geogate/request/settings", true},
		{"geogate/request/settings/#", "geogate/request/settings/blockMessages", true},
		{"geogate/request/+", "geogate/request/settings", true},
		{"geogate/request/+", "geogate/request/settings/x", false},
		{"geogate/request/settings", "geogate/request/other", false},
		{"geogate/request/settings/x", "geogate/request/settings", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, topicMatch(tt.pattern, tt.topic))
		})
	}
}

func TestHandleRequest(t *testing.T) {
	raw, err := json.Marshal(MqttRequest{CorrelationID: "c1", Payload: map[string]interface{}{"a": 1}})
	require.NoError(t, err)

	var seen map[string]interface{}
	resp, ok := handleRequest(raw, "settings", func(p map[string]interface{}) (interface{}, error) {
		seen = p
		return "pong", nil
	})
	require.True(t, ok)
	assert.Equal(t, MqttResponse{CorrelationID: "c1", Data: "pong"}, resp)
	assert.Equal(t, "settings", seen["_topic"])

	resp, ok = handleRequest(raw, "settings", func(map[string]interface{}) (interface{}, error) {
		return nil, errors.New("nope")
	})
	require.True(t, ok)
	assert.Equal(t, "nope", resp.Error)

	_, ok = handleRequest([]byte("garbage"), "settings", nil)
	assert.False(t, ok)
}

type recordingPublisher struct {
	topics []string
	err    error
}

func (r *recordingPublisher) PublishRetained(_ context.Context, topic string, payload interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.topics = append(r.topics, topic)
	return nil
}

func TestSettingsPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewSettingsPublisher(pub, "")

	err := p.SettingsChanged(context.Background(), models.SettingsChange{
		Collection: models.CollectionTimeRestrictions,
		Settings:   models.DefaultSettings(),
		At:         time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"geogate/settings/timeRestrictions", "geogate/settings"}, pub.topics)

	pub.topics = nil
	err = p.SettingsChanged(context.Background(), models.SettingsChange{
		Collection: models.CollectionAll,
		Settings:   models.DefaultSettings(),
	})
	require.NoError(t, err)
	assert.Len(t, pub.topics, len(models.Collections)+1)

	pub.err = errors.New("not connected")
	assert.Error(t, p.SettingsChanged(context.Background(), models.SettingsChange{
		Collection: models.CollectionBlockMessages,
		Settings:   models.DefaultSettings(),
	}))
}

func TestSettingsResponder(t *testing.T) {
	load := func(context.Context) (*models.GeoBlockingSettings, error) {
		return models.DefaultSettings(), nil
	}
	respond := SettingsResponder(load, time.Second)

	data, err := respond(map[string]interface{}{"_topic": "settings"})
	require.NoError(t, err)
	assert.IsType(t, &models.GeoBlockingSettings{}, data)

	data, err = respond(map[string]interface{}{"_topic": "settings/blockMessages"})
	require.NoError(t, err)
	assert.Len(t, data, len(models.Languages))

	_, err = respond(map[string]interface{}{"_topic": "settings/unknown"})
	assert.Error(t, err)
	_, err = respond(map[string]interface{}{"_topic": "other"})
	assert.Error(t, err)
}

type pendingToken struct {
	done chan struct{}
	err  error
}

func (p *pendingToken) Wait() bool                       { return false }
func (p *pendingToken) WaitTimeout(d time.Duration) bool { return false }
func (p *pendingToken) Done() <-chan struct{}            { return p.done }
func (p *pendingToken) Error() error                     { return p.err }

func TestWaitToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := waitToken(ctx, &pendingToken{done: make(chan struct{})}, 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	err = waitToken(context.Background(), &pendingToken{done: make(chan struct{})}, 10*time.Millisecond)
	assert.Error(t, err)

	done := make(chan struct{})
	close(done)
	failed := errors.New("not authorized")
	assert.ErrorIs(t, waitToken(context.Background(), &pendingToken{done: done, err: failed}, time.Second), failed)
	assert.NoError(t, waitToken(context.Background(), &pendingToken{done: done}, time.Second))
}
