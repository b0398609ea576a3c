package settings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/PancyStudios/GeoGateGo/pkg/storage"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStorage wraps a Memory backend and fails writes while failWrites is set
type flakyStorage struct {
	*storage.Memory
	failWrites atomic.Bool
	writes     atomic.Int32
}

func (f *flakyStorage) Set(ctx context.Context, key string, value []byte) error {
	f.writes.Add(1)
	if f.failWrites.Load() {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *flakyStorage) {
	t.Helper()
	st := &flakyStorage{Memory: storage.NewMemory()}
	return New(st, append([]Option{WithLatency(0)}, opts...)...), st
}

func rawStored(t *testing.T, st storage.Storage) []byte {
	t.Helper()
	raw, ok, err := st.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok, "nothing stored")
	return raw
}

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	store, st := newTestStore(t)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
	assert.Zero(t, st.writes.Load(), "loading defaults must not write")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	s := models.DefaultSettings()
	s.BlockedCountries[3].Blocked = true
	s.TimeRestrictions = append(s.TimeRestrictions, models.TimeRestriction{
		ID:        "night",
		Countries: []string{},
		StartTime: "22:00",
		EndTime:   "06:00",
		Days:      []models.Weekday{models.Saturday, models.Sunday},
		Timezone:  "UTC",
		Enabled:   false,
	})
	s.BlockMessages[2].Message = "<p>Indisponible</p>"

	_, err := store.Save(ctx, s)
	require.NoError(t, err)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSaveRejectsInvalidAggregateWithoutWriting(t *testing.T) {
	store, st := newTestStore(t)

	s := models.DefaultSettings()
	s.TimeRestrictions[0].StartTime = "25:00"

	_, err := store.Save(context.Background(), s)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Zero(t, st.writes.Load())
}

func TestUpdateReplacesOnlyOneCollection(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	before, err := store.Load(ctx)
	require.NoError(t, err)

	msgs := models.DefaultBlockMessages()
	msgs[0].ShowSocialLinks = false
	after, err := store.UpdateBlockMessages(ctx, msgs)
	require.NoError(t, err)

	assert.Equal(t, msgs, after.BlockMessages)
	assert.Equal(t, before.BlockedCountries, after.BlockedCountries)
	assert.Equal(t, before.TimeRestrictions, after.TimeRestrictions)
	assert.Equal(t, before.AffiliateExceptions, after.AffiliateExceptions)

	countries := models.CountryList()
	countries[0].Blocked = true
	after, err = store.UpdateBlockedCountries(ctx, countries)
	require.NoError(t, err)
	assert.Equal(t, 1, after.BlockedCount())
	assert.False(t, after.BlockMessages[0].ShowSocialLinks, "earlier update must survive")
}

func TestWriteFailureKeepsLastCommit(t *testing.T) {
	ctx := context.Background()
	store, st := newTestStore(t)

	var notified atomic.Int32
	store.Subscribe("counter", ListenerFunc(func(context.Context, models.SettingsChange) error {
		notified.Add(1)
		return nil
	}))

	first := models.DefaultAffiliateExceptions()
	first[0].Enabled = false
	_, err := store.UpdateAffiliateExceptions(ctx, first)
	require.NoError(t, err)
	committed := rawStored(t, st)

	st.failWrites.Store(true)
	second := models.DefaultAffiliateExceptions()
	second[0].Countries = []string{"DE"}
	_, err = store.UpdateAffiliateExceptions(ctx, second)
	require.ErrorIs(t, err, ErrStorage)

	assert.Equal(t, committed, rawStored(t, st))
	assert.EqualValues(t, 1, notified.Load(), "failed writes must not notify")

	st.failWrites.Store(false)
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got.AffiliateExceptions)
}

func TestReadFailureIsReported(t *testing.T) {
	store := New(failingReads{}, WithLatency(0))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrStorage)

	_, err = store.UpdateBlockMessages(context.Background(), models.DefaultBlockMessages())
	assert.ErrorIs(t, err, ErrStorage)
}

type failingReads struct{}

func (failingReads) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingReads) Set(context.Context, string, []byte) error { return nil }

func TestListenersReceiveEveryChange(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var got []models.Collection
	record := ListenerFunc(func(_ context.Context, c models.SettingsChange) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c.Collection)
		return nil
	})
	failing := ListenerFunc(func(context.Context, models.SettingsChange) error {
		return errors.New("broker down")
	})
	panicking := ListenerFunc(func(context.Context, models.SettingsChange) error {
		panic("boom")
	})

	store, _ := newTestStore(t, WithListener("failing", failing), WithListener("panicking", panicking))
	store.Subscribe("record", record)

	_, err := store.UpdateTimeRestrictions(ctx, models.DefaultTimeRestrictions())
	require.NoError(t, err, "listener failures must not fail the write")
	_, err = store.Save(ctx, models.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []models.Collection{models.CollectionTimeRestrictions, models.CollectionAll}, got)
}

func TestListenerGetsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	store.Subscribe("mutator", ListenerFunc(func(_ context.Context, c models.SettingsChange) error {
		c.Settings.BlockMessages[0].Message = "tampered"
		return nil
	}))

	saved, err := store.UpdateBlockMessages(ctx, models.DefaultBlockMessages())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBlockMessageText, saved.BlockMessages[0].Message)
}

func TestSlowListenerDoesNotBlockLoad(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	store.Subscribe("slow", ListenerFunc(func(context.Context, models.SettingsChange) error {
		close(entered)
		<-release
		return nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := store.UpdateBlockMessages(ctx, models.DefaultBlockMessages())
		done <- err
	}()
	<-entered

	loadCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err := store.Load(loadCtx)
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestListenersSeeCommitOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var mu sync.Mutex
	var seen []int
	store.Subscribe("order", ListenerFunc(func(_ context.Context, c models.SettingsChange) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, c.Settings.BlockedCount())
		return nil
	}))

	var wg sync.WaitGroup
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateBlockedCountries(ctx, blockFirst(i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, seen, 5)
	assert.Equal(t, got.BlockedCount(), seen[len(seen)-1])
}

func blockFirst(n int) []models.Country {
	list := models.CountryList()
	for i := 0; i < n; i++ {
		list[i].Blocked = true
	}
	return list
}

func TestLatencyHonoursCancellation(t *testing.T) {
	store, st := newTestStore(t, WithLatency(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := store.UpdateBlockMessages(ctx, models.DefaultBlockMessages())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, st.writes.Load())
}

func TestLatencyIsPaid(t *testing.T) {
	store, _ := newTestStore(t, WithLatency(30*time.Millisecond))

	start := time.Now()
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestAsync(t *testing.T) {
	store, _ := newTestStore(t, WithLatency(10*time.Millisecond))

	ch := Async(context.Background(), store.Load)
	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		assert.Len(t, res.Settings.BlockMessages, len(models.Languages))
	case <-time.After(2 * time.Second):
		t.Fatal("Async result never arrived")
	}
}

func TestConcurrentUpdatesDoNotLoseCollections(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	countries := models.CountryList()
	countries[1].Blocked = true
	msgs := models.DefaultBlockMessages()
	msgs[1].Message = "Nicht verfügbar"

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := store.UpdateBlockedCountries(ctx, countries)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := store.UpdateBlockMessages(ctx, msgs)
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.BlockedCount())
	assert.Equal(t, "Nicht verfügbar", got.BlockMessages[1].Message)
}

func TestLoadRewritesLegacyDocument(t *testing.T) {
	ctx := context.Background()
	store, st := newTestStore(t)

	require.NoError(t, st.Memory.Set(ctx, DefaultKey, legacyDocumentJSON(t)))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"RU"}, got.TimeRestrictions[0].Countries)

	rewritten := Decode(rawStored(t, st))
	assert.Equal(t, OutcomeCurrent, rewritten.Outcome)
	assert.Equal(t, got, rewritten.Settings)
}

func TestLoadCorruptFallsBackWithoutOverwriting(t *testing.T) {
	ctx := context.Background()
	store, st := newTestStore(t)

	require.NoError(t, st.Memory.Set(ctx, DefaultKey, []byte("{not json")))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
	assert.Equal(t, "{not json", string(rawStored(t, st)))
}

// legacyDocumentJSON renders the defaults with singular country fields and no affiliate list
func legacyDocumentJSON(t *testing.T) []byte {
	t.Helper()
	raw, err := Encode(models.DefaultSettings())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	restrictions := doc["timeRestrictions"].([]any)
	first := restrictions[0].(map[string]any)
	delete(first, "countries")
	first["country"] = "RU"

	second := map[string]any{}
	for k, v := range first {
		second[k] = v
	}
	second["id"] = "2"
	second["country"] = ""
	doc["timeRestrictions"] = append(restrictions, second)

	delete(doc, "affiliateExceptions")

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return out
}
