package recordstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/platform/crypto"
	"workflowpro/internal/platform/events"
	"workflowpro/internal/platform/metrics"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []events.Change
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, c events.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return p.err
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	store, err := New(backend, opts...)
	require.NoError(t, err)
	return store, backend
}

func TestDefaultSeedCoversEveryCollection(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)
	for _, key := range Collections {
		_, ok := seed[key]
		assert.True(t, ok, "seed missing %s", key)
	}
}

func TestLoadSeedsOnce(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	var employees []map[string]any
	ok, err := store.Load(ctx, KeyEmployees, &employees)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, employees, 3)
	assert.Equal(t, "Sarah Jenkins", employees[0]["name"])

	flag, ok, err := backend.Get(ctx, KeyInitialized)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", flag)

	require.NoError(t, store.Save(ctx, KeyEmployees, []item{{ID: "x", Name: "Only"}}))

	var again []item
	_, err = store.Load(ctx, KeyEmployees, &again)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "x", Name: "Only"}}, again)
}

func TestLoadMissingKeyLeavesOutputUntouched(t *testing.T) {
	store, _ := newTestStore(t, WithSeed(nil))

	out := []item{{ID: "keep"}}
	ok, err := store.Load(context.Background(), KeyAttendanceSession, &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []item{{ID: "keep"}}, out)
}

func TestEmptySeedStillMarksInitialized(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, WithSeed(nil))

	var tasks []item
	ok, err := store.Load(ctx, KeyTasks, &tasks)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, tasks)

	initialized, err := store.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestLoadMalformedValueFails(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t, WithSeed(nil))
	require.NoError(t, backend.Set(ctx, KeyInitialized, "true"))
	require.NoError(t, backend.Set(ctx, KeyTasks, "{not json"))

	var tasks []item
	_, err := store.Load(ctx, KeyTasks, &tasks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyTasks)
}

func TestRemoveAndReset(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	require.NoError(t, store.Save(ctx, KeyAttendanceSession, map[string]string{"status": "Active"}))
	require.NoError(t, store.Remove(ctx, KeyAttendanceSession))
	_, ok, err := backend.Get(ctx, KeyAttendanceSession)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Reset(ctx))
	initialized, err := store.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, initialized)
	_, ok, err = backend.Get(ctx, KeyEmployees)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSealedKeysAreEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	sealer, err := crypto.New(testKey)
	require.NoError(t, err)
	store, backend := newTestStore(t, WithSeed(nil), WithSealer(sealer))

	rows := []item{{ID: "p1", Name: "payslip"}}
	for _, key := range []string{KeyPayroll, KeyAccounts, KeyIdempotency} {
		require.NoError(t, store.Save(ctx, key, rows))
		raw, _, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(raw, crypto.SealedPrefix), key)
		assert.NotContains(t, raw, "payslip", key)
	}
	require.NoError(t, store.Save(ctx, KeyTasks, rows))

	plain, _, err := backend.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.Contains(t, plain, "payslip")

	var back []item
	ok, err := store.Load(ctx, KeyPayroll, &back)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows, back)
}

func TestSealerReadsPlainValues(t *testing.T) {
	ctx := context.Background()
	sealer, err := crypto.New(testKey)
	require.NoError(t, err)
	store, backend := newTestStore(t, WithSeed(nil), WithSealer(sealer))
	require.NoError(t, backend.Set(ctx, KeyInitialized, "true"))
	require.NoError(t, backend.Set(ctx, KeyPayroll, `[{"id":"p1","name":"plain"}]`))

	var rows []item
	_, err = store.Load(ctx, KeyPayroll, &rows)
	require.NoError(t, err)
	assert.Equal(t, "plain", rows[0].Name)
}

func TestWritesPublishChanges(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	at := time.Date(2023, 10, 24, 9, 0, 0, 0, time.UTC)
	store, _ := newTestStore(t, WithSeed(nil), WithPublisher(pub), WithClock(func() time.Time { return at }))

	require.NoError(t, store.Save(ctx, KeyPosts, []item{}))
	require.NoError(t, store.Remove(ctx, KeyAttendanceSession))

	require.Len(t, pub.changes, 2)
	assert.Equal(t, events.Change{Key: KeyPosts, Op: events.OpSave, At: at}, pub.changes[0])
	assert.Equal(t, events.OpRemove, pub.changes[1].Op)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus down")}
	store, _ := newTestStore(t, WithSeed(nil), WithPublisher(pub))
	require.NoError(t, store.Save(context.Background(), KeyPosts, []item{}))
}

func TestStoreCountsOperations(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	store, _ := newTestStore(t, WithSeed(nil), WithMetrics(m))
	require.NoError(t, store.Save(ctx, KeyPosts, []item{}))

	var posts []item
	_, err := store.Load(ctx, KeyPosts, &posts)
	require.NoError(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "workflowpro_store_operations_total" {
			found = true
			assert.GreaterOrEqual(t, len(f.GetMetric()), 2)
		}
	}
	assert.True(t, found)
}

func TestConcurrentFirstLoadSeedsOnce(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var tasks []item
			_, err := store.Load(ctx, KeyTasks, &tasks)
			assert.NoError(t, err)
			assert.Len(t, tasks, 4)
		}()
	}
	wg.Wait()
}

func TestSQLiteBackendPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "workflowpro.db")

	backend, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	store, err := New(backend)
	require.NoError(t, err)

	var tasks []item
	_, err = store.Load(ctx, KeyTasks, &tasks)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, KeyTasks, append(tasks, item{ID: "t9", Name: "new"})))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	store, err = New(reopened)
	require.NoError(t, err)

	var again []item
	_, err = store.Load(ctx, KeyTasks, &again)
	require.NoError(t, err)
	require.Len(t, again, 5)
	assert.Equal(t, "t9", again[4].ID)
	require.NoError(t, store.Ping(ctx))
}

func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	backend, err := OpenPostgres(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	require.NoError(t, backend.Set(ctx, "test_key", "one"))
	require.NoError(t, backend.Set(ctx, "test_key", "two"))
	value, ok, err := backend.Get(ctx, "test_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", value)
	require.NoError(t, backend.Delete(ctx, "test_key"))
	_, ok, err = backend.Get(ctx, "test_key")
	require.NoError(t, err)
	assert.False(t, ok)
}
