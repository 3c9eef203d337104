package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/platform/recordstore"
)

type widget struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Tags     []string `json:"tags"`
	Optional string   `json:"optional,omitempty"`
}

func newWidgets(t *testing.T) *Collection[widget] {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend(), recordstore.WithSeed(nil))
	require.NoError(t, err)
	return New(store, "db_widgets",
		func(w widget) string { return w.ID },
		func(w *widget, id string) { w.ID = id },
	)
}

func TestGetAllOnMissingKeyIsEmpty(t *testing.T) {
	items, err := newWidgets(t).GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAddAssignsIDAndRunsPrepare(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t).WithPrepare(func(w *widget) { w.Count = 0 })

	added, err := c.Add(ctx, widget{ID: "ignored", Name: "a", Count: 9})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", added.ID)
	assert.Len(t, added.ID, 36)
	assert.Equal(t, 0, added.Count)

	got, ok, err := c.Get(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, added, got)
}

func TestGetUnknownID(t *testing.T) {
	_, ok, err := newWidgets(t).Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	w, err := c.Add(ctx, widget{Name: "a", Count: 1, Tags: []string{"x"}})
	require.NoError(t, err)

	ok, err := c.Update(ctx, w.ID, map[string]any{"count": 5, "id": "hijack"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, ok, err := c.Get(ctx, w.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 5, got.Count)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	_, err := c.Add(ctx, widget{Name: "a"})
	require.NoError(t, err)

	ok, err := c.Update(ctx, "missing", map[string]any{"name": "b"})
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", all[0].Name)
}

func TestUpdateRejectsMistypedField(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	w, err := c.Add(ctx, widget{Name: "a"})
	require.NoError(t, err)

	_, err = c.Update(ctx, w.ID, map[string]any{"count": "many"})
	assert.ErrorIs(t, err, ErrInvalidFields)
}

func TestMutateErrorAbortsWrite(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	w, err := c.Add(ctx, widget{Name: "a"})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = c.Mutate(ctx, w.ID, func(x *widget) error {
		x.Name = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _, err := c.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	a, err := c.Add(ctx, widget{Name: "a"})
	require.NoError(t, err)
	_, err = c.Add(ctx, widget{Name: "b"})
	require.NoError(t, err)

	ok, err := c.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := c.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Name)
}

func TestAddAllAndFind(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	added, err := c.AddAll(ctx, []widget{{Name: "a", Count: 1}, {Name: "b", Count: 2}, {Name: "c", Count: 3}})
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.NotEqual(t, added[0].ID, added[1].ID)

	odd, err := c.Find(ctx, func(w widget) bool { return w.Count%2 == 1 })
	require.NoError(t, err)
	require.Len(t, odd, 2)
	assert.Equal(t, "c", odd[1].Name)
}

func TestGetAllIsStableAcrossReads(t *testing.T) {
	ctx := context.Background()
	c := newWidgets(t)
	for _, name := range []string{"c", "a", "b"} {
		_, err := c.Add(ctx, widget{Name: name, Tags: []string{name}})
		require.NoError(t, err)
	}

	first, err := c.GetAll(ctx)
	require.NoError(t, err)
	second, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// callers own the returned slice
	first[0].Tags[0] = "mutated"
	third, err := c.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, third)
}
