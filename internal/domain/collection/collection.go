// Package collection implements the typed accessors shared by every domain
// area: a collection is one record store key holding a JSON array.
package collection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Store is the subset of the record store a collection needs.
type Store interface {
	Load(ctx context.Context, key string, out any) (bool, error)
	Save(ctx context.Context, key string, value any) error
}

type Collection[T any] struct {
	store   Store
	key     string
	id      func(T) string
	setID   func(*T, string)
	prepare func(*T)
	newID   func() string
}

// New binds a collection to key. id and setID read and assign the record id.
func New[T any](store Store, key string, id func(T) string, setID func(*T, string)) *Collection[T] {
	return &Collection[T]{
		store: store,
		key:   key,
		id:    id,
		setID: setID,
		newID: uuid.NewString,
	}
}

// WithPrepare sets a hook run on every record after Add assigns its id.
func (c *Collection[T]) WithPrepare(fn func(*T)) *Collection[T] {
	c.prepare = fn
	return c
}

func (c *Collection[T]) Key() string { return c.key }

// GetAll returns every record. A missing key reads as an empty collection.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	items := []T{}
	if _, err := c.store.Load(ctx, c.key, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.GetAll(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if c.id(item) == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Find returns the records matching keep, in stored order.
func (c *Collection[T]) Find(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Add assigns a fresh id, applies the prepare hook and appends the record.
func (c *Collection[T]) Add(ctx context.Context, item T) (T, error) {
	added, err := c.AddAll(ctx, []T{item})
	if err != nil {
		var zero T
		return zero, err
	}
	return added[0], nil
}

// AddAll appends a batch with a single write.
func (c *Collection[T]) AddAll(ctx context.Context, batch []T) ([]T, error) {
	items, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	added := make([]T, 0, len(batch))
	for _, item := range batch {
		c.setID(&item, c.newID())
		if c.prepare != nil {
			c.prepare(&item)
		}
		added = append(added, item)
	}
	if err := c.store.Save(ctx, c.key, append(items, added...)); err != nil {
		return nil, err
	}
	return added, nil
}

// Update merges fields into the record with the given id by JSON field name.
// The id itself cannot be changed. An unknown id is a no-op.
func (c *Collection[T]) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	return c.Mutate(ctx, id, func(item *T) error {
		return merge(item, fields)
	})
}

// Mutate applies fn to the record with the given id and saves the
// collection. An unknown id is a no-op; an error from fn aborts the write.
func (c *Collection[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (bool, error) {
	items, err := c.GetAll(ctx)
	if err != nil {
		return false, err
	}
	found := false
	for i := range items {
		if c.id(items[i]) != id {
			continue
		}
		if err := fn(&items[i]); err != nil {
			return false, err
		}
		c.setID(&items[i], id)
		found = true
		break
	}
	if !found {
		return false, nil
	}
	return true, c.store.Save(ctx, c.key, items)
}

// Delete removes the record with the given id. An unknown id is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	items, err := c.GetAll(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if c.id(item) != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, c.store.Save(ctx, c.key, kept)
}

// ReplaceAll overwrites the whole collection.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	return c.store.Save(ctx, c.key, items)
}

func merge[T any](item *T, fields map[string]any) error {
	current, err := json.Marshal(item)
	if err != nil {
		return err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(current, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var next T
	if err := json.Unmarshal(merged, &next); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	*item = next
	return nil
}
