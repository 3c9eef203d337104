// Package recordstore keeps the workspace state as named values serialized to
// JSON text under fixed keys. Collections are stored whole: every write
// replaces the previous value, and the last write wins.
package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"workflowpro/internal/platform/crypto"
	"workflowpro/internal/platform/events"
	"workflowpro/internal/platform/metrics"
)

type Store struct {
	backend   Backend
	seed      Seed
	seedSet   bool
	sealer    *crypto.Sealer
	sealed    map[string]bool
	publisher events.Publisher
	metrics   *metrics.Collector
	now       func() time.Time

	seedMu sync.Mutex
}

type Option func(*Store)

// WithSeed replaces the built-in dataset. A nil seed marks the store
// initialized without writing any collection.
func WithSeed(seed Seed) Option {
	return func(s *Store) {
		s.seed = seed
		s.seedSet = true
	}
}

// WithSealer encrypts the given keys at rest, or SensitiveKeys when none are
// named.
func WithSealer(sealer *crypto.Sealer, keys ...string) Option {
	return func(s *Store) {
		s.sealer = sealer
		if len(keys) == 0 {
			keys = SensitiveKeys
		}
		for _, k := range keys {
			s.sealed[k] = true
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *Store) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps backend. Without WithSeed the embedded demo dataset is used.
func New(backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		sealed:  map[string]bool{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.seedSet {
		seed, err := DefaultSeed()
		if err != nil {
			return nil, err
		}
		s.seed = seed
	}
	return s, nil
}

// Load decodes the value stored under key into out. A missing key reports
// false and leaves out untouched. The first Load on an uninitialized store
// writes the seed dataset.
func (s *Store) Load(ctx context.Context, key string, out any) (bool, error) {
	if err := s.EnsureSeeded(ctx); err != nil {
		return false, err
	}
	s.metrics.StoreOp("load", key)
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	text, err := s.sealer.Open(raw)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save serializes value and overwrites whatever key held.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.put(ctx, key, string(data)); err != nil {
		return err
	}
	s.metrics.StoreOp(events.OpSave, key)
	s.publish(ctx, key, events.OpSave)
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	s.metrics.StoreOp(events.OpRemove, key)
	s.publish(ctx, key, events.OpRemove)
	return nil
}

// Initialized reports whether the seed step has run.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	_, ok, err := s.backend.Get(ctx, KeyInitialized)
	return ok, err
}

// EnsureSeeded writes the seed dataset once, when the initialization flag is
// absent.
func (s *Store) EnsureSeeded(ctx context.Context) error {
	if ok, err := s.Initialized(ctx); err != nil || ok {
		return err
	}
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	ok, err := s.Initialized(ctx)
	if err != nil || ok {
		return err
	}
	for _, key := range allKeys() {
		value, present := s.seed[key]
		if !present {
			continue
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode seed %s: %w", key, err)
		}
		if err := s.put(ctx, key, string(data)); err != nil {
			return err
		}
	}
	if err := s.backend.Set(ctx, KeyInitialized, "true"); err != nil {
		return fmt.Errorf("mark initialized: %w", err)
	}
	s.metrics.StoreOp("seed", KeyInitialized)
	slog.Info("record store seeded", "keys", len(s.seed))
	return nil
}

// Reset drops every known key including the initialization flag, so the
// next Load seeds again.
func (s *Store) Reset(ctx context.Context) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	for _, key := range allKeys() {
		if err := s.backend.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	s.metrics.StoreOp("reset", KeyInitialized)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) put(ctx context.Context, key, text string) error {
	if s.sealed[key] {
		sealed, err := s.sealer.Seal(text)
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		text = sealed
	}
	if err := s.backend.Set(ctx, key, text); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, key, op string) {
	if s.publisher == nil {
		return
	}
	change := events.Change{Key: key, Op: op, At: s.now().UTC()}
	if err := s.publisher.Publish(ctx, change); err != nil {
		slog.Warn("publish change failed", "key", key, "err", err)
	}
}
