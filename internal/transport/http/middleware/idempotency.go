package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

const (
	idempotencyTTL     = 24 * time.Hour
	maxIdempotencyKeys = 500
)

type idempotencyRecord struct {
	ID          string          `json:"id"`
	Actor       string          `json:"actor"`
	Endpoint    string          `json:"endpoint"`
	Key         string          `json:"key"`
	RequestHash string          `json:"requestHash"`
	Status      int             `json:"status"`
	Response    json.RawMessage `json:"response"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Replay is a stored response: the status code and envelope data of the
// first request.
type Replay struct {
	Status int
	Data   json.RawMessage
}

// IdempotencyStore remembers responses to retried mutations by
// (actor, endpoint, key). Entries expire after a day.
type IdempotencyStore struct {
	records *collection.Collection[idempotencyRecord]
	now     func() time.Time
	mu      sync.Mutex
}

func NewIdempotencyStore(store collection.Store) *IdempotencyStore {
	return &IdempotencyStore{
		records: collection.New(store, recordstore.KeyIdempotency,
			func(r idempotencyRecord) string { return r.ID },
			func(r *idempotencyRecord, id string) { r.ID = id },
		),
		now: time.Now,
	}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Check returns the stored response for key. A stored entry with a
// different request hash is a conflict.
func (s *IdempotencyStore) Check(ctx context.Context, actor, endpoint, key, requestHash string) (Replay, bool, error) {
	if s == nil {
		return Replay{}, false, nil
	}
	rec, ok, err := s.find(ctx, actor, endpoint, key)
	if err != nil || !ok {
		return Replay{}, false, err
	}
	if rec.RequestHash != requestHash {
		return Replay{}, false, ErrIdempotencyConflict
	}
	return Replay{Status: rec.Status, Data: rec.Response}, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, actor, endpoint, key, requestHash string, replay Replay) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.records.GetAll(ctx)
	if err != nil {
		return err
	}
	cutoff := s.now().Add(-idempotencyTTL)
	kept := make([]idempotencyRecord, 0, len(all)+1)
	for _, rec := range all {
		if rec.CreatedAt.Before(cutoff) {
			continue
		}
		if rec.Actor == actor && rec.Endpoint == endpoint && rec.Key == key {
			if rec.RequestHash != requestHash {
				return ErrIdempotencyConflict
			}
			continue
		}
		kept = append(kept, rec)
	}
	kept = append(kept, idempotencyRecord{
		ID:          RequestHash([]byte(actor + "\x00" + endpoint + "\x00" + key)),
		Actor:       actor,
		Endpoint:    endpoint,
		Key:         key,
		RequestHash: requestHash,
		Status:      replay.Status,
		Response:    replay.Data,
		CreatedAt:   s.now().UTC(),
	})
	if len(kept) > maxIdempotencyKeys {
		kept = kept[len(kept)-maxIdempotencyKeys:]
	}
	return s.records.ReplaceAll(ctx, kept)
}

func (s *IdempotencyStore) find(ctx context.Context, actor, endpoint, key string) (idempotencyRecord, bool, error) {
	cutoff := s.now().Add(-idempotencyTTL)
	matches, err := s.records.Find(ctx, func(r idempotencyRecord) bool {
		return r.Actor == actor && r.Endpoint == endpoint && r.Key == key && !r.CreatedAt.Before(cutoff)
	})
	if err != nil || len(matches) == 0 {
		return idempotencyRecord{}, false, err
	}
	return matches[0], true, nil
}

// Actor names the caller for idempotency scoping: the account when signed
// in, otherwise the session role.
func Actor(ctx context.Context) string {
	user, ok := GetUser(ctx)
	switch {
	case !ok:
		return "anonymous"
	case user.AccountID != "":
		return "account:" + user.AccountID
	default:
		return "role:" + user.Role
	}
}
