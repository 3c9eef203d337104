package audit

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

// maxEvents bounds the stored trail; the oldest events are dropped first.
const maxEvents = 1000

type Event struct {
	ID         string          `json:"id"`
	ActorRole  string          `json:"actorRole"`
	ActorID    string          `json:"actorId,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorRole  string
}

func (f Filter) match(e Event) bool {
	return (f.Action == "" || e.Action == f.Action) &&
		(f.EntityType == "" || e.EntityType == f.EntityType) &&
		(f.ActorRole == "" || e.ActorRole == f.ActorRole)
}

type Service struct {
	events *collection.Collection[Event]
	store  collection.Store
	now    func() time.Time
}

func New(store collection.Store) *Service {
	s := &Service{store: store, now: time.Now}
	s.events = collection.New(store, recordstore.KeyAuditEvents,
		func(e Event) string { return e.ID },
		func(e *Event, id string) { e.ID = id },
	).WithPrepare(func(e *Event) {
		e.CreatedAt = s.now().UTC()
	})
	return s
}

// Record appends an event. before and after are stored as JSON snapshots
// when non-nil.
func (s *Service) Record(ctx context.Context, evt Event, before, after any) error {
	if before != nil {
		payload, err := json.Marshal(before)
		if err != nil {
			return err
		}
		evt.Before = payload
	}
	if after != nil {
		payload, err := json.Marshal(after)
		if err != nil {
			return err
		}
		evt.After = payload
	}
	if _, err := s.events.Add(ctx, evt); err != nil {
		return err
	}
	return s.trim(ctx)
}

// List returns matching events newest first, and the total match count.
// Before/After snapshots are only kept when includeDetails is set.
func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, int, error) {
	matches, err := s.events.Find(ctx, filter.match)
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := len(matches)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page := matches[offset:end]
	if !includeDetails {
		for i := range page {
			page[i].Before, page[i].After = nil, nil
		}
	}
	return page, total, nil
}

// Redact drops the Before/After snapshots of matching events and returns how
// many events had any. The events themselves stay in the trail.
func (s *Service) Redact(ctx context.Context, match func(Event) bool) (int, error) {
	all, err := s.events.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	redacted := 0
	for i := range all {
		if !match(all[i]) || (all[i].Before == nil && all[i].After == nil) {
			continue
		}
		all[i].Before, all[i].After = nil, nil
		redacted++
	}
	if redacted == 0 {
		return 0, nil
	}
	return redacted, s.events.ReplaceAll(ctx, all)
}

func (s *Service) trim(ctx context.Context) error {
	all, err := s.events.GetAll(ctx)
	if err != nil || len(all) <= maxEvents {
		return err
	}
	return s.events.ReplaceAll(ctx, all[len(all)-maxEvents:])
}
