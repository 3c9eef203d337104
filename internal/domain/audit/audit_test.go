package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/platform/recordstore"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend(), recordstore.WithSeed(nil))
	require.NoError(t, err)
	return New(store)
}

func TestRecordAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	base := time.Date(2023, 10, 24, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	require.NoError(t, svc.Record(ctx, Event{ActorRole: "Admin", Action: "task.create", EntityType: "task", EntityID: "t9"}, nil, map[string]string{"title": "x"}))
	require.NoError(t, svc.Record(ctx, Event{ActorRole: "HR-Admin", Action: "leave.approve", EntityType: "leave", EntityID: "l1"}, map[string]string{"status": "Pending"}, map[string]string{"status": "Approved"}))
	require.NoError(t, svc.Record(ctx, Event{ActorRole: "Admin", Action: "task.delete", EntityType: "task", EntityID: "t9"}, nil, nil))

	events, total, err := svc.List(ctx, Filter{}, false, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "task.delete", events[0].Action)
	assert.Nil(t, events[2].After)

	tasksOnly, total, err := svc.List(ctx, Filter{EntityType: "task"}, true, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, tasksOnly, 1)
	assert.Equal(t, "task.create", tasksOnly[0].Action)
	assert.JSONEq(t, `{"title":"x"}`, string(tasksOnly[0].After))
}

func TestListOffsetPastEnd(t *testing.T) {
	svc := newService(t)
	events, total, err := svc.List(context.Background(), Filter{}, false, 10, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, events)
}

func TestRedactClearsSnapshotsOnly(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, svc.Record(ctx, Event{Action: "employee.update", EntityType: "employee", EntityID: "2"}, map[string]string{"phone": "555"}, map[string]string{"phone": "556"}))
	require.NoError(t, svc.Record(ctx, Event{Action: "employee.delete", EntityType: "employee", EntityID: "2"}, nil, nil))
	require.NoError(t, svc.Record(ctx, Event{Action: "employee.update", EntityType: "employee", EntityID: "3"}, nil, map[string]string{"phone": "777"}))

	n, err := svc.Redact(ctx, func(e Event) bool { return e.EntityID == "2" })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	events, total, err := svc.List(ctx, Filter{}, true, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, e := range events {
		if e.EntityID == "2" {
			assert.Nil(t, e.Before)
			assert.Nil(t, e.After)
		} else {
			assert.JSONEq(t, `{"phone":"777"}`, string(e.After))
		}
	}

	n, err = svc.Redact(ctx, func(e Event) bool { return e.EntityID == "2" })
	require.NoError(t, err)
	assert.Zero(t, n)
}
