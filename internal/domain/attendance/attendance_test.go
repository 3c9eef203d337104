package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/platform/recordstore"
)

func newService(t *testing.T, now time.Time) *Service {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend(), recordstore.WithSeed(nil))
	require.NoError(t, err)
	svc := NewService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestClockInOutCycle(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2023, 10, 24, 9, 0, 0, 0, time.UTC)
	svc := newService(t, start)

	_, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	session, err := svc.ClockIn(ctx, &Location{Lat: 37.77, Lng: -122.41})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, session.Status)
	assert.Equal(t, start, session.StartTime)

	current, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, current.Location)
	assert.Equal(t, 37.77, current.Location.Lat)

	_, err = svc.ClockIn(ctx, nil)
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)

	closed, ok, err := svc.ClockOut(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, start, closed.StartTime)

	_, ok, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClockOutWhenClockedOutIsNoop(t *testing.T) {
	_, ok, err := newService(t, time.Now()).ClockOut(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClockInRejectsBadLocation(t *testing.T) {
	_, err := newService(t, time.Now()).ClockIn(context.Background(), &Location{Lat: 91})
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestElapsedAndFormat(t *testing.T) {
	start := time.Date(2023, 10, 24, 9, 0, 0, 0, time.UTC)
	session := Session{StartTime: start, Status: StatusActive}

	d := Elapsed(session, start.Add(2*time.Hour+5*time.Minute+9*time.Second))
	assert.Equal(t, "02h 05m 09s", FormatElapsed(d))
	assert.Equal(t, "00h 00m 00s", FormatElapsed(Elapsed(session, start.Add(-time.Minute))))
	assert.Equal(t, "26h 00m 00s", FormatElapsed(26*time.Hour))
}
