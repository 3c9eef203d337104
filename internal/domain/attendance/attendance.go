// Package attendance tracks the single clock-in session of the workspace.
// The session is Clocked-In while a session record is stored and
// Clocked-Out otherwise.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workflowpro/internal/platform/recordstore"
)

const StatusActive = "Active"

var (
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrInvalidLocation  = errors.New("invalid location")
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Session struct {
	StartTime time.Time `json:"startTime"`
	Status    string    `json:"status"`
	Location  *Location `json:"location,omitempty"`
}

// Store is the subset of the record store the session needs.
type Store interface {
	Load(ctx context.Context, key string, out any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Current returns the open session, if any.
func (s *Service) Current(ctx context.Context) (Session, bool, error) {
	var session Session
	ok, err := s.store.Load(ctx, recordstore.KeyAttendanceSession, &session)
	if err != nil || !ok {
		return Session{}, false, err
	}
	return session, true, nil
}

// ClockIn opens a session starting now. loc is optional.
func (s *Service) ClockIn(ctx context.Context, loc *Location) (Session, error) {
	if _, ok, err := s.Current(ctx); err != nil {
		return Session{}, err
	} else if ok {
		return Session{}, ErrAlreadyClockedIn
	}
	if loc != nil && (loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180) {
		return Session{}, fmt.Errorf("%w: %v,%v out of range", ErrInvalidLocation, loc.Lat, loc.Lng)
	}
	session := Session{StartTime: s.now().UTC(), Status: StatusActive, Location: loc}
	if err := s.store.Save(ctx, recordstore.KeyAttendanceSession, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// ClockOut discards the open session and reports whether one existed. The
// worked time is not archived.
func (s *Service) ClockOut(ctx context.Context) (Session, bool, error) {
	session, ok, err := s.Current(ctx)
	if err != nil || !ok {
		return Session{}, false, err
	}
	if err := s.store.Remove(ctx, recordstore.KeyAttendanceSession); err != nil {
		return Session{}, false, err
	}
	return session, true, nil
}

// Elapsed is the time since the session started, never negative.
func Elapsed(session Session, now time.Time) time.Duration {
	d := now.Sub(session.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders d as "00h 00m 00s". Hours are not wrapped at 24.
func FormatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02dh %02dm %02ds", total/3600, (total%3600)/60, total%60)
}
