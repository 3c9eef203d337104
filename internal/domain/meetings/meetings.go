// Package meetings schedules meetings and answers attendee availability.
package meetings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

const (
	TypeVideo    = "Video"
	TypeAudio    = "Audio"
	TypeInPerson = "In-Person"
)

const (
	Busy      = "Busy"
	Available = "Available"
	Unknown   = "Unknown"
)

var ErrInvalidMeeting = errors.New("invalid meeting")

type Meeting struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Attendees []string `json:"attendees"`
	Type      string   `json:"type"`
}

// Slot is a proposed time window on one day.
type Slot struct {
	Date      string
	StartTime string
	EndTime   string
}

func (s Slot) complete() bool {
	return s.Date != "" && s.StartTime != "" && s.EndTime != ""
}

type Service struct {
	meetings *collection.Collection[Meeting]
}

func NewService(store collection.Store) *Service {
	return &Service{meetings: collection.New(store, recordstore.KeyMeetings,
		func(m Meeting) string { return m.ID },
		func(m *Meeting, id string) { m.ID = id },
	).WithPrepare(func(m *Meeting) {
		if m.Attendees == nil {
			m.Attendees = []string{}
		}
		if m.Type == "" {
			m.Type = TypeVideo
		}
	})}
}

func (s *Service) List(ctx context.Context) ([]Meeting, error) {
	return s.meetings.GetAll(ctx)
}

func (s *Service) Schedule(ctx context.Context, m Meeting) (Meeting, error) {
	if strings.TrimSpace(m.Title) == "" {
		return Meeting{}, fmt.Errorf("%w: title is required", ErrInvalidMeeting)
	}
	if _, err := time.Parse(time.DateOnly, m.Date); err != nil {
		return Meeting{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidMeeting)
	}
	start, okStart := clockMinutes(m.StartTime)
	end, okEnd := clockMinutes(m.EndTime)
	if !okStart || !okEnd {
		return Meeting{}, fmt.Errorf("%w: times must be HH:MM", ErrInvalidMeeting)
	}
	if start >= end {
		return Meeting{}, fmt.Errorf("%w: end time must be after start time", ErrInvalidMeeting)
	}
	m.StartTime, m.EndTime = formatClock(start), formatClock(end)
	switch m.Type {
	case "", TypeVideo, TypeAudio, TypeInPerson:
	default:
		return Meeting{}, fmt.Errorf("%w: unknown type %q", ErrInvalidMeeting, m.Type)
	}
	return s.meetings.Add(ctx, m)
}

// Overlaps reports whether two HH:MM windows on the same day intersect.
// Windows that only touch do not overlap, and an unreadable time never
// overlaps. "9:00" reads the same as "09:00".
func Overlaps(start1, end1, start2, end2 string) bool {
	var mins [4]int
	for i, v := range []string{start1, end1, start2, end2} {
		n, ok := clockMinutes(v)
		if !ok {
			return false
		}
		mins[i] = n
	}
	return mins[0] < mins[3] && mins[2] < mins[1]
}

// clockMinutes reads an HH:MM time as minutes past midnight.
func clockMinutes(v string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Availability returns Busy, Available or Unknown for each employee. An
// incomplete slot yields Unknown for everyone.
func (s *Service) Availability(ctx context.Context, slot Slot, employeeIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(employeeIDs))
	if !slot.complete() {
		for _, id := range employeeIDs {
			out[id] = Unknown
		}
		return out, nil
	}
	list, err := s.meetings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range employeeIDs {
		out[id] = Available
		for _, m := range list {
			if m.Date == slot.Date && attends(m, id) && Overlaps(slot.StartTime, slot.EndTime, m.StartTime, m.EndTime) {
				out[id] = Busy
				break
			}
		}
	}
	return out, nil
}

func attends(m Meeting, employeeID string) bool {
	for _, a := range m.Attendees {
		if a == employeeID {
			return true
		}
	}
	return false
}
