package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

// Notifier is told about every leave decision.
type Notifier interface {
	LeaveDecided(ctx context.Context, req Request) error
}

type Service struct {
	requests *collection.Collection[Request]
	holidays *collection.Collection[Holiday]
	notifier Notifier
	now      func() time.Time
}

func NewService(store collection.Store, notifier Notifier) *Service {
	s := &Service{notifier: notifier, now: time.Now}
	s.requests = collection.New(store, recordstore.KeyLeave,
		func(r Request) string { return r.ID },
		func(r *Request, id string) { r.ID = id },
	).WithPrepare(func(r *Request) {
		r.Status = StatusPending
		r.CreatedAt = s.now().UTC()
	})
	s.holidays = collection.New(store, recordstore.KeyHolidays,
		func(h Holiday) string { return h.ID },
		func(h *Holiday, id string) { h.ID = id },
	)
	return s
}

func (s *Service) List(ctx context.Context) ([]Request, error) {
	return s.requests.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Request, bool, error) {
	return s.requests.Get(ctx, id)
}

// Submit files a Pending request. The day count is derived from the dates.
func (s *Service) Submit(ctx context.Context, req Request) (Request, error) {
	if !validType(req.Type) {
		return Request{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRequest, req.Type)
	}
	days, err := DaysBetween(req.StartDate, req.EndDate)
	if err != nil {
		return Request{}, err
	}
	req.Days = days
	if strings.TrimSpace(req.EmployeeID) == "" {
		req.EmployeeID, req.EmployeeName = "me", "Me"
	}
	return s.requests.Add(ctx, req)
}

// SetStatus records a decision. Any request may be moved to Approved or
// Rejected, including one that was already decided.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return Request{}, ErrInvalidStatus
	}
	var decided Request
	ok, err := s.requests.Mutate(ctx, id, func(r *Request) error {
		r.Status = status
		decided = *r
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	if s.notifier != nil {
		if err := s.notifier.LeaveDecided(ctx, decided); err != nil {
			slog.Warn("leave decision notification failed", "requestId", id, "err", err)
		}
	}
	return decided, nil
}

func (s *Service) Holidays(ctx context.Context) ([]Holiday, error) {
	return s.holidays.GetAll(ctx)
}

func (s *Service) AddHoliday(ctx context.Context, h Holiday) (Holiday, error) {
	if strings.TrimSpace(h.Name) == "" {
		return Holiday{}, fmt.Errorf("%w: name is required", ErrInvalidHoliday)
	}
	if _, err := time.Parse(time.DateOnly, h.Date); err != nil {
		return Holiday{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidHoliday)
	}
	if h.Type == "" {
		h.Type = HolidayNational
	}
	if h.Type != HolidayNational && h.Type != HolidayObservance {
		return Holiday{}, fmt.Errorf("%w: unknown type %q", ErrInvalidHoliday, h.Type)
	}
	return s.holidays.Add(ctx, h)
}

func (s *Service) DeleteHoliday(ctx context.Context, id string) (bool, error) {
	return s.holidays.Delete(ctx, id)
}
