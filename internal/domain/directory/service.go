package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

type Service struct {
	employees *collection.Collection[Employee]
	now       func() time.Time
}

func NewService(store collection.Store) *Service {
	s := &Service{now: time.Now}
	s.employees = collection.New(store, recordstore.KeyEmployees,
		func(e Employee) string { return e.ID },
		func(e *Employee, id string) { e.ID = id },
	).WithPrepare(s.applyDefaults)
	return s
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.employees.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, bool, error) {
	return s.employees.Get(ctx, id)
}

// Add stores a new employee. Missing contact fields get the directory
// defaults: placeholder phone, generated avatar, Active, joined today, Remote.
func (s *Service) Add(ctx context.Context, e Employee) (Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return Employee{}, fmt.Errorf("%w: name is required", ErrInvalidEmployee)
	}
	if e.Status != "" && !ValidStatus(e.Status) {
		return Employee{}, fmt.Errorf("%w: unknown status %q", ErrInvalidEmployee, e.Status)
	}
	return s.employees.Add(ctx, e)
}

// Update merges fields into the employee. An unknown id is a no-op.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if status, ok := fields["status"].(string); ok && !ValidStatus(status) {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidEmployee, status)
	}
	return s.employees.Update(ctx, id, fields)
}

// ByName returns a lookup from a compacted, lower-cased name to the
// employee, the form used by @mentions.
func (s *Service) ByName(ctx context.Context) (map[string]Employee, error) {
	list, err := s.employees.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Employee, len(list))
	for _, e := range list {
		out[MentionHandle(e.Name)] = e
	}
	return out, nil
}

// MentionHandle strips spaces and lower-cases a display name.
func MentionHandle(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

func (s *Service) applyDefaults(e *Employee) {
	if e.Phone == "" {
		e.Phone = defaultPhone
	}
	if e.Avatar == "" {
		e.Avatar = AvatarURL(e.Name)
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if e.JoinedDate == "" {
		e.JoinedDate = s.now().Format(time.DateOnly)
	}
	if e.Location == "" {
		e.Location = defaultLocation
	}
}
