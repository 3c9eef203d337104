// Package gdpr gathers and scrubs the personal data held about one employee
// across the workspace collections.
package gdpr

import (
	"context"
	"sync"

	"workflowpro/internal/domain/audit"
	"workflowpro/internal/domain/chat"
	"workflowpro/internal/domain/collection"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/domain/feed"
	"workflowpro/internal/domain/leave"
	"workflowpro/internal/domain/meetings"
	"workflowpro/internal/domain/payroll"
	"workflowpro/internal/domain/tasks"
	"workflowpro/internal/platform/recordstore"
)

// AuditLog is the part of the audit trail that export and anonymization use.
type AuditLog interface {
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, int, error)
	Redact(ctx context.Context, match func(audit.Event) bool) (int, error)
}

type Service struct {
	employees *collection.Collection[directory.Employee]
	leave     *collection.Collection[leave.Request]
	payroll   *collection.Collection[payroll.Record]
	tasks     *collection.Collection[tasks.Task]
	meetings  *collection.Collection[meetings.Meeting]
	posts     *collection.Collection[feed.Post]
	messages  *collection.Collection[chat.Message]
	audit     AuditLog

	// anonymization rewrites several keys in sequence
	mu sync.Mutex
}

func NewService(store collection.Store, auditLog AuditLog) *Service {
	return &Service{
		employees: collection.New(store, recordstore.KeyEmployees,
			func(e directory.Employee) string { return e.ID },
			func(e *directory.Employee, id string) { e.ID = id }),
		leave: collection.New(store, recordstore.KeyLeave,
			func(r leave.Request) string { return r.ID },
			func(r *leave.Request, id string) { r.ID = id }),
		payroll: collection.New(store, recordstore.KeyPayroll,
			func(r payroll.Record) string { return r.ID },
			func(r *payroll.Record, id string) { r.ID = id }),
		tasks: collection.New(store, recordstore.KeyTasks,
			func(t tasks.Task) string { return t.ID },
			func(t *tasks.Task, id string) { t.ID = id }),
		meetings: collection.New(store, recordstore.KeyMeetings,
			func(m meetings.Meeting) string { return m.ID },
			func(m *meetings.Meeting, id string) { m.ID = id }),
		posts: collection.New(store, recordstore.KeyPosts,
			func(p feed.Post) string { return p.ID },
			func(p *feed.Post, id string) { p.ID = id }),
		messages: collection.New(store, recordstore.KeyMessages,
			func(m chat.Message) string { return m.ID },
			func(m *chat.Message, id string) { m.ID = id }),
		audit: auditLog,
	}
}

func (s *Service) employee(ctx context.Context, id string) (directory.Employee, error) {
	emp, ok, err := s.employees.Get(ctx, id)
	if err != nil {
		return directory.Employee{}, err
	}
	if !ok {
		return directory.Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}
