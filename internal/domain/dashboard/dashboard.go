// Package dashboard aggregates headline numbers for the landing page.
package dashboard

import (
	"context"
	"time"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/domain/leave"
	"workflowpro/internal/domain/payroll"
	"workflowpro/internal/domain/tasks"
	"workflowpro/internal/domain/tickets"
)

const (
	PayrollActive  = "Active"
	PayrollPending = "Pending"
)

type Stats struct {
	Employees         int    `json:"employees"`
	PayrollStatus     string `json:"payrollStatus"`
	OpenTasks         int    `json:"openTasks"`
	PendingLeave      int    `json:"pendingLeave"`
	UnresolvedTickets int    `json:"unresolvedTickets"`
}

type Sources struct {
	Employees interface {
		List(ctx context.Context) ([]directory.Employee, error)
	}
	Tasks interface {
		List(ctx context.Context) ([]tasks.Task, error)
	}
	Leave interface {
		List(ctx context.Context) ([]leave.Request, error)
	}
	Tickets interface {
		List(ctx context.Context) ([]tickets.Ticket, error)
	}
	Payroll interface {
		List(ctx context.Context) ([]payroll.Record, error)
	}
}

type Service struct {
	src Sources
	now func() time.Time
}

func NewService(src Sources) *Service {
	return &Service{src: src, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	employees, err := s.src.Employees.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	taskList, err := s.src.Tasks.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	requests, err := s.src.Leave.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	ticketList, err := s.src.Tickets.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	records, err := s.src.Payroll.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Employees:         len(employees),
		PayrollStatus:     PayrollPending,
		PendingLeave:      leave.CountPending(requests),
		UnresolvedTickets: tickets.Unresolved(ticketList),
	}
	if len(records) > 0 {
		st.PayrollStatus = PayrollActive
	}
	for _, t := range taskList {
		if t.Status != tasks.StatusDone {
			st.OpenTasks++
		}
	}
	return st, nil
}

// ForRole returns the manager view for Admin and HR-Admin, and the personal
// view of employeeID for everyone else.
func (s *Service) ForRole(ctx context.Context, role, employeeID string) (map[string]any, error) {
	taskList, err := s.src.Tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.src.Leave.List(ctx)
	if err != nil {
		return nil, err
	}

	if auth.CanManage(role) {
		records, err := s.src.Payroll.List(ctx)
		if err != nil {
			return nil, err
		}
		reviewTasks, draft := 0, 0
		for _, t := range taskList {
			if t.Status == tasks.StatusInReview {
				reviewTasks++
			}
		}
		for _, r := range records {
			if r.Status == payroll.StatusDraft {
				draft++
			}
		}
		return ManagerDashboard(leave.CountPending(requests), reviewTasks, draft), nil
	}

	assigned, pending := 0, 0
	for _, t := range taskList {
		if t.AssigneeID == employeeID && t.Status != tasks.StatusDone {
			assigned++
		}
	}
	for _, r := range requests {
		if r.EmployeeID == employeeID && r.Status == leave.StatusPending {
			pending++
		}
	}
	balance := leave.Remaining(requests, employeeID, s.now().Year())
	return EmployeeDashboard(balance, assigned, pending), nil
}
