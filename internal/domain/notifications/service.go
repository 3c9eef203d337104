package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"workflowpro/internal/domain/directory"
	"workflowpro/internal/domain/leave"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Employees resolves an employee for addressing.
type Employees interface {
	Get(ctx context.Context, id string) (directory.Employee, bool, error)
}

type Service struct {
	employees   Employees
	Mailer      Mailer
	DefaultFrom string
	Enabled     bool
}

func New(employees Employees, mailer Mailer, from string, enabled bool) *Service {
	if from == "" {
		from = "no-reply@workflow.pro"
	}
	return &Service{employees: employees, Mailer: mailer, DefaultFrom: from, Enabled: enabled}
}

// LeaveDecided emails the employee about an approved or rejected request.
// Employees without an email address are skipped.
func (s *Service) LeaveDecided(ctx context.Context, req leave.Request) error {
	ntype := TypeLeaveRejected
	if req.Status == leave.StatusApproved {
		ntype = TypeLeaveApproved
	}
	subject := fmt.Sprintf("Your %s leave request was %s", req.Type, req.Status)
	body := fmt.Sprintf("Hello %s,\n\nYour %s leave from %s to %s (%d days) was %s.\n",
		req.EmployeeName, req.Type, req.StartDate, req.EndDate, req.Days, req.Status)
	return s.notify(ctx, req.EmployeeID, ntype, subject, body)
}

func (s *Service) notify(ctx context.Context, employeeID, ntype, subject, body string) error {
	if !s.Enabled || s.Mailer == nil {
		return nil
	}
	employee, ok, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if !ok || employee.Email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, employee.Email, subject, body); err != nil {
		return fmt.Errorf("send %s: %w", ntype, err)
	}
	return nil
}
