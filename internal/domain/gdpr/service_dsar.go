package gdpr

import (
	"context"
	"fmt"
	"slices"

	"workflowpro/internal/domain/audit"
	"workflowpro/internal/domain/chat"
	"workflowpro/internal/domain/feed"
	"workflowpro/internal/domain/leave"
	"workflowpro/internal/domain/meetings"
	"workflowpro/internal/domain/payroll"
	"workflowpro/internal/domain/tasks"
)

// Export collects every record that references the employee. Audit events
// are included only when an audit log is wired.
func (s *Service) Export(ctx context.Context, employeeID string) (map[string]any, error) {
	emp, err := s.employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	leaveRequests, err := s.leave.Find(ctx, func(r leave.Request) bool { return r.EmployeeID == employeeID })
	if err != nil {
		return nil, fmt.Errorf("export leave: %w", err)
	}
	payrollRecords, err := s.payroll.Find(ctx, func(r payroll.Record) bool { return r.EmployeeID == employeeID })
	if err != nil {
		return nil, fmt.Errorf("export payroll: %w", err)
	}
	assigned, err := s.tasks.Find(ctx, func(t tasks.Task) bool { return t.AssigneeID == employeeID })
	if err != nil {
		return nil, fmt.Errorf("export tasks: %w", err)
	}
	attended, err := s.meetings.Find(ctx, func(m meetings.Meeting) bool { return slices.Contains(m.Attendees, employeeID) })
	if err != nil {
		return nil, fmt.Errorf("export meetings: %w", err)
	}
	posts, err := s.posts.Find(ctx, func(p feed.Post) bool { return p.AuthorID == employeeID })
	if err != nil {
		return nil, fmt.Errorf("export posts: %w", err)
	}
	messages, err := s.messages.Find(ctx, func(m chat.Message) bool { return m.SenderID == employeeID })
	if err != nil {
		return nil, fmt.Errorf("export messages: %w", err)
	}

	datasets := map[string]any{
		DatasetLeaveRequests: leaveRequests,
		DatasetPayroll:       payrollRecords,
		DatasetTasks:         assigned,
		DatasetMeetings:      attended,
		DatasetPosts:         posts,
		DatasetMessages:      messages,
	}
	if s.audit != nil {
		events, _, err := s.audit.List(ctx, audit.Filter{EntityType: "employee"}, true, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("export audit: %w", err)
		}
		own := make([]audit.Event, 0)
		for _, evt := range events {
			if evt.EntityID == employeeID {
				own = append(own, evt)
			}
		}
		datasets[DatasetAuditEvents] = own
	}
	return BuildDSARPayload(emp, datasets), nil
}
