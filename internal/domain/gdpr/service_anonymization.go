package gdpr

import (
	"context"
	"log/slog"

	"workflowpro/internal/domain/audit"
	"workflowpro/internal/domain/directory"
)

type AnonymizationResult struct {
	EmployeeID    string `json:"employeeId"`
	LeaveRequests int    `json:"leaveRequests"`
	Posts         int    `json:"posts"`
	Messages      int    `json:"messages"`
	AuditEvents   int    `json:"auditEvents"`
}

// Anonymize scrubs the contact details of a terminated employee, the copies
// of their name and the free text held in leave requests, posts and
// messages, and the record snapshots in audit events about them. Ids, payroll
// figures and task assignments are kept. The steps are separate writes; a
// failure part way leaves the earlier steps applied, and a rerun completes
// the rest.
func (s *Service) Anonymize(ctx context.Context, employeeID string) (AnonymizationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.employee(ctx, employeeID)
	if err != nil {
		return AnonymizationResult{}, err
	}
	if emp.Status != directory.StatusTerminated {
		return AnonymizationResult{}, ErrNotTerminated
	}
	result := AnonymizationResult{EmployeeID: employeeID}

	if _, err := s.employees.Mutate(ctx, employeeID, func(e *directory.Employee) error {
		e.Name = AnonymizedName
		e.Email = AnonymizedEmail(employeeID)
		e.Phone = ""
		e.Avatar = AnonymizedAvatar
		e.Location = ""
		e.Socials = nil
		return nil
	}); err != nil {
		return result, err
	}

	requests, err := s.leave.GetAll(ctx)
	if err != nil {
		return result, err
	}
	requestIDs := make(map[string]bool)
	for i := range requests {
		if requests[i].EmployeeID != employeeID {
			continue
		}
		requestIDs[requests[i].ID] = true
		requests[i].EmployeeName = AnonymizedName
		requests[i].Reason = ""
		result.LeaveRequests++
	}
	if result.LeaveRequests > 0 {
		if err := s.leave.ReplaceAll(ctx, requests); err != nil {
			return result, err
		}
	}

	posts, err := s.posts.GetAll(ctx)
	if err != nil {
		return result, err
	}
	for i := range posts {
		if posts[i].AuthorID != employeeID {
			continue
		}
		posts[i].AuthorName = AnonymizedName
		posts[i].AuthorAvatar = AnonymizedAvatar
		posts[i].Content = RedactedContent
		result.Posts++
	}
	if result.Posts > 0 {
		if err := s.posts.ReplaceAll(ctx, posts); err != nil {
			return result, err
		}
	}

	messages, err := s.messages.GetAll(ctx)
	if err != nil {
		return result, err
	}
	for i := range messages {
		if messages[i].SenderID != employeeID {
			continue
		}
		messages[i].SenderName = AnonymizedName
		messages[i].Avatar = AnonymizedAvatar
		messages[i].Content = RedactedContent
		result.Messages++
	}
	if result.Messages > 0 {
		if err := s.messages.ReplaceAll(ctx, messages); err != nil {
			return result, err
		}
	}

	if s.audit != nil {
		result.AuditEvents, err = s.audit.Redact(ctx, func(e audit.Event) bool {
			return (e.EntityType == "employee" && e.EntityID == employeeID) ||
				(e.EntityType == "leave_request" && requestIDs[e.EntityID])
		})
		if err != nil {
			return result, err
		}
	}

	slog.Info("employee anonymized", "employeeId", employeeID,
		"leaveRequests", result.LeaveRequests, "posts", result.Posts, "messages", result.Messages,
		"auditEvents", result.AuditEvents)
	return result, nil
}
