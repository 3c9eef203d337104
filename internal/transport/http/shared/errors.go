package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"workflowpro/internal/domain/attendance"
	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/chat"
	"workflowpro/internal/domain/collection"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/domain/feed"
	"workflowpro/internal/domain/gdpr"
	"workflowpro/internal/domain/invoices"
	"workflowpro/internal/domain/leave"
	"workflowpro/internal/domain/meetings"
	"workflowpro/internal/domain/payroll"
	"workflowpro/internal/domain/tasks"
	"workflowpro/internal/platform/blob"
	"workflowpro/internal/platform/jobs"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
)

type errorMapping struct {
	status int
	code   string
	errs   []error
}

var errorMappings = []errorMapping{
	{http.StatusNotFound, "not_found", []error{
		tasks.ErrTaskNotFound, payroll.ErrRecordNotFound, leave.ErrRequestNotFound,
		chat.ErrUnknownMessage, feed.ErrPostNotFound, gdpr.ErrEmployeeNotFound,
	}},
	{http.StatusConflict, "employee_not_terminated", []error{gdpr.ErrNotTerminated}},
	{http.StatusConflict, "task_blocked", []error{tasks.ErrBlocked}},
	{http.StatusForbidden, "approval_required", []error{tasks.ErrApprovalRequired}},
	{http.StatusConflict, "already_clocked_in", []error{attendance.ErrAlreadyClockedIn}},
	{http.StatusConflict, "idempotency_conflict", []error{middleware.ErrIdempotencyConflict}},
	{http.StatusUnauthorized, "invalid_credentials", []error{auth.ErrInvalidCredentials}},
	{http.StatusServiceUnavailable, "attachments_disabled", []error{blob.ErrDisabled}},
	{http.StatusServiceUnavailable, "queue_full", []error{jobs.ErrQueueFull}},
	{http.StatusBadRequest, "validation_error", []error{
		collection.ErrInvalidFields, directory.ErrInvalidEmployee, tasks.ErrInvalidTask,
		leave.ErrInvalidRange, leave.ErrInvalidStatus, leave.ErrInvalidRequest, leave.ErrInvalidHoliday,
		payroll.ErrInvalidStatus, meetings.ErrInvalidMeeting, invoices.ErrInvalidInvoice,
		chat.ErrEmptyMessage, chat.ErrNoAttachment, chat.ErrForeignAttachment,
		feed.ErrEmptyPost, feed.ErrInvalidPost, auth.ErrInvalidRole, attendance.ErrInvalidLocation,
	}},
}

// FailError writes the envelope for a domain error. Unrecognised errors are
// logged and reported as 500 with fallbackCode.
func FailError(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	requestID := middleware.GetRequestID(r.Context())
	for _, m := range errorMappings {
		for _, target := range m.errs {
			if errors.Is(err, target) {
				api.Fail(w, m.status, m.code, err.Error(), requestID)
				return
			}
		}
	}
	slog.Error(fallbackMessage, "requestId", requestID, "err", err)
	api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
}

func NotFound(w http.ResponseWriter, r *http.Request, what string) {
	api.Fail(w, http.StatusNotFound, "not_found", what+" not found", middleware.GetRequestID(r.Context()))
}
