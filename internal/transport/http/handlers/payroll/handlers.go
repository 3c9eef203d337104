package payrollhandler

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/domain/payroll"
	"workflowpro/internal/platform/jobs"
	"workflowpro/internal/transport/http/api"
	"workflowpro/internal/transport/http/middleware"
	"workflowpro/internal/transport/http/shared"
)

const idempotencyEndpoint = "payroll.generate"

type Employees interface {
	Get(ctx context.Context, id string) (directory.Employee, bool, error)
}

type Handler struct {
	Service     *payroll.Service
	Employees   Employees
	Jobs        *jobs.Service
	Idempotency *middleware.IdempotencyStore
	Audit       shared.Auditor
}

func NewHandler(service *payroll.Service, employees Employees, jobSvc *jobs.Service, idem *middleware.IdempotencyStore, auditor shared.Auditor) *Handler {
	return &Handler{Service: service, Employees: employees, Jobs: jobSvc, Idempotency: idem, Audit: auditor}
}

type generateResponse struct {
	Queued    bool             `json:"queued"`
	Generated int              `json:"generated"`
	Records   []payroll.Record `json:"records,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.ResourcePayroll, auth.ActionRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.ResourcePayroll, auth.ActionRun)).Post("/generate", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.ResourcePayroll, auth.ActionRead)).Get("/{recordID}/payslip", h.handlePayslip)
		r.With(middleware.RequirePermission(auth.ResourcePayroll, auth.ActionApprove)).Put("/{recordID}/status", h.handleSetStatus)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Service.Lines(r.Context())
	if err != nil {
		shared.FailError(w, r, err, "payroll_list_failed", "failed to list payroll")
		return
	}
	api.Success(w, lines, middleware.GetRequestID(r.Context()))
}

// GenerateJob wraps a batch run for the jobs service.
func GenerateJob(service *payroll.Service) jobs.RunFunc {
	return func(ctx context.Context) (any, error) {
		records, err := service.Generate(ctx)
		return map[string]int{"generated": len(records)}, err
	}
}

// handleGenerate runs a batch synchronously, or queues it with ?async=true.
// A repeated Idempotency-Key replays the first response.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	async := r.URL.Query().Get("async") == "true"
	actor := middleware.Actor(r.Context())
	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash([]byte(fmt.Sprintf("async=%t", async)))
	if idempotencyKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), actor, idempotencyEndpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			shared.FailError(w, r, err, "payroll_generate_failed", "failed to generate payroll")
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			status := cmp.Or(stored.Status, http.StatusOK)
			api.WriteJSON(w, status, api.Envelope{Success: true, Data: stored.Data, RequestID: requestID})
			return
		}
	}

	var resp generateResponse
	if async {
		if err := h.Jobs.Enqueue(jobs.JobPayrollGenerate, GenerateJob(h.Service)); err != nil {
			shared.FailError(w, r, err, "payroll_generate_failed", "failed to queue payroll")
			return
		}
		resp.Queued = true
	} else {
		var records []payroll.Record
		_, err := h.Jobs.RunNow(r.Context(), jobs.JobPayrollGenerate, func(ctx context.Context) (any, error) {
			var runErr error
			records, runErr = h.Service.Generate(ctx)
			return map[string]int{"generated": len(records)}, runErr
		})
		if err != nil {
			shared.FailError(w, r, err, "payroll_generate_failed", "failed to generate payroll")
			return
		}
		resp.Generated = len(records)
		resp.Records = records
	}
	shared.Audit(r, h.Audit, "payroll.generate", "payroll_batch", "", nil, map[string]any{"queued": resp.Queued, "generated": resp.Generated})

	status := http.StatusCreated
	if async {
		status = http.StatusAccepted
	}
	if idempotencyKey != "" {
		payload, err := json.Marshal(resp)
		if err == nil {
			err = h.Idempotency.Save(r.Context(), actor, idempotencyEndpoint, idempotencyKey, requestHash,
				middleware.Replay{Status: status, Data: payload})
		}
		if err != nil {
			slog.Warn("idempotency save failed", "err", err)
		}
	}
	if async {
		api.Accepted(w, resp, requestID)
		return
	}
	api.Created(w, resp, requestID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	record, ok, err := h.Service.Get(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		shared.FailError(w, r, err, "payslip_failed", "failed to load payroll record")
		return
	}
	if !ok {
		shared.NotFound(w, r, "payroll record")
		return
	}
	var employee *directory.Employee
	if emp, found, err := h.Employees.Get(r.Context(), record.EmployeeID); err != nil {
		shared.FailError(w, r, err, "payslip_failed", "failed to load employee")
		return
	} else if found {
		employee = &emp
	}

	var buf bytes.Buffer
	if err := payroll.RenderPayslip(&buf, record, employee); err != nil {
		shared.FailError(w, r, err, "payslip_failed", "failed to render payslip")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", record.ID))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("payslip write failed", "err", err)
	}
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordID")
	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	before, _, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "payroll_status_failed", "failed to update payroll status")
		return
	}
	if err := h.Service.SetStatus(r.Context(), id, payload.Status); err != nil {
		shared.FailError(w, r, err, "payroll_status_failed", "failed to update payroll status")
		return
	}
	after, _, err := h.Service.Get(r.Context(), id)
	if err != nil {
		shared.FailError(w, r, err, "payroll_status_failed", "failed to update payroll status")
		return
	}
	shared.Audit(r, h.Audit, "payroll.status", "payroll_record", id,
		map[string]string{"status": before.Status}, map[string]string{"status": after.Status})
	api.Success(w, after, middleware.GetRequestID(r.Context()))
}
