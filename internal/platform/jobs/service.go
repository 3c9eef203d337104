// Package jobs runs background work on a single worker goroutine and keeps
// a run history in the record store.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/metrics"
	"workflowpro/internal/platform/recordstore"
)

const (
	JobPayrollGenerate = "payroll_generate"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	queueSize = 128
	maxRuns   = 200
)

var ErrQueueFull = errors.New("job queue full")

type RunFunc func(context.Context) (any, error)

type Run struct {
	ID          string     `json:"id"`
	JobType     string     `json:"jobType"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Details     any        `json:"details,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      RunFunc
}

type job struct {
	Type string
	Run  RunFunc
}

type Service struct {
	runs      *collection.Collection[Run]
	metrics   *metrics.Collector
	queue     chan job
	schedules []schedule
	now       func() time.Time

	// history writes are read-modify-write on one key
	mu sync.Mutex
}

func New(store collection.Store, m *metrics.Collector) *Service {
	return &Service{
		runs: collection.New(store, recordstore.KeyJobRuns,
			func(r Run) string { return r.ID },
			func(r *Run, id string) { r.ID = id },
		),
		metrics: m,
		queue:   make(chan job, queueSize),
		now:     time.Now,
	}
}

// Every registers run to be enqueued each interval once Start is called.
// Non-positive intervals are ignored.
func (s *Service) Every(interval time.Duration, jobType string, run RunFunc) {
	if interval <= 0 {
		return
	}
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
}

// Start launches the worker and the registered schedules. They stop with ctx.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	for _, sc := range s.schedules {
		go s.scheduleLoop(ctx, sc)
	}
}

func (s *Service) Enqueue(jobType string, run RunFunc) error {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return nil
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return ErrQueueFull
	}
}

// RunNow executes run on the caller's goroutine and records it like a
// queued job.
func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// List returns recorded runs newest first. limit <= 0 returns all.
func (s *Service) List(ctx context.Context, jobType string, limit int) ([]Run, error) {
	runs, err := s.runs.Find(ctx, func(r Run) bool {
		return jobType == "" || r.JobType == jobType
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := s.begin(ctx, j.Type)

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	s.metrics.JobRun(j.Type, status)
	if runID != "" {
		s.finish(ctx, runID, status, details, err)
	}
	return details, err
}

func (s *Service) begin(ctx context.Context, jobType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, err := s.runs.Add(ctx, Run{JobType: jobType, Status: StatusRunning, StartedAt: s.now().UTC()})
	if err != nil {
		slog.Warn("job run insert failed", "jobType", jobType, "err", err)
		return ""
	}
	return run.ID
}

func (s *Service) finish(ctx context.Context, runID, status string, details any, runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	completed := s.now().UTC()
	_, err := s.runs.Mutate(ctx, runID, func(r *Run) error {
		r.Status = status
		r.CompletedAt = &completed
		r.Details = details
		if runErr != nil {
			r.Error = runErr.Error()
		}
		return nil
	})
	if err != nil {
		slog.Warn("job run update failed", "runId", runID, "err", err)
		return
	}
	s.trim(ctx)
}

func (s *Service) trim(ctx context.Context) {
	all, err := s.runs.GetAll(ctx)
	if err != nil || len(all) <= maxRuns {
		return
	}
	if err := s.runs.ReplaceAll(ctx, all[len(all)-maxRuns:]); err != nil {
		slog.Warn("job history trim failed", "err", err)
	}
}

func (s *Service) scheduleLoop(ctx context.Context, sc schedule) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Enqueue(sc.jobType, sc.run)
		}
	}
}
