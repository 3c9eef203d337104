package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"workflowpro/internal/domain/assistant"
	"workflowpro/internal/domain/attendance"
	"workflowpro/internal/domain/audit"
	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/chat"
	"workflowpro/internal/domain/dashboard"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/domain/feed"
	"workflowpro/internal/domain/gdpr"
	"workflowpro/internal/domain/invoices"
	"workflowpro/internal/domain/leave"
	"workflowpro/internal/domain/meetings"
	"workflowpro/internal/domain/notifications"
	"workflowpro/internal/domain/payroll"
	"workflowpro/internal/domain/tasks"
	"workflowpro/internal/domain/tickets"
	"workflowpro/internal/platform/blob"
	"workflowpro/internal/platform/config"
	"workflowpro/internal/platform/crypto"
	"workflowpro/internal/platform/email"
	"workflowpro/internal/platform/events"
	"workflowpro/internal/platform/jobs"
	"workflowpro/internal/platform/metrics"
	"workflowpro/internal/platform/recordstore"
	attendancehandler "workflowpro/internal/transport/http/handlers/attendance"
	audithandler "workflowpro/internal/transport/http/handlers/audit"
	authhandler "workflowpro/internal/transport/http/handlers/auth"
	chathandler "workflowpro/internal/transport/http/handlers/chat"
	employeeshandler "workflowpro/internal/transport/http/handlers/employees"
	eventshandler "workflowpro/internal/transport/http/handlers/events"
	feedhandler "workflowpro/internal/transport/http/handlers/feed"
	gdprhandler "workflowpro/internal/transport/http/handlers/gdpr"
	insightshandler "workflowpro/internal/transport/http/handlers/insights"
	invoiceshandler "workflowpro/internal/transport/http/handlers/invoices"
	jobshandler "workflowpro/internal/transport/http/handlers/jobs"
	leavehandler "workflowpro/internal/transport/http/handlers/leave"
	meetingshandler "workflowpro/internal/transport/http/handlers/meetings"
	payrollhandler "workflowpro/internal/transport/http/handlers/payroll"
	taskshandler "workflowpro/internal/transport/http/handlers/tasks"
	ticketshandler "workflowpro/internal/transport/http/handlers/tickets"
	"workflowpro/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired services behind the HTTP router.
type App struct {
	Config  config.Config
	Store   *recordstore.Store
	Bus     events.Bus
	Metrics *metrics.Collector
	Jobs    *jobs.Service
	Auth    *auth.Service
	Payroll *payroll.Service
	Router  http.Handler
}

// OpenBackend opens the storage backend the config selects.
func OpenBackend(ctx context.Context, cfg config.Config) (recordstore.Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return recordstore.NewMemoryBackend(), nil
	case config.BackendSQLite:
		return recordstore.OpenSQLite(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return recordstore.OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// OpenStore opens the backend and wraps it with the sealer when an
// encryption key is configured.
func OpenStore(ctx context.Context, cfg config.Config, opts ...recordstore.Option) (*recordstore.Store, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.DataEncryptionKey != "" {
		sealer, err := crypto.New(cfg.DataEncryptionKey)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("load encryption key: %w", err)
		}
		opts = append([]recordstore.Option{recordstore.WithSealer(sealer)}, opts...)
	}
	store, err := recordstore.New(backend, opts...)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return store, nil
}

func openBus(cfg config.Config) (events.Bus, error) {
	if cfg.NATSURL == "" {
		return events.NewBroker(), nil
	}
	bus, err := events.NewNATSBus(cfg.NATSURL, cfg.NATSSubjectPrefix)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return bus, nil
}

// New builds every service from cfg. The store is seeded on first use.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	bus, err := openBus(cfg)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg, recordstore.WithPublisher(bus), recordstore.WithMetrics(collector))
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	if err := store.EnsureSeeded(ctx); err != nil {
		_ = store.Close()
		_ = bus.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}

	attachments, err := blob.New(ctx, blob.Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		_ = store.Close()
		_ = bus.Close()
		return nil, err
	}

	flow := tasks.SimpleFlow
	if cfg.TaskReviewStage {
		flow = tasks.ReviewFlow
	}

	authSvc := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL, cfg.DefaultRole)
	employeeSvc := directory.NewService(store)
	taskSvc := tasks.NewService(store, flow)
	ticketSvc := tickets.NewService(store)
	chatSvc := chat.NewService(store, attachments)
	feedSvc := feed.NewService(store, employeeSvc)
	meetingSvc := meetings.NewService(store)
	invoiceSvc := invoices.NewService(store)
	payrollSvc := payroll.NewService(store, employeeSvc)
	notifier := notifications.New(employeeSvc, email.New(cfg), cfg.EmailFrom, cfg.EmailEnabled)
	leaveSvc := leave.NewService(store, notifier)
	attendanceSvc := attendance.NewService(store)
	auditSvc := audit.New(store)
	privacySvc := gdpr.NewService(store, auditSvc)
	jobSvc := jobs.New(store, collector)
	dashSvc := dashboard.NewService(dashboard.Sources{
		Employees: employeeSvc,
		Tasks:     taskSvc,
		Leave:     leaveSvc,
		Tickets:   ticketSvc,
		Payroll:   payrollSvc,
	})
	assistSvc := assistant.NewService(employeeSvc, taskSvc, leaveSvc)

	jobSvc.Every(cfg.PayrollScheduleInterval, jobs.JobPayrollGenerate, payrollhandler.GenerateJob(payrollSvc))

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if _, err := authSvc.EnsureAccount(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleAdmin, ""); err != nil {
			_ = store.Close()
			_ = bus.Close()
			return nil, fmt.Errorf("seed admin account: %w", err)
		}
	}

	idem := middleware.NewIdempotencyStore(store)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authSvc, employeeSvc, auditSvc)
		sensitive := middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute)

		r.Group(func(r chi.Router) {
			r.Use(sensitive)
			authHandler.RegisterPublicRoutes(r)
		})

		r.Group(func(r chi.Router) {
			// limits key on the resolved account, so they run after Auth
			r.Use(middleware.Auth(authSvc, cfg.AuthRequired))
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
			r.Use(sensitive)

			authHandler.RegisterRoutes(r)
			employeeshandler.NewHandler(employeeSvc, auditSvc).RegisterRoutes(r)
			taskshandler.NewHandler(taskSvc, auditSvc).RegisterRoutes(r)
			ticketshandler.NewHandler(ticketSvc).RegisterRoutes(r)
			chathandler.NewHandler(chatSvc).RegisterRoutes(r)
			attendancehandler.NewHandler(attendanceSvc, auditSvc).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollSvc, employeeSvc, jobSvc, idem, auditSvc).RegisterRoutes(r)
			leavehandler.NewHandler(leaveSvc, auditSvc).RegisterRoutes(r)
			invoiceshandler.NewHandler(invoiceSvc, auditSvc).RegisterRoutes(r)
			meetingshandler.NewHandler(meetingSvc, auditSvc).RegisterRoutes(r)
			feedhandler.NewHandler(feedSvc).RegisterRoutes(r)
			insightshandler.NewHandler(dashSvc, assistSvc).RegisterRoutes(r)
			eventshandler.NewHandler(bus).RegisterRoutes(r)
			audithandler.NewHandler(auditSvc).RegisterRoutes(r)
			gdprhandler.NewHandler(privacySvc, auditSvc).RegisterRoutes(r)
			jobshandler.NewHandler(jobSvc).RegisterRoutes(r)
		})
	})

	return &App{
		Config:  cfg,
		Store:   store,
		Bus:     bus,
		Metrics: collector,
		Jobs:    jobSvc,
		Auth:    authSvc,
		Payroll: payrollSvc,
		Router:  router,
	}, nil
}

// Run starts the job worker and serves HTTP until ctx is cancelled, then
// drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts end with ctx so event streams close on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("workflowpro server listening", "addr", a.Config.Addr, "backend", a.Config.StoreBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	return errors.Join(a.Bus.Close(), a.Store.Close())
}
