package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/domain/directory"
	"workflowpro/internal/platform/recordstore"
)

type Employees interface {
	List(ctx context.Context) ([]directory.Employee, error)
}

type Service struct {
	records   *collection.Collection[Record]
	employees Employees
	now       func() time.Time
	intn      func(n int) int
}

func NewService(store collection.Store, employees Employees) *Service {
	return &Service{
		records: collection.New(store, recordstore.KeyPayroll,
			func(r Record) string { return r.ID },
			func(r *Record, id string) { r.ID = id },
		),
		employees: employees,
		now:       time.Now,
		intn:      rand.IntN,
	}
}

// WithRand replaces the random source, for reproducible batches.
func (s *Service) WithRand(intn func(n int) int) *Service {
	s.intn = intn
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.records.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Record, bool, error) {
	return s.records.Get(ctx, id)
}

// Lines joins every record with its employee.
func (s *Service) Lines(ctx context.Context) ([]Line, error) {
	records, err := s.records.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]directory.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	lines := make([]Line, 0, len(records))
	for _, r := range records {
		line := Line{Record: r}
		if e, ok := byID[r.EmployeeID]; ok {
			line.Employee = &e
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Generate appends one Draft record per employee for the current month.
// Earlier batches for the same month are kept; running twice yields two
// records per employee.
func (s *Service) Generate(ctx context.Context) ([]Record, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	month := MonthLabel(s.now())
	batch := make([]Record, 0, len(employees))
	for _, e := range employees {
		base := float64(baseSalaryMin + s.intn(baseSalarySpread))
		bonus := float64(s.intn(bonusSpread))
		deductions := float64(deductionsMin + s.intn(deductionsSpread))
		batch = append(batch, Record{
			EmployeeID: e.ID,
			BaseSalary: base,
			Bonus:      bonus,
			Deductions: deductions,
			NetPay:     ComputeNet(base, bonus, deductions),
			Status:     StatusDraft,
			Month:      month,
		})
	}
	added, err := s.records.AddAll(ctx, batch)
	if err != nil {
		return nil, err
	}
	slog.Info("payroll generated", "month", month, "records", len(added))
	return added, nil
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}
	ok, err := s.records.Update(ctx, id, map[string]any{"status": status})
	if err != nil {
		return err
	}
	if !ok {
		return ErrRecordNotFound
	}
	return nil
}
