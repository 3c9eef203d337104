package payroll

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflowpro/internal/domain/directory"
	"workflowpro/internal/platform/recordstore"
)

func newService(t *testing.T) *Service {
	t.Helper()
	store, err := recordstore.New(recordstore.NewMemoryBackend())
	require.NoError(t, err)
	return NewService(store, directory.NewService(store)).
		WithClock(func() time.Time { return time.Date(2023, 11, 3, 9, 0, 0, 0, time.UTC) })
}

func TestGenerateOneDraftPerEmployee(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	batch, err := svc.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	seen := map[string]bool{}
	for _, r := range batch {
		assert.NotEmpty(t, r.ID)
		assert.False(t, seen[r.EmployeeID])
		seen[r.EmployeeID] = true
		assert.Equal(t, StatusDraft, r.Status)
		assert.Equal(t, "November 2023", r.Month)
		assert.GreaterOrEqual(t, r.BaseSalary, 5000.0)
		assert.Less(t, r.BaseSalary, 7000.0)
		assert.GreaterOrEqual(t, r.Bonus, 0.0)
		assert.Less(t, r.Bonus, 500.0)
		assert.GreaterOrEqual(t, r.Deductions, 800.0)
		assert.Less(t, r.Deductions, 1000.0)
		assert.Equal(t, r.BaseSalary+r.Bonus-r.Deductions, r.NetPay)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestGenerateTwiceAppends(t *testing.T) {
	ctx := context.Background()
	svc := newService(t).WithRand(func(int) int { return 0 })

	_, err := svc.Generate(ctx)
	require.NoError(t, err)
	batch, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4200.0, batch[0].NetPay)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestGenerateWithoutEmployees(t *testing.T) {
	store, err := recordstore.New(recordstore.NewMemoryBackend(), recordstore.WithSeed(nil))
	require.NoError(t, err)
	svc := NewService(store, directory.NewService(store))

	batch, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestLinesJoinEmployees(t *testing.T) {
	lines, err := newService(t).Lines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.NotNil(t, lines[0].Employee)
	assert.Equal(t, "Sarah Jenkins", lines[0].Employee.Name)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	require.NoError(t, svc.SetStatus(ctx, "p1", StatusApproved))
	r, ok, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusApproved, r.Status)

	assert.ErrorIs(t, svc.SetStatus(ctx, "p1", "Cancelled"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.SetStatus(ctx, "nope", StatusPaid), ErrRecordNotFound)
}

func TestRenderPayslip(t *testing.T) {
	var buf bytes.Buffer
	rec := Record{ID: "p1", EmployeeID: "1", BaseSalary: 5000, Bonus: 200, Deductions: 800, NetPay: 4400, Status: StatusDraft, Month: "October 2023"}
	require.NoError(t, RenderPayslip(&buf, rec, &directory.Employee{Name: "Sarah Jenkins", Email: "sarah.j@workflow.pro"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	require.NoError(t, RenderPayslip(&buf, rec, nil))
	assert.NotZero(t, buf.Len())
}
