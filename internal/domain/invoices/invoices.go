// Package invoices keeps client invoices and renders them as PDF.
package invoices

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

const (
	StatusPaid    = "Paid"
	StatusPending = "Pending"
	StatusOverdue = "Overdue"
)

var ErrInvalidInvoice = errors.New("invalid invoice")

type Invoice struct {
	ID          string  `json:"id"`
	InvoiceNo   string  `json:"invoiceNo"`
	Date        string  `json:"date"`
	Client      string  `json:"client"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
}

// Totals sums invoice amounts by status.
type Totals struct {
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
	Overdue float64 `json:"overdue"`
}

type Service struct {
	invoices *collection.Collection[Invoice]
	now      func() time.Time
	intn     func(n int) int
}

func NewService(store collection.Store) *Service {
	s := &Service{now: time.Now, intn: rand.IntN}
	s.invoices = collection.New(store, recordstore.KeyInvoices,
		func(i Invoice) string { return i.ID },
		func(i *Invoice, id string) { i.ID = id },
	).WithPrepare(func(i *Invoice) {
		now := s.now()
		i.InvoiceNo = fmt.Sprintf("INV-%d-%d", now.Year(), s.intn(1000))
		i.Date = now.Format(time.DateOnly)
		i.Status = StatusPending
	})
	return s
}

func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	return s.invoices.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Invoice, bool, error) {
	return s.invoices.Get(ctx, id)
}

// Create issues a Pending invoice numbered for the current year and dated
// today.
func (s *Service) Create(ctx context.Context, inv Invoice) (Invoice, error) {
	if strings.TrimSpace(inv.Client) == "" {
		return Invoice{}, fmt.Errorf("%w: client is required", ErrInvalidInvoice)
	}
	if inv.Amount <= 0 {
		return Invoice{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInvoice)
	}
	return s.invoices.Add(ctx, inv)
}

func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if status, ok := fields["status"].(string); ok && !validStatus(status) {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidInvoice, status)
	}
	return s.invoices.Update(ctx, id, fields)
}

func Summarize(list []Invoice) Totals {
	var t Totals
	for _, inv := range list {
		switch inv.Status {
		case StatusPaid:
			t.Paid += inv.Amount
		case StatusPending:
			t.Pending += inv.Amount
		case StatusOverdue:
			t.Overdue += inv.Amount
		}
	}
	return t
}

func validStatus(s string) bool {
	return s == StatusPaid || s == StatusPending || s == StatusOverdue
}
