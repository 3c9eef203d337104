// Package tickets exposes the read-only support ticket queue.
package tickets

import (
	"context"
	"strings"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

var Statuses = []string{StatusNew, StatusInProgress, StatusResolved}

type Ticket struct {
	ID          string `json:"id"`
	TicketID    string `json:"ticketId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
	Requester   string `json:"requester"`
	Timestamp   string `json:"timestamp"`
}

type Service struct {
	tickets *collection.Collection[Ticket]
}

func NewService(store collection.Store) *Service {
	return &Service{tickets: collection.New(store, recordstore.KeyTickets,
		func(t Ticket) string { return t.ID },
		func(t *Ticket, id string) { t.ID = id },
	)}
}

func (s *Service) List(ctx context.Context) ([]Ticket, error) {
	return s.tickets.GetAll(ctx)
}

// Search matches query against the title and ticket number, ignoring case.
// An empty query returns every ticket.
func (s *Service) Search(ctx context.Context, query string) ([]Ticket, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.tickets.Find(ctx, func(t Ticket) bool {
		return q == "" ||
			strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.TicketID), q)
	})
}

// GroupByStatus buckets tickets into the board columns. Every column is
// present even when empty.
func GroupByStatus(list []Ticket) map[string][]Ticket {
	out := make(map[string][]Ticket, len(Statuses))
	for _, s := range Statuses {
		out[s] = []Ticket{}
	}
	for _, t := range list {
		if _, ok := out[t.Status]; ok {
			out[t.Status] = append(out[t.Status], t)
		}
	}
	return out
}

// Unresolved counts tickets that are not Resolved.
func Unresolved(list []Ticket) int {
	n := 0
	for _, t := range list {
		if t.Status != StatusResolved {
			n++
		}
	}
	return n
}
