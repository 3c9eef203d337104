package tasks

import (
	"context"
	"fmt"
	"strings"

	"workflowpro/internal/domain/auth"
	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

type Service struct {
	tasks *collection.Collection[Task]
	flow  Flow
}

func NewService(store collection.Store, flow Flow) *Service {
	if len(flow) == 0 {
		flow = ReviewFlow
	}
	tasks := collection.New(store, recordstore.KeyTasks,
		func(t Task) string { return t.ID },
		func(t *Task, id string) { t.ID = id },
	).WithPrepare(func(t *Task) {
		t.Comments = 0
		if t.Status == "" {
			t.Status = StatusBacklog
		}
		if t.Priority == "" {
			t.Priority = PriorityMedium
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
	})
	return &Service{tasks: tasks, flow: flow}
}

func (s *Service) Flow() Flow { return s.flow }

func (s *Service) List(ctx context.Context) ([]Task, error) {
	return s.tasks.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Task, bool, error) {
	return s.tasks.Get(ctx, id)
}

// Add stores a new task with a zero comment count.
func (s *Service) Add(ctx context.Context, t Task) (Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if t.Priority != "" && !validPriority(t.Priority) {
		return Task{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, t.Priority)
	}
	if t.Status != "" && !s.flow.Contains(t.Status) {
		return Task{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, t.Status)
	}
	return s.tasks.Add(ctx, t)
}

// Update merges fields without running the progression guards; it is the
// raw accessor. Requests coming from users go through Edit or Advance.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) (bool, error) {
	if status, ok := fields["status"].(string); ok && !s.flow.Contains(status) {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidTask, status)
	}
	return s.tasks.Update(ctx, id, fields)
}

// Edit merges fields like Update. A status change is checked against the
// same guards as Advance, so a jump straight to Done cannot skip them.
func (s *Service) Edit(ctx context.Context, id string, fields map[string]any, role string) (bool, error) {
	raw, changing := fields["status"]
	if !changing {
		return s.Update(ctx, id, fields)
	}
	status, _ := raw.(string)
	if !s.flow.Contains(status) {
		return false, fmt.Errorf("%w: unknown status %v", ErrInvalidTask, raw)
	}
	byID, err := s.index(ctx)
	if err != nil {
		return false, err
	}
	task, ok := byID[id]
	if !ok {
		return false, nil
	}
	if err := s.guard(byID, task, status, role); err != nil {
		return false, err
	}
	return s.tasks.Update(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.tasks.Delete(ctx, id)
}

// Advance moves the task to the next status of the flow. A Done task is
// left unchanged.
func (s *Service) Advance(ctx context.Context, id, role string) (Task, error) {
	byID, err := s.index(ctx)
	if err != nil {
		return Task{}, err
	}
	task, ok := byID[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	next, ok := NextStatus(s.flow, task.Status)
	if !ok {
		return task, nil
	}
	if err := s.guard(byID, task, next, role); err != nil {
		return task, err
	}

	if _, err := s.tasks.Mutate(ctx, id, func(t *Task) error {
		t.Status = next
		return nil
	}); err != nil {
		return task, err
	}
	task.Status = next
	return task, nil
}

// guard checks a forward move of task to target. Going past In Progress
// needs the blocking task to be Done, if it still exists. Going past In
// Review needs a role that may approve tasks. Moves back are not checked.
func (s *Service) guard(byID map[string]Task, task Task, target, role string) error {
	from, to := s.flow.Index(task.Status), s.flow.Index(target)
	if to <= from {
		return nil
	}
	if to > s.flow.Index(StatusInProgress) && task.BlockedBy != "" {
		if blocker, ok := byID[task.BlockedBy]; ok && blocker.Status != StatusDone {
			return fmt.Errorf("%w by %q (%s)", ErrBlocked, blocker.Title, blocker.Status)
		}
	}
	if review := s.flow.Index(StatusInReview); review >= 0 && to > review &&
		!auth.Evaluate(role, auth.ResourceTasks, auth.ActionApprove).Allowed {
		return ErrApprovalRequired
	}
	return nil
}

func (s *Service) index(ctx context.Context) (map[string]Task, error) {
	list, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Task, len(list))
	for _, t := range list {
		byID[t.ID] = t
	}
	return byID, nil
}

// Board groups tasks by status in flow order. Tasks whose status is not in
// the flow are left out.
func (s *Service) Board(ctx context.Context) (map[string][]Task, error) {
	list, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	board := make(map[string][]Task, len(s.flow))
	for _, status := range s.flow {
		board[status] = []Task{}
	}
	for _, t := range list {
		if _, ok := board[t.Status]; ok {
			board[t.Status] = append(board[t.Status], t)
		}
	}
	return board, nil
}
