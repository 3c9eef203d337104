// Package assistant builds the read-only workspace snapshot handed to an
// external language model as its system instruction. No model is called
// from here.
package assistant

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"text/template"

	"workflowpro/internal/domain/directory"
	"workflowpro/internal/domain/leave"
	"workflowpro/internal/domain/tasks"
)

//go:embed prompt.tmpl
var promptText string

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}).Parse(promptText))

type EmployeeView struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Email      string `json:"email"`
}

type TaskView struct {
	Title      string `json:"title"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AssigneeID string `json:"assigneeId,omitempty"`
}

type LeaveView struct {
	Employee string `json:"employee"`
	Type     string `json:"type"`
	Days     int    `json:"days"`
	Status   string `json:"status"`
}

type Snapshot struct {
	Role      string         `json:"role"`
	Employees []EmployeeView `json:"employees"`
	Tasks     []TaskView     `json:"tasks"`
	Leave     []LeaveView    `json:"leave"`
}

type (
	EmployeeLister interface {
		List(ctx context.Context) ([]directory.Employee, error)
	}
	TaskLister interface {
		List(ctx context.Context) ([]tasks.Task, error)
	}
	LeaveLister interface {
		List(ctx context.Context) ([]leave.Request, error)
	}
)

type Service struct {
	employees EmployeeLister
	tasks     TaskLister
	leave     LeaveLister
}

func NewService(employees EmployeeLister, tasks TaskLister, leave LeaveLister) *Service {
	return &Service{employees: employees, tasks: tasks, leave: leave}
}

// Snapshot projects the directory, task and leave collections for role.
func (s *Service) Snapshot(ctx context.Context, role string) (Snapshot, error) {
	snap := Snapshot{Role: role}

	employees, err := s.employees.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Employees = make([]EmployeeView, 0, len(employees))
	for _, e := range employees {
		snap.Employees = append(snap.Employees, EmployeeView{e.Name, e.Role, e.Department, e.Status, e.Email})
	}

	taskList, err := s.tasks.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Tasks = make([]TaskView, 0, len(taskList))
	for _, t := range taskList {
		snap.Tasks = append(snap.Tasks, TaskView{t.Title, t.Status, t.Priority, t.AssigneeID})
	}

	requests, err := s.leave.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Leave = make([]LeaveView, 0, len(requests))
	for _, l := range requests {
		snap.Leave = append(snap.Leave, LeaveView{l.EmployeeName, l.Type, l.Days, l.Status})
	}
	return snap, nil
}

// SystemPrompt renders the instruction text for snap.
func SystemPrompt(snap Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, snap); err != nil {
		return "", err
	}
	return buf.String(), nil
}
