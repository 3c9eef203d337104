package tasks

const (
	StatusBacklog    = "Backlog"
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusInReview   = "In Review"
	StatusDone       = "Done"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Status     string   `json:"status"`
	Priority   string   `json:"priority"`
	AssigneeID string   `json:"assigneeId,omitempty"`
	Comments   int      `json:"comments"`
	Tags       []string `json:"tags"`
	DueDate    string   `json:"dueDate,omitempty"`
	BlockedBy  string   `json:"blockedBy,omitempty"`
}
