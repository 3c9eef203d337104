package tasks

import (
	"slices"
	"strings"
)

// Flow is an ordered list of task statuses.
type Flow []string

var (
	SimpleFlow = Flow{StatusBacklog, StatusToDo, StatusInProgress, StatusDone}
	ReviewFlow = Flow{StatusBacklog, StatusToDo, StatusInProgress, StatusInReview, StatusDone}
)

// NextStatus returns the successor of current. It reports false for the
// last status and for statuses outside the flow.
func NextStatus(flow Flow, current string) (string, bool) {
	for i, status := range flow {
		if status == current && i+1 < len(flow) {
			return flow[i+1], true
		}
	}
	return "", false
}

func (f Flow) Contains(status string) bool {
	return f.Index(status) >= 0
}

// Index is the position of status in the flow, or -1.
func (f Flow) Index(status string) int {
	return slices.Index(f, status)
}

// ParseTags splits a comma separated tag list, dropping empty entries.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func validPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
