package tasks

import "errors"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrBlocked          = errors.New("task is blocked")
	ErrApprovalRequired = errors.New("approval required")
	ErrInvalidTask      = errors.New("invalid task")
)
