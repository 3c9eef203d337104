package leave

import "errors"

var (
	ErrInvalidRange    = errors.New("end date before start date")
	ErrInvalidStatus   = errors.New("leave status must be Approved or Rejected")
	ErrInvalidRequest  = errors.New("invalid leave request")
	ErrRequestNotFound = errors.New("leave request not found")
	ErrInvalidHoliday  = errors.New("invalid holiday")
)
