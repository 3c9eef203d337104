package gdpr

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNotTerminated    = errors.New("only terminated employees can be anonymized")
)
