package collection

import "errors"

var ErrInvalidFields = errors.New("invalid update fields")
