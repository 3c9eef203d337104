package directory

import "errors"

var ErrInvalidEmployee = errors.New("invalid employee")
