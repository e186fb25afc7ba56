package payroll

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid run status transition")
	ErrRunNotFound       = errors.New("payroll run not found")
)
