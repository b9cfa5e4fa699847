package nvic

import "errors"

var (
	ErrUnsupportedInterrupt = errors.New("unsupported interrupt")
	ErrUnsupportedException = errors.New("unsupported exception")
	ErrPriorityOutOfRange   = errors.New("priority out of range")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrInvalidPriority      = errors.New("invalid priority")
)
