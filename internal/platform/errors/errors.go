package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnknownSessionType = errors.New("unknown session type")
	ErrUnsupportedFormat  = errors.New("unsupported format")
)
