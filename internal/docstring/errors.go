package docstring

import "errors"

var (
	// ErrUnknownStyle is returned when a style name or value is not registered.
	ErrUnknownStyle = errors.New("unknown docstring style")
)
