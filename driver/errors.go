package driver

import "errors"

var (
	// ErrAttached is returned by configuration calls made after Attach,
	// and by a second Attach.
	ErrAttached = errors.New("driver: already attached")

	// ErrNativeContext is returned by Attach when the native context
	// cannot be created. The driver stays detached.
	ErrNativeContext = errors.New("driver: native context unavailable")

	// ErrInvalidConfig is returned for configuration values out of range.
	ErrInvalidConfig = errors.New("driver: invalid config")
)
