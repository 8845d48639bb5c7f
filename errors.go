package gradlemirror

import "errors"

var (
	// ErrMalformedPath is returned when a request path fails percent-decoding
	ErrMalformedPath = errors.New("malformed path")
	// ErrUnsafePath is returned when a decoded path contains forbidden characters or traversal segments
	ErrUnsafePath = errors.New("unsafe path")
	// ErrNotFound is returned when a key is not present in the store
	ErrNotFound = errors.New("not found")
	// ErrInvalidKey is returned when a write names a key the store must not hold
	ErrInvalidKey = errors.New("invalid key")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)

// Errors for credential profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)
