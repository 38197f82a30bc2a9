package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidRecord       = errors.New("invalid record")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrResourceUnavailable = errors.New("resource unavailable")
	ErrModelUnavailable    = errors.New("tagging model unavailable")
	ErrModelCorrupt        = errors.New("tagging model corrupt")
	ErrStoreUnavailable    = errors.New("store unavailable")
)
