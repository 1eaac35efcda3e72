package internalerr

import "errors"

// Sentinel errors shared across the deinflect packages
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidCatalog   = errors.New("invalid rule catalog")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
