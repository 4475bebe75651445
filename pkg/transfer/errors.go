package transfer

import "errors"

// Fail-fast validation errors. These surface to the caller before any
// network call is made.
var (
	ErrInvalidPath     = errors.New("invalid directory path")
	ErrMissingFilename = errors.New("missing filename")
	ErrEmptyPayload    = errors.New("empty payload")
	ErrPayloadTooLarge = errors.New("payload exceeds size ceiling")
	ErrBatchTooLarge   = errors.New("batch exceeds item limit")
)

// Per-item errors. These are captured and encoded into a Failed Result
// rather than propagated, so one item never aborts its siblings.
var (
	ErrUntrustedSource = errors.New("url does not belong to the configured storage endpoint")
)
