// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrInvalidArgument indicates malformed or missing required input. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates the referenced user identity has no registry record.
	ErrNotFound = errors.New("not found")
)
