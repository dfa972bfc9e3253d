package stat

import "errors"

// Sentinel errors returned by store operations. Callers compare with
// errors.Is; the reg package folds some of these into its own Outcome
// enum for the error taxonomy described in the decoder's docs.
var (
	// ErrNotFound is returned when a delete/get targets an absent key.
	ErrNotFound = errors.New("stat: key not found")

	// ErrAlreadyExists is not returned by any Store operation: insert-on-
	// existing is a documented no-op success, and a KVDL slot collision is
	// reported as ErrAllocFailed.
	ErrAlreadyExists = errors.New("stat: key already exists")

	// ErrAllocFailed is returned when a multi-slot allocation (KVDL) could
	// not be installed in full and was rolled back.
	ErrAllocFailed = errors.New("stat: allocation failed")
)
