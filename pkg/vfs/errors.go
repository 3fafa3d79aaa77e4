package vfs

import "errors"

// Errors returned by FileSystem implementations. The protocol engine maps
// these to wire-level status codes; anything else is reported as a generic
// I/O failure.
var (
	// ErrNotFound indicates the object does not exist at resolution time.
	// This covers both a name missing from a directory and a stale handle
	// whose backing path has been removed.
	ErrNotFound = errors.New("object not found")

	// ErrNotSupported indicates a capability point that is intentionally
	// unimplemented. The operation is part of the contract surface but the
	// implementation declines it without touching any state.
	ErrNotSupported = errors.New("operation not supported")

	// ErrBadHandle indicates a handle that was never minted by this server,
	// for example a truncated or corrupted wire payload.
	ErrBadHandle = errors.New("invalid file handle")

	// ErrNotDirectory indicates a directory operation on a non-directory.
	ErrNotDirectory = errors.New("not a directory")
)
