package vfs

import (
	"encoding/binary"
	"fmt"
)

// HandleSize is the wire size of a serialized handle in bytes.
const HandleSize = 8

// Handle is an opaque, fixed-width identifier for a filesystem object.
//
// A handle is minted the first time a path is referenced and stays valid for
// the lifetime of the mount: clients hold handles across requests and the
// server must keep resolving them even after the underlying object is
// removed (resolution then surfaces a not-found condition at use time).
//
// Handle 0 is reserved for the mount root and is assigned at initialization.
type Handle uint64

// Bytes serializes the handle as an 8-byte big-endian opaque value for the
// protocol boundary.
func (h Handle) Bytes() []byte {
	buf := make([]byte, HandleSize)
	binary.BigEndian.PutUint64(buf, uint64(h))
	return buf
}

// HandleFromBytes parses a wire-format handle.
//
// Returns ErrBadHandle if the payload is not exactly HandleSize bytes.
// Handles arrive from untrusted clients, so malformed input is an expected
// condition, not a programming error.
func HandleFromBytes(data []byte) (Handle, error) {
	if len(data) != HandleSize {
		return 0, fmt.Errorf("%w: expected %d bytes, got %d", ErrBadHandle, HandleSize, len(data))
	}
	return Handle(binary.BigEndian.Uint64(data)), nil
}

// String formats the handle for logging.
func (h Handle) String() string {
	return fmt.Sprintf("fh:%d", uint64(h))
}
