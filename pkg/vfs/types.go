package vfs

import "time"

// FileType identifies the kind of filesystem object.
type FileType uint32

const (
	// FileTypeRegular is a regular file
	FileTypeRegular FileType = iota
	// FileTypeDirectory is a directory
	FileTypeDirectory
	// FileTypeSymlink is a symbolic link
	FileTypeSymlink
	// FileTypeSocket is a socket. It doubles as the fallback bucket for
	// anything the adapter does not distinguish (devices, fifos).
	FileTypeSocket
)

// String returns a string representation of the file type.
func (t FileType) String() string {
	switch t {
	case FileTypeRegular:
		return "regular"
	case FileTypeDirectory:
		return "directory"
	case FileTypeSymlink:
		return "symlink"
	case FileTypeSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// Unix mode bits carried in Stat.Mode alongside the nine permission bits.
const (
	ModeTypeMask uint32 = 0o170000
	ModeDir      uint32 = 0o040000
	ModeRegular  uint32 = 0o100000
	ModeSymlink  uint32 = 0o120000
	ModeSocket   uint32 = 0o140000

	ModePermMask uint32 = 0o777
)

// Stat is the protocol-neutral translation of POSIX file metadata.
//
// It is derived fresh on every query and never cached. Several fields carry
// deliberate reference defaults rather than real values (see the field
// comments); implementations must always return some deterministic value,
// never fail, for those fields.
type Stat struct {
	// Mode holds the object type bits (ModeDir, ModeRegular, ...) combined
	// with the nine POSIX permission bits.
	Mode uint32

	// Size is the object size in bytes.
	Size uint64

	// Nlink is the hard-link count. Always reported as 1 regardless of the
	// actual count; path aliasing is not modeled.
	Nlink uint32

	// UID and GID identify the owner. Reported as a fixed placeholder of 0;
	// real owner translation is outside the reference behavior.
	UID uint32
	GID uint32

	// Dev and Rdev identify the backing device. Fixed placeholder values.
	Dev  uint64
	Rdev uint64

	// FileID identifies the object within the filesystem. Derived from the
	// backing store's file key by hashing, so unique only up to collision
	// probability.
	FileID uint64

	// Generation is a version stamp for the object, derived from the
	// modification time in milliseconds.
	Generation uint64

	// Atime, Mtime and Ctime are the access, modification and status-change
	// timestamps.
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
}

// Type extracts the FileType from the mode bits.
func (s *Stat) Type() FileType {
	switch s.Mode & ModeTypeMask {
	case ModeDir:
		return FileTypeDirectory
	case ModeRegular:
		return FileTypeRegular
	case ModeSymlink:
		return FileTypeSymlink
	default:
		return FileTypeSocket
	}
}

// DirEntry is one record of a directory listing: name, handle and attributes.
// Entries are request-scoped and never persisted.
type DirEntry struct {
	Name   string
	Handle Handle
	Stat   *Stat
}

// FsStat reports capacity of the backing volume.
//
// File counts are not computed and are reported as zero.
type FsStat struct {
	TotalBytes uint64
	UsedBytes  uint64
	TotalFiles uint64
	UsedFiles  uint64
}

// ACE is a single access-control entry. The adapter stores no ACLs, so
// listings are always empty, but the type keeps the contract surface intact.
type ACE struct {
	Type       uint32
	Flags      uint32
	AccessMask uint32
	Who        string
}

// AclCheckResult is the outcome of one ACL access check.
type AclCheckResult uint32

const (
	AclCheckAllow AclCheckResult = iota
	AclCheckDeny
	AclCheckUndefined
)

// AclCheckable answers whether an object's ACL grants an access mask. A
// checker that returns AclCheckUndefined leaves the decision to the caller's
// mode-bit logic.
type AclCheckable interface {
	CheckAcl(h Handle, mask uint32) (AclCheckResult, error)
}
