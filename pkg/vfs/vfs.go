// Package vfs defines the virtual-filesystem capability surface consumed by
// the protocol engine.
//
// Every inbound operation addresses objects by opaque handles. An
// implementation resolves each handle to its backing object, performs the
// equivalent storage call and translates the result into the protocol-neutral
// types of this package. Operations an implementation declines return
// ErrNotSupported instead of being omitted, so the full contract surface the
// protocol engine expects is always present.
package vfs

// FileSystem is the capability surface of one mounted filesystem.
//
// Implementations are invoked concurrently by independent request-handling
// goroutines and must be safe for concurrent use. Every operation is
// synchronous; cancellation and timeouts are the caller's concern.
type FileSystem interface {
	// Root returns the handle of the mount root. The value is stable for
	// the lifetime of the mount.
	Root() Handle

	// Lookup finds the named child of a directory and returns its handle.
	// Returns ErrNotFound if no object exists under that name.
	Lookup(parent Handle, name string) (Handle, error)

	// GetAttr reads the attributes of an object. Returns ErrNotFound if the
	// handle no longer resolves to an existing object.
	GetAttr(h Handle) (*Stat, error)

	// SetAttr updates object attributes. Implementations may accept the
	// request without persisting anything beyond what the backing store
	// itself records.
	SetAttr(h Handle, attr *Stat) error

	// ReadDir lists the immediate children of a directory in backing-store
	// enumeration order. The result is materialized at call time; no
	// snapshot consistency is guaranteed if the directory mutates during
	// enumeration.
	ReadDir(h Handle) ([]DirEntry, error)

	// ParentOf returns the handle of an object's parent directory, computed
	// from the path's logical parent segment. Returns ErrNotFound for the
	// mount root, which has no parent.
	ParentOf(h Handle) (Handle, error)

	// ReadLink reads the target of a symbolic link.
	ReadLink(h Handle) (string, error)

	// Remove deletes the named child of a directory. The child's handle is
	// not retracted; later use of it surfaces ErrNotFound.
	Remove(parent Handle, name string) error

	// Create makes a new object of the given type under parent and returns
	// its handle.
	Create(parent Handle, typ FileType, name string, uid, gid, mode uint32) (Handle, error)

	// Mkdir creates a directory.
	Mkdir(parent Handle, name string, uid, gid, mode uint32) (Handle, error)

	// Symlink creates a symbolic link pointing at target.
	Symlink(parent Handle, name, target string, uid, gid, mode uint32) (Handle, error)

	// Link creates a hard link to an existing object.
	Link(parent Handle, obj Handle, name string) (Handle, error)

	// Rename moves an entry between directories.
	Rename(fromDir Handle, fromName string, toDir Handle, toName string) error

	// Read reads up to len(buf) bytes at offset. Returns the byte count.
	Read(h Handle, buf []byte, offset int64) (int, error)

	// Write writes data at offset. Returns the byte count.
	Write(h Handle, data []byte, offset int64) (int, error)

	// Access checks the requested access mask and returns the granted one.
	Access(h Handle, mode uint32) (uint32, error)

	// StatFS reports capacity of the backing volume.
	StatFS() (*FsStat, error)

	// GetAcl returns the access-control list of an object.
	GetAcl(h Handle) ([]ACE, error)

	// SetAcl replaces the access-control list of an object.
	SetAcl(h Handle, acl []ACE) error

	// GetAclCheckable returns the ACL decision surface for this filesystem.
	GetAclCheckable() AclCheckable

	// HasIOLayout reports whether the object carries a pNFS layout.
	HasIOLayout(h Handle) (bool, error)
}
