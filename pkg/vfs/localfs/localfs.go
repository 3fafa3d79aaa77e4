// Package localfs implements the vfs capability surface on top of a
// directory of the local filesystem.
//
// Objects are addressed by opaque handles minted lazily through a
// path-keyed identity registry. Every operation is a single
// resolve → filesystem call → translate → (optionally intern) step; the
// registry is the only shared mutable state.
//
// The reference behavior keeps several deliberate simplifications: handles
// are never retracted, access checks are permissive, attribute writes and
// ACLs are not persisted, and content I/O plus directory mutation beyond
// plain-file create/remove are declined with ErrNotSupported. Two paths that
// alias the same storage object (hard links) are distinct identities; the
// registry keys on path, not inode.
package localfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// LocalFS serves a single exported directory.
//
// All methods are safe for concurrent use: the registry carries its own
// lock and everything else is either immutable or local to one call.
type LocalFS struct {
	root     string
	registry *Registry
}

// New creates a LocalFS exporting the directory at root.
func New(root string) (*LocalFS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve export root %q: %w", root, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat export root %q: %w", abs, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("export root %q: %w", abs, vfs.ErrNotDirectory)
	}

	logger.Info("Exporting %s", abs)

	return &LocalFS{
		root:     abs,
		registry: NewRegistry(abs),
	}, nil
}

// Registry exposes the identity registry, primarily for tests.
func (l *LocalFS) Registry() *Registry {
	return l.registry
}

// Root returns the handle of the mount root.
func (l *LocalFS) Root() vfs.Handle {
	return l.registry.Root()
}

// Lookup finds name under the directory identified by parent. The name is
// joined against the parent path and cleaned, so ".." resolves to the parent
// directory; names whose cleaned path would leave the export root report
// ErrNotFound.
func (l *LocalFS) Lookup(parent vfs.Handle, name string) (vfs.Handle, error) {
	dir, err := l.registry.Resolve(parent)
	if err != nil {
		return 0, err
	}

	path := filepath.Join(dir, name)
	if path != l.root && !strings.HasPrefix(path, l.root+string(filepath.Separator)) {
		return 0, fmt.Errorf("%w: %s", vfs.ErrNotFound, name)
	}
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", vfs.ErrNotFound, path)
		}
		return 0, fmt.Errorf("lookup %s: %w", path, err)
	}

	return l.registry.Intern(path), nil
}

// GetAttr reads and translates the POSIX metadata of the object.
func (l *LocalFS) GetAttr(h vfs.Handle) (*vfs.Stat, error) {
	path, err := l.registry.Resolve(h)
	if err != nil {
		return nil, err
	}
	return statPath(path)
}

// SetAttr accepts the request without persisting anything. The backing
// filesystem keeps whatever attributes it already stores.
func (l *LocalFS) SetAttr(h vfs.Handle, attr *vfs.Stat) error {
	_, err := l.registry.Resolve(h)
	return err
}

// ReadDir lists the immediate children of a directory in the order the
// backing store enumerates them. Each entry carries a freshly interned
// handle and freshly read attributes.
func (l *LocalFS) ReadDir(h vfs.Handle) ([]vfs.DirEntry, error) {
	dir, err := l.registry.Resolve(h)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", vfs.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	defer f.Close()

	// File.ReadDir preserves the directory's native enumeration order,
	// unlike the sorted os.ReadDir.
	children, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]vfs.DirEntry, 0, len(children))
	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		stat, err := statPath(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, vfs.DirEntry{
			Name:   child.Name(),
			Handle: l.registry.Intern(path),
			Stat:   stat,
		})
	}
	return entries, nil
}

// ParentOf returns the handle of the object's parent directory. The parent
// is computed from the path's logical parent segment, so an object reports
// the same parent regardless of how its handle was obtained.
func (l *LocalFS) ParentOf(h vfs.Handle) (vfs.Handle, error) {
	path, err := l.registry.Resolve(h)
	if err != nil {
		return 0, err
	}
	if path == l.root {
		return 0, fmt.Errorf("%w: mount root has no parent", vfs.ErrNotFound)
	}
	return l.registry.Intern(filepath.Dir(path)), nil
}

// ReadLink reads the target of a symbolic link.
func (l *LocalFS) ReadLink(h vfs.Handle) (string, error) {
	path, err := l.registry.Resolve(h)
	if err != nil {
		return "", err
	}

	target, err := os.Readlink(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", vfs.ErrNotFound, path)
		}
		return "", fmt.Errorf("readlink %s: %w", path, err)
	}
	return target, nil
}

// Remove deletes the named child. The child's registry entry stays behind;
// a later resolution of its handle fails because the backing path is gone,
// not because the registry forgot it.
func (l *LocalFS) Remove(parent vfs.Handle, name string) error {
	dir, err := l.registry.Resolve(parent)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", vfs.ErrNotFound, path)
		}
		return fmt.Errorf("remove %s: %w", path, err)
	}

	logger.Debug("Removed %s", path)
	return nil
}

// Create makes a new object under parent and returns its handle. Only plain
// files are supported; the uid and gid arguments are accepted for contract
// compatibility but not applied.
func (l *LocalFS) Create(parent vfs.Handle, typ vfs.FileType, name string, uid, gid, mode uint32) (vfs.Handle, error) {
	dir, err := l.registry.Resolve(parent)
	if err != nil {
		return 0, err
	}

	if typ != vfs.FileTypeRegular {
		return 0, fmt.Errorf("create %s object: %w", typ, vfs.ErrNotSupported)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, os.FileMode(mode&vfs.ModePermMask))
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	logger.Debug("Created %s", path)
	return l.registry.Intern(path), nil
}

// Mkdir is a declared capability point left unimplemented.
func (l *LocalFS) Mkdir(parent vfs.Handle, name string, uid, gid, mode uint32) (vfs.Handle, error) {
	return 0, fmt.Errorf("mkdir: %w", vfs.ErrNotSupported)
}

// Symlink is a declared capability point left unimplemented.
func (l *LocalFS) Symlink(parent vfs.Handle, name, target string, uid, gid, mode uint32) (vfs.Handle, error) {
	return 0, fmt.Errorf("symlink: %w", vfs.ErrNotSupported)
}

// Link is a declared capability point left unimplemented.
func (l *LocalFS) Link(parent vfs.Handle, obj vfs.Handle, name string) (vfs.Handle, error) {
	return 0, fmt.Errorf("link: %w", vfs.ErrNotSupported)
}

// Rename is a declared capability point left unimplemented.
func (l *LocalFS) Rename(fromDir vfs.Handle, fromName string, toDir vfs.Handle, toName string) error {
	return fmt.Errorf("rename: %w", vfs.ErrNotSupported)
}

// Read is a declared capability point left unimplemented.
func (l *LocalFS) Read(h vfs.Handle, buf []byte, offset int64) (int, error) {
	return 0, fmt.Errorf("read: %w", vfs.ErrNotSupported)
}

// Write is a declared capability point left unimplemented.
func (l *LocalFS) Write(h vfs.Handle, data []byte, offset int64) (int, error) {
	return 0, fmt.Errorf("write: %w", vfs.ErrNotSupported)
}

// Access grants whatever was requested. Permission enforcement is left to
// the backing filesystem at the moment of the actual call.
func (l *LocalFS) Access(h vfs.Handle, mode uint32) (uint32, error) {
	return mode, nil
}

// StatFS reports the capacity of the volume holding the export root.
// File and inode counts are not computed and read as zero.
func (l *LocalFS) StatFS() (*vfs.FsStat, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(l.root, &st); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", l.root, err)
	}

	total := uint64(st.Blocks) * uint64(st.Bsize)
	avail := uint64(st.Bavail) * uint64(st.Bsize)

	return &vfs.FsStat{
		TotalBytes: total,
		UsedBytes:  total - avail,
	}, nil
}

// GetAcl reports an empty list; no ACLs are stored.
func (l *LocalFS) GetAcl(h vfs.Handle) ([]vfs.ACE, error) {
	return []vfs.ACE{}, nil
}

// SetAcl accepts and discards the list; no ACLs are stored.
func (l *LocalFS) SetAcl(h vfs.Handle, acl []vfs.ACE) error {
	return nil
}

// undefinedAclCheckable answers undefined for every query, leaving access
// decisions to the mode bits.
type undefinedAclCheckable struct{}

func (undefinedAclCheckable) CheckAcl(h vfs.Handle, mask uint32) (vfs.AclCheckResult, error) {
	return vfs.AclCheckUndefined, nil
}

// GetAclCheckable returns a checker that never decides.
func (l *LocalFS) GetAclCheckable() vfs.AclCheckable {
	return undefinedAclCheckable{}
}

// HasIOLayout always reports false; no pNFS layouts exist here.
func (l *LocalFS) HasIOLayout(h vfs.Handle) (bool, error) {
	return false, nil
}

var _ vfs.FileSystem = (*LocalFS)(nil)
