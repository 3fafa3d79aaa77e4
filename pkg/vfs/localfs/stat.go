package localfs

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// Reference defaults reported instead of real values. Owner translation and
// hard-link counting are outside the adapter's scope; the contract only
// requires some deterministic value, never a failure.
const (
	placeholderUID   = 0
	placeholderGID   = 0
	placeholderNlink = 1
	placeholderDev   = 17
)

// statPath reads the POSIX metadata of path and translates it into the
// protocol-neutral attribute record. The record is built fresh on every call
// and never cached.
func statPath(path string) (*vfs.Stat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENOTDIR) {
			return nil, fmt.Errorf("%w: %s", vfs.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	mtime := time.Unix(st.Mtim.Sec, st.Mtim.Nsec)

	return &vfs.Stat{
		Mode:  translateMode(st.Mode),
		Size:  uint64(st.Size),
		Nlink: placeholderNlink,
		UID:   placeholderUID,
		GID:   placeholderGID,
		Dev:   placeholderDev,
		Rdev:  placeholderDev,
		// The file key is hashed down to 64 bits, so the ID is unique only
		// up to collision probability.
		FileID:     fileKeyID(st.Dev, st.Ino),
		Generation: uint64(mtime.UnixMilli()),
		Atime:      time.Unix(st.Atim.Sec, st.Atim.Nsec),
		Mtime:      mtime,
		Ctime:      mtime,
	}, nil
}

// translateMode maps a POSIX st_mode into the attribute record's
// type+permission bit-field. Directories, regular files and symlinks map to
// their own type codes; everything else (devices, fifos, sockets) lands in
// the socket bucket. The nine permission bits carry over one for one.
func translateMode(mode uint32) uint32 {
	out := mode & vfs.ModePermMask

	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		out |= vfs.ModeDir
	case unix.S_IFREG:
		out |= vfs.ModeRegular
	case unix.S_IFLNK:
		out |= vfs.ModeSymlink
	default:
		out |= vfs.ModeSocket
	}
	return out
}

// fileKeyID derives a 64-bit object identifier from the backing store's file
// key (device, inode). SHA-256 keeps the mapping deterministic and collision
// resistant; the first 8 bytes are taken big-endian.
func fileKeyID(dev, ino uint64) uint64 {
	var key [16]byte
	binary.BigEndian.PutUint64(key[:8], dev)
	binary.BigEndian.PutUint64(key[8:], ino)

	sum := sha256.Sum256(key[:])
	return binary.BigEndian.Uint64(sum[:8])
}
