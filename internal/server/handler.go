package server

import (
	"github.com/jameshightower/simple-nfs/internal/protocol/mount"
	"github.com/jameshightower/simple-nfs/internal/protocol/nfs"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

type NFSHandler interface {
	// Null does nothing. This is used to test connectivity.
	// RFC 1813 Section 3.3.0
	Null() ([]byte, error)

	// GetAttr returns the attributes for a file system object.
	// RFC 1813 Section 3.3.1
	GetAttr(fsys vfs.FileSystem, req *nfs.GetAttrRequest) (*nfs.GetAttrResponse, error)

	// SetAttr sets the attributes for a file system object.
	// RFC 1813 Section 3.3.2
	SetAttr(fsys vfs.FileSystem, req *nfs.SetAttrRequest) (*nfs.SetAttrResponse, error)

	// Lookup searches a directory for a specific name and returns its file handle.
	// RFC 1813 Section 3.3.3
	Lookup(fsys vfs.FileSystem, req *nfs.LookupRequest) (*nfs.LookupResponse, error)

	// Access checks access permissions for a file system object.
	// RFC 1813 Section 3.3.4
	Access(fsys vfs.FileSystem, req *nfs.AccessRequest) (*nfs.AccessResponse, error)

	// ReadLink reads the data associated with a symbolic link.
	// RFC 1813 Section 3.3.5
	ReadLink(fsys vfs.FileSystem, req *nfs.ReadLinkRequest) (*nfs.ReadLinkResponse, error)

	// Read reads data from a file.
	// RFC 1813 Section 3.3.6
	Read(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppReadResponse, error)

	// Write writes data to a file.
	// RFC 1813 Section 3.3.7
	Write(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppWccResponse, error)

	// Create creates a regular file.
	// RFC 1813 Section 3.3.8
	Create(fsys vfs.FileSystem, req *nfs.CreateRequest) (*nfs.CreateResponse, error)

	// Mkdir creates a directory.
	// RFC 1813 Section 3.3.9
	Mkdir(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppWccResponse, error)

	// Symlink creates a symbolic link.
	// RFC 1813 Section 3.3.10
	Symlink(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppWccResponse, error)

	// Mknod creates a special device file.
	// RFC 1813 Section 3.3.11
	Mknod(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppWccResponse, error)

	// Remove removes a file.
	// RFC 1813 Section 3.3.12
	Remove(fsys vfs.FileSystem, req *nfs.RemoveRequest) (*nfs.RemoveResponse, error)

	// Rmdir removes a directory.
	// RFC 1813 Section 3.3.13
	Rmdir(fsys vfs.FileSystem, req *nfs.RemoveRequest) (*nfs.RemoveResponse, error)

	// Rename renames a file or directory.
	// RFC 1813 Section 3.3.14
	Rename(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppRenameResponse, error)

	// Link creates a hard link to a file.
	// RFC 1813 Section 3.3.15
	Link(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppLinkResponse, error)

	// ReadDir reads entries from a directory.
	// RFC 1813 Section 3.3.16
	ReadDir(fsys vfs.FileSystem, req *nfs.ReadDirRequest) (*nfs.ReadDirResponse, error)

	// ReadDirPlus reads entries from a directory with their attributes.
	// RFC 1813 Section 3.3.17
	ReadDirPlus(fsys vfs.FileSystem, req *nfs.ReadDirPlusRequest) (*nfs.ReadDirPlusResponse, error)

	// FsStat returns dynamic information about a file system.
	// RFC 1813 Section 3.3.18
	FsStat(fsys vfs.FileSystem, req *nfs.FsStatRequest) (*nfs.FsStatResponse, error)

	// FsInfo returns static information about a file system.
	// RFC 1813 Section 3.3.19
	FsInfo(fsys vfs.FileSystem, req *nfs.FsInfoRequest) (*nfs.FsInfoResponse, error)

	// PathConf returns POSIX information about a file system object.
	// RFC 1813 Section 3.3.20
	PathConf(fsys vfs.FileSystem, req *nfs.PathConfRequest) (*nfs.PathConfResponse, error)

	// Commit commits cached data on the server to stable storage.
	// RFC 1813 Section 3.3.21
	Commit(fsys vfs.FileSystem, data []byte) (*nfs.NotSuppWccResponse, error)
}

type MountHandler interface {
	// MountNull does nothing. This is used to test connectivity.
	// RFC 1813 Appendix I
	MountNull() ([]byte, error)

	// Mount returns a file handle for the requested export path.
	// RFC 1813 Appendix I
	Mount(fsys vfs.FileSystem, req *mount.MountRequest) (*mount.MountResponse, error)

	// Umnt removes a mount entry from the mount list.
	// RFC 1813 Appendix I
	Umnt(req *mount.UmountRequest) (*mount.UmountResponse, error)

	// UmntAll removes all mount entries for the calling client.
	// RFC 1813 Appendix I
	UmntAll() (*mount.UmountResponse, error)

	// Export returns a list of all exported file systems.
	// RFC 1813 Appendix I
	Export(req *mount.ExportRequest) (*mount.ExportResponse, error)
}
