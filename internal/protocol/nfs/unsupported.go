package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// The backing store is metadata-only: data access and the remaining
// namespace mutations answer NFS3ERR_NOTSUPP with the response shape the
// procedure requires, so clients fail cleanly instead of hanging.

// NotSuppReadResponse is the failure arm of a READ response.
type NotSuppReadResponse struct {
	Status uint32
	Attr   *FileAttr
}

// NotSuppWccResponse is the failure arm of procedures whose result
// carries a single wcc_data (WRITE, MKDIR, SYMLINK, MKNOD, COMMIT).
type NotSuppWccResponse struct {
	Status  uint32
	DirAttr *FileAttr
}

// NotSuppRenameResponse is the failure arm of a RENAME response.
type NotSuppRenameResponse struct {
	Status   uint32
	FromAttr *FileAttr
	ToAttr   *FileAttr
}

// NotSuppLinkResponse is the failure arm of a LINK response.
type NotSuppLinkResponse struct {
	Status   uint32
	FileAttr *FileAttr
	DirAttr  *FileAttr
}

// Read rejects READ requests. The file handle is decoded so the reply can
// still carry post-op attributes.
func (h *DefaultNFSHandler) Read(fsys vfs.FileSystem, data []byte) (*NotSuppReadResponse, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return &NotSuppReadResponse{Status: NFS3ErrBadHandle}, nil
	}
	logger.Debug("READ %s: not supported", handle)

	return &NotSuppReadResponse{Status: NFS3ErrNotSupp, Attr: postOpAttr(fsys, handle)}, nil
}

// Write rejects WRITE requests.
func (h *DefaultNFSHandler) Write(fsys vfs.FileSystem, data []byte) (*NotSuppWccResponse, error) {
	return notSuppWcc(fsys, data, "WRITE")
}

// Mkdir rejects MKDIR requests.
func (h *DefaultNFSHandler) Mkdir(fsys vfs.FileSystem, data []byte) (*NotSuppWccResponse, error) {
	return notSuppWcc(fsys, data, "MKDIR")
}

// Symlink rejects SYMLINK requests.
func (h *DefaultNFSHandler) Symlink(fsys vfs.FileSystem, data []byte) (*NotSuppWccResponse, error) {
	return notSuppWcc(fsys, data, "SYMLINK")
}

// Mknod rejects MKNOD requests.
func (h *DefaultNFSHandler) Mknod(fsys vfs.FileSystem, data []byte) (*NotSuppWccResponse, error) {
	return notSuppWcc(fsys, data, "MKNOD")
}

// Commit rejects COMMIT requests.
func (h *DefaultNFSHandler) Commit(fsys vfs.FileSystem, data []byte) (*NotSuppWccResponse, error) {
	return notSuppWcc(fsys, data, "COMMIT")
}

// Rename rejects RENAME requests.
func (h *DefaultNFSHandler) Rename(fsys vfs.FileSystem, data []byte) (*NotSuppRenameResponse, error) {
	r := bytes.NewReader(data)

	from, err := readHandle(r)
	if err != nil {
		return &NotSuppRenameResponse{Status: NFS3ErrBadHandle}, nil
	}
	if _, err := readString(r); err != nil {
		return &NotSuppRenameResponse{Status: NFS3ErrBadHandle}, nil
	}
	to, err := readHandle(r)
	if err != nil {
		return &NotSuppRenameResponse{Status: NFS3ErrBadHandle}, nil
	}
	logger.Debug("RENAME %s -> %s: not supported", from, to)

	return &NotSuppRenameResponse{
		Status:   NFS3ErrNotSupp,
		FromAttr: postOpAttr(fsys, from),
		ToAttr:   postOpAttr(fsys, to),
	}, nil
}

// Link rejects LINK requests.
func (h *DefaultNFSHandler) Link(fsys vfs.FileSystem, data []byte) (*NotSuppLinkResponse, error) {
	r := bytes.NewReader(data)

	file, err := readHandle(r)
	if err != nil {
		return &NotSuppLinkResponse{Status: NFS3ErrBadHandle}, nil
	}
	dir, err := readHandle(r)
	if err != nil {
		return &NotSuppLinkResponse{Status: NFS3ErrBadHandle}, nil
	}
	logger.Debug("LINK %s in %s: not supported", file, dir)

	return &NotSuppLinkResponse{
		Status:   NFS3ErrNotSupp,
		FileAttr: postOpAttr(fsys, file),
		DirAttr:  postOpAttr(fsys, dir),
	}, nil
}

func notSuppWcc(fsys vfs.FileSystem, data []byte, procedure string) (*NotSuppWccResponse, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return &NotSuppWccResponse{Status: NFS3ErrBadHandle}, nil
	}
	logger.Debug("%s %s: not supported", procedure, handle)

	return &NotSuppWccResponse{Status: NFS3ErrNotSupp, DirAttr: postOpAttr(fsys, handle)}, nil
}

func (resp *NotSuppReadResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.Attr)

	return buf.Bytes(), nil
}

func (resp *NotSuppWccResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writeWccData(&buf, resp.DirAttr)

	return buf.Bytes(), nil
}

func (resp *NotSuppRenameResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writeWccData(&buf, resp.FromAttr)
	writeWccData(&buf, resp.ToAttr)

	return buf.Bytes(), nil
}

func (resp *NotSuppLinkResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.FileAttr)
	writeWccData(&buf, resp.DirAttr)

	return buf.Bytes(), nil
}
