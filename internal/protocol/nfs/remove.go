package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// RemoveRequest represents a REMOVE or RMDIR request; both carry the same
// diropargs3 shape.
type RemoveRequest struct {
	DirHandle vfs.Handle
	Filename  string
}

// RemoveResponse represents a REMOVE or RMDIR response
type RemoveResponse struct {
	Status  uint32
	DirAttr *FileAttr
}

// Remove removes a file.
// RFC 1813 Section 3.3.12
//
// The removed object's handle stays registered; later operations on it
// report NFS3ErrNoEnt because the path is gone.
func (h *DefaultNFSHandler) Remove(fsys vfs.FileSystem, req *RemoveRequest) (*RemoveResponse, error) {
	logger.Debug("REMOVE %q from %s", req.Filename, req.DirHandle)

	if err := fsys.Remove(req.DirHandle, req.Filename); err != nil {
		logger.Debug("REMOVE %q failed: %v", req.Filename, err)
		return &RemoveResponse{Status: statusFromError(err), DirAttr: postOpAttr(fsys, req.DirHandle)}, nil
	}

	return &RemoveResponse{Status: NFS3OK, DirAttr: postOpAttr(fsys, req.DirHandle)}, nil
}

// Rmdir removes a directory.
// RFC 1813 Section 3.3.13
//
// The backing call is the same as Remove and fails for non-empty
// directories.
func (h *DefaultNFSHandler) Rmdir(fsys vfs.FileSystem, req *RemoveRequest) (*RemoveResponse, error) {
	logger.Debug("RMDIR %q from %s", req.Filename, req.DirHandle)

	if err := fsys.Remove(req.DirHandle, req.Filename); err != nil {
		return &RemoveResponse{Status: statusFromError(err), DirAttr: postOpAttr(fsys, req.DirHandle)}, nil
	}

	return &RemoveResponse{Status: NFS3OK, DirAttr: postOpAttr(fsys, req.DirHandle)}, nil
}

func DecodeRemoveRequest(data []byte) (*RemoveRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}

	return &RemoveRequest{DirHandle: handle, Filename: name}, nil
}

func (resp *RemoveResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writeWccData(&buf, resp.DirAttr)

	return buf.Bytes(), nil
}
