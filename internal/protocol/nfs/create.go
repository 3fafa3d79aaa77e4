package nfs

import (
	"bytes"
	"fmt"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// Create modes (createmode3).
const (
	createUnchecked = 0
	createGuarded   = 1
	createExclusive = 2
)

// CreateRequest represents a CREATE request
type CreateRequest struct {
	DirHandle vfs.Handle
	Filename  string
	Mode      uint32
	Attr      *SetAttrFields
}

// CreateResponse represents a CREATE response
type CreateResponse struct {
	Status  uint32
	Handle  vfs.Handle
	Attr    *FileAttr
	DirAttr *FileAttr
}

// Create creates a regular file.
// RFC 1813 Section 3.3.8
func (h *DefaultNFSHandler) Create(fsys vfs.FileSystem, req *CreateRequest) (*CreateResponse, error) {
	logger.Debug("CREATE %q in %s", req.Filename, req.DirHandle)

	if req.Mode == createExclusive {
		// Exclusive create verifiers are not stored anywhere.
		return &CreateResponse{Status: NFS3ErrNotSupp}, nil
	}

	mode := uint32(0o644)
	var uid, gid uint32
	if req.Attr != nil {
		if req.Attr.Mode != nil {
			mode = *req.Attr.Mode
		}
		if req.Attr.UID != nil {
			uid = *req.Attr.UID
		}
		if req.Attr.GID != nil {
			gid = *req.Attr.GID
		}
	}

	handle, err := fsys.Create(req.DirHandle, vfs.FileTypeRegular, req.Filename, uid, gid, mode)
	if err != nil {
		logger.Debug("CREATE %q failed: %v", req.Filename, err)
		return &CreateResponse{Status: statusFromError(err), DirAttr: postOpAttr(fsys, req.DirHandle)}, nil
	}

	return &CreateResponse{
		Status:  NFS3OK,
		Handle:  handle,
		Attr:    postOpAttr(fsys, handle),
		DirAttr: postOpAttr(fsys, req.DirHandle),
	}, nil
}

// postOpAttr fetches attributes on a best-effort basis for post-operation
// reporting; failures simply omit the attributes.
func postOpAttr(fsys vfs.FileSystem, h vfs.Handle) *FileAttr {
	stat, err := fsys.GetAttr(h)
	if err != nil {
		return nil
	}
	return toFileAttr(stat)
}

func DecodeCreateRequest(data []byte) (*CreateRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	mode, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read createmode3: %w", err)
	}

	req := &CreateRequest{DirHandle: handle, Filename: name, Mode: mode}

	// UNCHECKED and GUARDED carry an sattr3; EXCLUSIVE carries a verifier.
	if mode == createUnchecked || mode == createGuarded {
		attr, err := readSattr3(r)
		if err != nil {
			return nil, err
		}
		req.Attr = attr
	}

	return req, nil
}

func (resp *CreateResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	if resp.Status == NFS3OK {
		writeBool(&buf, true)
		writeOpaque(&buf, resp.Handle.Bytes())
		writePostOpAttr(&buf, resp.Attr)
	}
	writeWccData(&buf, resp.DirAttr)

	return buf.Bytes(), nil
}
