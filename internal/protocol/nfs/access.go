package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// AccessRequest represents an ACCESS request
type AccessRequest struct {
	Handle vfs.Handle
	Access uint32
}

// AccessResponse represents an ACCESS response
type AccessResponse struct {
	Status uint32
	Attr   *FileAttr
	Access uint32
}

// Access checks access permissions for a file system object.
// RFC 1813 Section 3.3.4
//
// The underlying filesystem grants whatever was requested; only existence of
// the object is verified.
func (h *DefaultNFSHandler) Access(fsys vfs.FileSystem, req *AccessRequest) (*AccessResponse, error) {
	logger.Debug("ACCESS %s mask=0x%x", req.Handle, req.Access)

	stat, err := fsys.GetAttr(req.Handle)
	if err != nil {
		return &AccessResponse{Status: statusFromError(err)}, nil
	}

	granted, err := fsys.Access(req.Handle, req.Access)
	if err != nil {
		return &AccessResponse{Status: statusFromError(err), Attr: toFileAttr(stat)}, nil
	}

	return &AccessResponse{
		Status: NFS3OK,
		Attr:   toFileAttr(stat),
		Access: granted,
	}, nil
}

func DecodeAccessRequest(data []byte) (*AccessRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	mask, err := readUint32(r)
	if err != nil {
		return nil, err
	}

	return &AccessRequest{Handle: handle, Access: mask}, nil
}

func (resp *AccessResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.Attr)
	if resp.Status == NFS3OK {
		writeUint32(&buf, resp.Access)
	}
	return buf.Bytes(), nil
}
