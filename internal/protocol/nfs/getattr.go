package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// GetAttrRequest represents a GETATTR request
type GetAttrRequest struct {
	Handle vfs.Handle
}

// GetAttrResponse represents a GETATTR response
type GetAttrResponse struct {
	Status uint32
	Attr   *FileAttr // only present if Status == NFS3OK
}

// GetAttr returns the attributes for a file system object.
// RFC 1813 Section 3.3.1
func (h *DefaultNFSHandler) GetAttr(fsys vfs.FileSystem, req *GetAttrRequest) (*GetAttrResponse, error) {
	logger.Debug("GETATTR %s", req.Handle)

	stat, err := fsys.GetAttr(req.Handle)
	if err != nil {
		logger.Debug("GETATTR %s failed: %v", req.Handle, err)
		return &GetAttrResponse{Status: statusFromError(err)}, nil
	}

	return &GetAttrResponse{
		Status: NFS3OK,
		Attr:   toFileAttr(stat),
	}, nil
}

func DecodeGetAttrRequest(data []byte) (*GetAttrRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	return &GetAttrRequest{Handle: handle}, nil
}

func (resp *GetAttrResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	if resp.Status == NFS3OK {
		writeFileAttr(&buf, resp.Attr)
	}
	return buf.Bytes(), nil
}
