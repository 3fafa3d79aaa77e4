package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// ReadLinkRequest represents a READLINK request
type ReadLinkRequest struct {
	Handle vfs.Handle
}

// ReadLinkResponse represents a READLINK response
type ReadLinkResponse struct {
	Status uint32
	Attr   *FileAttr
	Target string
}

// ReadLink reads the data associated with a symbolic link.
// RFC 1813 Section 3.3.5
func (h *DefaultNFSHandler) ReadLink(fsys vfs.FileSystem, req *ReadLinkRequest) (*ReadLinkResponse, error) {
	logger.Debug("READLINK %s", req.Handle)

	stat, err := fsys.GetAttr(req.Handle)
	if err != nil {
		return &ReadLinkResponse{Status: statusFromError(err)}, nil
	}
	attr := toFileAttr(stat)
	if stat.Type() != vfs.FileTypeSymlink {
		return &ReadLinkResponse{Status: NFS3ErrInval, Attr: attr}, nil
	}

	target, err := fsys.ReadLink(req.Handle)
	if err != nil {
		return &ReadLinkResponse{Status: statusFromError(err), Attr: attr}, nil
	}

	return &ReadLinkResponse{Status: NFS3OK, Attr: attr, Target: target}, nil
}

func DecodeReadLinkRequest(data []byte) (*ReadLinkRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	return &ReadLinkRequest{Handle: handle}, nil
}

func (resp *ReadLinkResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.Attr)
	if resp.Status == NFS3OK {
		writeString(&buf, resp.Target)
	}
	return buf.Bytes(), nil
}
