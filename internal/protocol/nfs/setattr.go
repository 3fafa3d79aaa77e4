package nfs

import (
	"bytes"
	"fmt"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// SetAttrRequest represents a SETATTR request
type SetAttrRequest struct {
	Handle vfs.Handle
	Attr   *SetAttrFields
}

// SetAttrResponse represents a SETATTR response
type SetAttrResponse struct {
	Status uint32
	Attr   *FileAttr
}

// SetAttr sets the attributes for a file system object.
// RFC 1813 Section 3.3.2
//
// Nothing is persisted beyond what the backing filesystem already stores;
// the request succeeds as long as the object still exists.
func (h *DefaultNFSHandler) SetAttr(fsys vfs.FileSystem, req *SetAttrRequest) (*SetAttrResponse, error) {
	logger.Debug("SETATTR %s", req.Handle)

	if err := fsys.SetAttr(req.Handle, nil); err != nil {
		return &SetAttrResponse{Status: statusFromError(err)}, nil
	}

	return &SetAttrResponse{Status: NFS3OK, Attr: postOpAttr(fsys, req.Handle)}, nil
}

func DecodeSetAttrRequest(data []byte) (*SetAttrRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	attr, err := readSattr3(r)
	if err != nil {
		return nil, err
	}

	// The sattrguard3 member follows; consume the discriminant and any
	// guard time to stay aligned.
	check, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read sattrguard3: %w", err)
	}
	if check != 0 {
		if _, err := readUint32(r); err != nil {
			return nil, fmt.Errorf("read guard seconds: %w", err)
		}
		if _, err := readUint32(r); err != nil {
			return nil, fmt.Errorf("read guard nseconds: %w", err)
		}
	}

	return &SetAttrRequest{Handle: handle, Attr: attr}, nil
}

func (resp *SetAttrResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writeWccData(&buf, resp.Attr)

	return buf.Bytes(), nil
}
