package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// LookupRequest represents a LOOKUP request
type LookupRequest struct {
	DirHandle vfs.Handle
	Filename  string
}

// LookupResponse represents a LOOKUP response
type LookupResponse struct {
	Status  uint32
	Handle  vfs.Handle // only present if Status == NFS3OK
	Attr    *FileAttr  // only present if Status == NFS3OK
	DirAttr *FileAttr  // post-op attributes for the directory (optional)
}

// Lookup searches a directory for a specific name and returns its file handle.
// RFC 1813 Section 3.3.3
func (h *DefaultNFSHandler) Lookup(fsys vfs.FileSystem, req *LookupRequest) (*LookupResponse, error) {
	logger.Debug("LOOKUP %q in %s", req.Filename, req.DirHandle)

	dirStat, err := fsys.GetAttr(req.DirHandle)
	if err != nil {
		return &LookupResponse{Status: statusFromError(err)}, nil
	}
	if dirStat.Type() != vfs.FileTypeDirectory {
		return &LookupResponse{Status: NFS3ErrNotDir, DirAttr: toFileAttr(dirStat)}, nil
	}
	dirAttr := toFileAttr(dirStat)

	handle, err := fsys.Lookup(req.DirHandle, req.Filename)
	if err != nil {
		logger.Debug("LOOKUP %q: %v", req.Filename, err)
		return &LookupResponse{Status: statusFromError(err), DirAttr: dirAttr}, nil
	}

	stat, err := fsys.GetAttr(handle)
	if err != nil {
		return &LookupResponse{Status: statusFromError(err), DirAttr: dirAttr}, nil
	}

	return &LookupResponse{
		Status:  NFS3OK,
		Handle:  handle,
		Attr:    toFileAttr(stat),
		DirAttr: dirAttr,
	}, nil
}

func DecodeLookupRequest(data []byte) (*LookupRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}

	return &LookupRequest{DirHandle: handle, Filename: name}, nil
}

func (resp *LookupResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	if resp.Status == NFS3OK {
		writeOpaque(&buf, resp.Handle.Bytes())
		writePostOpAttr(&buf, resp.Attr)
	}
	writePostOpAttr(&buf, resp.DirAttr)

	return buf.Bytes(), nil
}
