package nfs

import (
	"bytes"
	"io"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// ReadDirRequest represents a READDIR request
type ReadDirRequest struct {
	DirHandle  vfs.Handle
	Cookie     uint64
	CookieVerf [8]byte
	Count      uint32
}

// ReadDirEntry is one entry of a READDIR response
type ReadDirEntry struct {
	FileID uint64
	Name   string
	Cookie uint64
}

// ReadDirResponse represents a READDIR response
type ReadDirResponse struct {
	Status  uint32
	DirAttr *FileAttr
	Entries []ReadDirEntry
	EOF     bool
}

// ReadDir reads entries from a directory.
// RFC 1813 Section 3.3.16
//
// The listing is materialized per call and the cookie is a position in that
// listing; a directory that mutates between calls may skip or repeat names,
// which matches the no-snapshot contract of the underlying listing.
func (h *DefaultNFSHandler) ReadDir(fsys vfs.FileSystem, req *ReadDirRequest) (*ReadDirResponse, error) {
	logger.Debug("READDIR %s cookie=%d", req.DirHandle, req.Cookie)

	dirStat, err := fsys.GetAttr(req.DirHandle)
	if err != nil {
		return &ReadDirResponse{Status: statusFromError(err)}, nil
	}
	if dirStat.Type() != vfs.FileTypeDirectory {
		return &ReadDirResponse{Status: NFS3ErrNotDir, DirAttr: toFileAttr(dirStat)}, nil
	}

	children, err := fsys.ReadDir(req.DirHandle)
	if err != nil {
		return &ReadDirResponse{Status: statusFromError(err), DirAttr: toFileAttr(dirStat)}, nil
	}

	resp := &ReadDirResponse{
		Status:  NFS3OK,
		DirAttr: toFileAttr(dirStat),
		EOF:     true,
	}

	// Rough per-entry wire cost, used to honor the client's count limit.
	used := uint32(0)
	for i, child := range children {
		cookie := uint64(i + 1)
		if cookie <= req.Cookie {
			continue
		}

		cost := uint32(24 + len(child.Name))
		if req.Count > 0 && used+cost > req.Count && len(resp.Entries) > 0 {
			resp.EOF = false
			break
		}
		used += cost

		resp.Entries = append(resp.Entries, ReadDirEntry{
			FileID: child.Stat.FileID,
			Name:   child.Name,
			Cookie: cookie,
		})
	}

	return resp, nil
}

func DecodeReadDirRequest(data []byte) (*ReadDirRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}

	req := &ReadDirRequest{DirHandle: handle}
	if req.Cookie, err = readUint64(r); err != nil {
		return nil, err
	}
	if _, err = io.ReadFull(r, req.CookieVerf[:]); err != nil {
		return nil, err
	}
	if req.Count, err = readUint32(r); err != nil {
		return nil, err
	}

	return req, nil
}

func (resp *ReadDirResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.DirAttr)
	if resp.Status != NFS3OK {
		return buf.Bytes(), nil
	}

	// Cookie verifier: unused, the listing is position based.
	buf.Write(make([]byte, 8))

	for _, entry := range resp.Entries {
		writeBool(&buf, true)
		writeUint64(&buf, entry.FileID)
		writeString(&buf, entry.Name)
		writeUint64(&buf, entry.Cookie)
	}
	writeBool(&buf, false)
	writeBool(&buf, resp.EOF)

	return buf.Bytes(), nil
}
