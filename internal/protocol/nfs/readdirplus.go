package nfs

import (
	"bytes"
	"io"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// ReadDirPlusRequest represents a READDIRPLUS request
type ReadDirPlusRequest struct {
	DirHandle  vfs.Handle
	Cookie     uint64
	CookieVerf [8]byte
	DirCount   uint32
	MaxCount   uint32
}

// ReadDirPlusEntry is one entry of a READDIRPLUS response, carrying the
// child's handle and attributes alongside the name.
type ReadDirPlusEntry struct {
	FileID uint64
	Name   string
	Cookie uint64
	Attr   *FileAttr
	Handle vfs.Handle
}

// ReadDirPlusResponse represents a READDIRPLUS response
type ReadDirPlusResponse struct {
	Status  uint32
	DirAttr *FileAttr
	Entries []ReadDirPlusEntry
	EOF     bool
}

// ReadDirPlus reads entries from a directory with their attributes.
// RFC 1813 Section 3.3.17
func (h *DefaultNFSHandler) ReadDirPlus(fsys vfs.FileSystem, req *ReadDirPlusRequest) (*ReadDirPlusResponse, error) {
	logger.Debug("READDIRPLUS %s cookie=%d", req.DirHandle, req.Cookie)

	dirStat, err := fsys.GetAttr(req.DirHandle)
	if err != nil {
		return &ReadDirPlusResponse{Status: statusFromError(err)}, nil
	}
	if dirStat.Type() != vfs.FileTypeDirectory {
		return &ReadDirPlusResponse{Status: NFS3ErrNotDir, DirAttr: toFileAttr(dirStat)}, nil
	}

	children, err := fsys.ReadDir(req.DirHandle)
	if err != nil {
		return &ReadDirPlusResponse{Status: statusFromError(err), DirAttr: toFileAttr(dirStat)}, nil
	}

	resp := &ReadDirPlusResponse{
		Status:  NFS3OK,
		DirAttr: toFileAttr(dirStat),
		EOF:     true,
	}

	used := uint32(0)
	for i, child := range children {
		cookie := uint64(i + 1)
		if cookie <= req.Cookie {
			continue
		}

		// Attributes plus handle dominate the per-entry wire cost.
		cost := uint32(24 + len(child.Name) + 88 + vfs.HandleSize)
		if req.MaxCount > 0 && used+cost > req.MaxCount && len(resp.Entries) > 0 {
			resp.EOF = false
			break
		}
		used += cost

		resp.Entries = append(resp.Entries, ReadDirPlusEntry{
			FileID: child.Stat.FileID,
			Name:   child.Name,
			Cookie: cookie,
			Attr:   toFileAttr(child.Stat),
			Handle: child.Handle,
		})
	}

	return resp, nil
}

func DecodeReadDirPlusRequest(data []byte) (*ReadDirPlusRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}

	req := &ReadDirPlusRequest{DirHandle: handle}
	if req.Cookie, err = readUint64(r); err != nil {
		return nil, err
	}
	if _, err = io.ReadFull(r, req.CookieVerf[:]); err != nil {
		return nil, err
	}
	if req.DirCount, err = readUint32(r); err != nil {
		return nil, err
	}
	if req.MaxCount, err = readUint32(r); err != nil {
		return nil, err
	}

	return req, nil
}

func (resp *ReadDirPlusResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.DirAttr)
	if resp.Status != NFS3OK {
		return buf.Bytes(), nil
	}

	buf.Write(make([]byte, 8))

	for _, entry := range resp.Entries {
		writeBool(&buf, true)
		writeUint64(&buf, entry.FileID)
		writeString(&buf, entry.Name)
		writeUint64(&buf, entry.Cookie)
		writePostOpAttr(&buf, entry.Attr)
		writeBool(&buf, true)
		writeOpaque(&buf, entry.Handle.Bytes())
	}
	writeBool(&buf, false)
	writeBool(&buf, resp.EOF)

	return buf.Bytes(), nil
}
