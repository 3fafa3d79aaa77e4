package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// FSINFO properties (RFC 1813 Section 3.3.19)
const (
	FSFLink        = 0x0001
	FSFSymlink     = 0x0002
	FSFHomogeneous = 0x0008
	FSFCanSetTime  = 0x0010
)

// FsInfoRequest represents an FSINFO request
type FsInfoRequest struct {
	Handle vfs.Handle
}

// FsInfoResponse represents an FSINFO response
type FsInfoResponse struct {
	Status uint32
	Attr   *FileAttr

	RtMax  uint32
	RtPref uint32
	RtMult uint32
	WtMax  uint32
	WtPref uint32
	WtMult uint32
	DtPref uint32

	MaxFileSize uint64
	Properties  uint32
}

// FsInfo returns static information about the file system.
// RFC 1813 Section 3.3.19
func (h *DefaultNFSHandler) FsInfo(fsys vfs.FileSystem, req *FsInfoRequest) (*FsInfoResponse, error) {
	logger.Debug("FSINFO %s", req.Handle)

	return &FsInfoResponse{
		Status: NFS3OK,
		Attr:   postOpAttr(fsys, req.Handle),

		RtMax:  65536,
		RtPref: 65536,
		RtMult: 4096,
		WtMax:  65536,
		WtPref: 65536,
		WtMult: 4096,
		DtPref: 65536,

		MaxFileSize: 0xFFFFFFFFFFFFFFFF,
		Properties:  FSFLink | FSFSymlink | FSFHomogeneous | FSFCanSetTime,
	}, nil
}

func DecodeFsInfoRequest(data []byte) (*FsInfoRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	return &FsInfoRequest{Handle: handle}, nil
}

func (resp *FsInfoResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.Attr)
	if resp.Status != NFS3OK {
		return buf.Bytes(), nil
	}

	writeUint32(&buf, resp.RtMax)
	writeUint32(&buf, resp.RtPref)
	writeUint32(&buf, resp.RtMult)
	writeUint32(&buf, resp.WtMax)
	writeUint32(&buf, resp.WtPref)
	writeUint32(&buf, resp.WtMult)
	writeUint32(&buf, resp.DtPref)
	writeUint64(&buf, resp.MaxFileSize)

	// time_delta: 1 nanosecond resolution
	writeUint32(&buf, 0)
	writeUint32(&buf, 1)

	writeUint32(&buf, resp.Properties)

	return buf.Bytes(), nil
}
