package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// FsStatRequest represents an FSSTAT request
type FsStatRequest struct {
	Handle vfs.Handle
}

// FsStatResponse represents an FSSTAT response
type FsStatResponse struct {
	Status     uint32
	Attr       *FileAttr
	TotalBytes uint64
	FreeBytes  uint64
	AvailBytes uint64
	TotalFiles uint64
	FreeFiles  uint64
	AvailFiles uint64
}

// FsStat returns dynamic information about a file system.
// RFC 1813 Section 3.3.18
//
// Byte counts come from the backing volume; file counts are not computed
// and read as zero.
func (h *DefaultNFSHandler) FsStat(fsys vfs.FileSystem, req *FsStatRequest) (*FsStatResponse, error) {
	logger.Debug("FSSTAT %s", req.Handle)

	stat, err := fsys.StatFS()
	if err != nil {
		return &FsStatResponse{Status: statusFromError(err), Attr: postOpAttr(fsys, req.Handle)}, nil
	}

	free := stat.TotalBytes - stat.UsedBytes

	return &FsStatResponse{
		Status:     NFS3OK,
		Attr:       postOpAttr(fsys, req.Handle),
		TotalBytes: stat.TotalBytes,
		FreeBytes:  free,
		AvailBytes: free,
		TotalFiles: stat.TotalFiles,
		FreeFiles:  stat.TotalFiles - stat.UsedFiles,
		AvailFiles: stat.TotalFiles - stat.UsedFiles,
	}, nil
}

func DecodeFsStatRequest(data []byte) (*FsStatRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	return &FsStatRequest{Handle: handle}, nil
}

func (resp *FsStatResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.Attr)
	if resp.Status != NFS3OK {
		return buf.Bytes(), nil
	}

	writeUint64(&buf, resp.TotalBytes)
	writeUint64(&buf, resp.FreeBytes)
	writeUint64(&buf, resp.AvailBytes)
	writeUint64(&buf, resp.TotalFiles)
	writeUint64(&buf, resp.FreeFiles)
	writeUint64(&buf, resp.AvailFiles)
	writeUint32(&buf, 0) // invarsec

	return buf.Bytes(), nil
}
