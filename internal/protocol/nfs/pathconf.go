package nfs

import (
	"bytes"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// PathConfRequest represents a PATHCONF request
type PathConfRequest struct {
	Handle vfs.Handle
}

// PathConfResponse represents a PATHCONF response
type PathConfResponse struct {
	Status   uint32
	Attr     *FileAttr
	LinkMax  uint32
	NameMax  uint32
	NoTrunc  bool
	ChownRes bool
}

// PathConf returns POSIX pathconf information.
// RFC 1813 Section 3.3.20
func (h *DefaultNFSHandler) PathConf(fsys vfs.FileSystem, req *PathConfRequest) (*PathConfResponse, error) {
	logger.Debug("PATHCONF %s", req.Handle)

	return &PathConfResponse{
		Status:   NFS3OK,
		Attr:     postOpAttr(fsys, req.Handle),
		LinkMax:  1,
		NameMax:  255,
		NoTrunc:  true,
		ChownRes: false,
	}, nil
}

func DecodePathConfRequest(data []byte) (*PathConfRequest, error) {
	r := bytes.NewReader(data)

	handle, err := readHandle(r)
	if err != nil {
		return nil, err
	}
	return &PathConfRequest{Handle: handle}, nil
}

func (resp *PathConfResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, resp.Status)
	writePostOpAttr(&buf, resp.Attr)
	if resp.Status != NFS3OK {
		return buf.Bytes(), nil
	}

	writeUint32(&buf, resp.LinkMax)
	writeUint32(&buf, resp.NameMax)
	writeBool(&buf, resp.NoTrunc)
	writeBool(&buf, resp.ChownRes)
	writeBool(&buf, false) // case_insensitive
	writeBool(&buf, true)  // case_preserving

	return buf.Bytes(), nil
}
