package mount

import (
	"bytes"
	"fmt"

	"github.com/jameshightower/simple-nfs/internal/logger"
	xdr "github.com/rasky/go-xdr/xdr2"
)

// UmountRequest represents an UMNT request
type UmountRequest struct {
	DirPath string
}

// UmountResponse represents an UMNT response (void - no response data)
type UmountResponse struct{}

// Umnt acknowledges an unmount. The server keeps no mount table, so there
// is nothing to remove.
// RFC 1813 Appendix I
func (h *DefaultMountHandler) Umnt(req *UmountRequest) (*UmountResponse, error) {
	logger.Info("UMOUNT called for path: %s", req.DirPath)
	return &UmountResponse{}, nil
}

// UmntAll acknowledges an unmount-all for the calling client.
// RFC 1813 Appendix I
func (h *DefaultMountHandler) UmntAll() (*UmountResponse, error) {
	logger.Info("UMNTALL called")
	return &UmountResponse{}, nil
}

func DecodeUmountRequest(data []byte) (*UmountRequest, error) {
	req := &UmountRequest{}
	_, err := xdr.Unmarshal(bytes.NewReader(data), req)
	if err != nil {
		return nil, fmt.Errorf("unmarshal umount request: %w", err)
	}
	return req, nil
}

func (resp *UmountResponse) Encode() ([]byte, error) {
	// UMNT returns void (no data)
	return []byte{}, nil
}
