package mount

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/pkg/vfs"
	xdr "github.com/rasky/go-xdr/xdr2"
)

// DefaultMountHandler serves the MOUNT v3 program for a single export.
type DefaultMountHandler struct {
	// ExportName is the path clients pass to MNT, e.g. "/export".
	ExportName string
}

// MountRequest represents a MOUNT request
type MountRequest struct {
	DirPath string
}

// MountResponse represents a MOUNT response
type MountResponse struct {
	Status      uint32
	FileHandle  []byte
	AuthFlavors []int32
}

// DecodeMountRequest is the "static factory" function
func DecodeMountRequest(data []byte) (*MountRequest, error) {
	req := &MountRequest{}
	_, err := xdr.Unmarshal(bytes.NewReader(data), req)

	if err != nil {
		return nil, err
	}
	return req, nil
}

func (resp *MountResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.BigEndian, resp.Status); err != nil {
		return nil, fmt.Errorf("write status: %w", err)
	}

	if resp.Status != MountOK {
		return buf.Bytes(), nil
	}

	// File handle (opaque data)
	handleLen := uint32(len(resp.FileHandle))
	if err := binary.Write(&buf, binary.BigEndian, handleLen); err != nil {
		return nil, fmt.Errorf("write handle length: %w", err)
	}
	buf.Write(resp.FileHandle)

	padding := (4 - (handleLen % 4)) % 4
	for i := 0; i < int(padding); i++ {
		buf.WriteByte(0)
	}

	authCount := uint32(len(resp.AuthFlavors))
	if err := binary.Write(&buf, binary.BigEndian, authCount); err != nil {
		return nil, fmt.Errorf("write auth count: %w", err)
	}
	for _, flavor := range resp.AuthFlavors {
		if err := binary.Write(&buf, binary.BigEndian, flavor); err != nil {
			return nil, fmt.Errorf("write auth flavor: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// Mount returns the root file handle for the requested export path.
// This is the primary procedure used to mount an NFS file system.
// RFC 1813 Appendix I
func (h *DefaultMountHandler) Mount(fsys vfs.FileSystem, req *MountRequest) (*MountResponse, error) {
	logger.Debug("Mount called for path: %s", req.DirPath)

	if req.DirPath != h.ExportName {
		logger.Debug("Export not found: %s", req.DirPath)
		return &MountResponse{
			Status: MountErrNoEnt,
		}, nil
	}

	root := fsys.Root()
	logger.Info("Mount successful: %s -> %s", req.DirPath, root)

	return &MountResponse{
		Status:      MountOK,
		FileHandle:  root.Bytes(),
		AuthFlavors: []int32{0}, // AUTH_NULL
	}, nil
}

// MountNull does nothing. This is used to test connectivity.
// RFC 1813 Appendix I
func (h *DefaultMountHandler) MountNull() ([]byte, error) {
	return []byte{}, nil
}
