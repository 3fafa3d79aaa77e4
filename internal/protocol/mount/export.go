package mount

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/jameshightower/simple-nfs/internal/logger"
)

// ExportRequest represents an EXPORT request. EXPORT takes no parameters.
type ExportRequest struct{}

// ExportResponse represents the response to an EXPORT request: the list of
// file systems the server makes available for mounting.
type ExportResponse struct {
	Entries []ExportEntry
}

// ExportEntry corresponds to the "exportnode" type in RFC 1813 Appendix I.
type ExportEntry struct {
	// Directory is the path clients use in the MOUNT procedure.
	Directory string

	// Groups lists clients allowed to mount this export. Empty means
	// world-exportable.
	Groups []string
}

// Export returns the export list. The server exposes a single export.
// RFC 1813 Appendix I
func (h *DefaultMountHandler) Export(req *ExportRequest) (*ExportResponse, error) {
	logger.Debug("Export request: listing available exports")

	return &ExportResponse{
		Entries: []ExportEntry{
			{Directory: h.ExportName, Groups: []string{}},
		},
	}, nil
}

// DecodeExportRequest decodes an EXPORT request. EXPORT has no parameters;
// non-empty data is tolerated for lenient clients.
func DecodeExportRequest(data []byte) (*ExportRequest, error) {
	return &ExportRequest{}, nil
}

// Encode serializes the export list as an XDR linked list: each entry is
// preceded by value_follows=TRUE, the groups of each entry form a nested
// linked list, and a final value_follows=FALSE terminates the whole list.
func (resp *ExportResponse) Encode() ([]byte, error) {
	var buf bytes.Buffer

	for _, entry := range resp.Entries {
		if err := binary.Write(&buf, binary.BigEndian, uint32(1)); err != nil {
			return nil, fmt.Errorf("write value_follows: %w", err)
		}

		if err := writeXDRString(&buf, entry.Directory); err != nil {
			return nil, fmt.Errorf("write directory: %w", err)
		}

		for _, group := range entry.Groups {
			if err := binary.Write(&buf, binary.BigEndian, uint32(1)); err != nil {
				return nil, fmt.Errorf("write groups value_follows: %w", err)
			}
			if err := writeXDRString(&buf, group); err != nil {
				return nil, fmt.Errorf("write group: %w", err)
			}
		}

		if err := binary.Write(&buf, binary.BigEndian, uint32(0)); err != nil {
			return nil, fmt.Errorf("write groups end marker: %w", err)
		}
	}

	if err := binary.Write(&buf, binary.BigEndian, uint32(0)); err != nil {
		return nil, fmt.Errorf("write final value_follows: %w", err)
	}

	return buf.Bytes(), nil
}

func writeXDRString(buf *bytes.Buffer, s string) error {
	length := uint32(len(s))
	if err := binary.Write(buf, binary.BigEndian, length); err != nil {
		return err
	}
	buf.WriteString(s)

	padding := (4 - (length % 4)) % 4
	buf.Write(make([]byte, padding))
	return nil
}
