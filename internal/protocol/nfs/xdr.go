package nfs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// Shared XDR primitives for the hand-rolled request decoders and response
// encoders. Everything on the wire is big-endian with 4-byte alignment.

// readUint32 reads one XDR unsigned int.
func readUint32(r *bytes.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// readUint64 reads one XDR unsigned hyper.
func readUint64(r *bytes.Reader) (uint64, error) {
	var v uint64
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// readOpaque reads a variable-length opaque: length, bytes, alignment pad.
func readOpaque(r *bytes.Reader) ([]byte, error) {
	length, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read opaque length: %w", err)
	}
	if int(length) > r.Len() {
		return nil, fmt.Errorf("opaque length %d exceeds remaining %d bytes", length, r.Len())
	}

	data := make([]byte, length)
	if _, err := r.Read(data); err != nil {
		return nil, fmt.Errorf("read opaque body: %w", err)
	}

	for i := uint32(0); i < (4-length%4)%4; i++ {
		if _, err := r.ReadByte(); err != nil {
			return nil, fmt.Errorf("read opaque padding: %w", err)
		}
	}
	return data, nil
}

// readString reads an XDR string.
func readString(r *bytes.Reader) (string, error) {
	data, err := readOpaque(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readHandle reads a wire handle and parses it.
func readHandle(r *bytes.Reader) (vfs.Handle, error) {
	data, err := readOpaque(r)
	if err != nil {
		return 0, err
	}
	return vfs.HandleFromBytes(data)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	binary.Write(buf, binary.BigEndian, v)
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	binary.Write(buf, binary.BigEndian, v)
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		writeUint32(buf, 1)
	} else {
		writeUint32(buf, 0)
	}
}

// writeOpaque writes a variable-length opaque with alignment padding.
func writeOpaque(buf *bytes.Buffer, data []byte) {
	writeUint32(buf, uint32(len(data)))
	buf.Write(data)
	for i := 0; i < (4-len(data)%4)%4; i++ {
		buf.WriteByte(0)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeOpaque(buf, []byte(s))
}

// writeFileAttr writes a fattr3.
func writeFileAttr(buf *bytes.Buffer, attr *FileAttr) {
	writeUint32(buf, attr.Type)
	writeUint32(buf, attr.Mode)
	writeUint32(buf, attr.Nlink)
	writeUint32(buf, attr.UID)
	writeUint32(buf, attr.GID)
	writeUint64(buf, attr.Size)
	writeUint64(buf, attr.Used)
	writeUint32(buf, attr.Rdev.Major)
	writeUint32(buf, attr.Rdev.Minor)
	writeUint64(buf, attr.Fsid)
	writeUint64(buf, attr.Fileid)
	writeUint32(buf, attr.Atime.Seconds)
	writeUint32(buf, attr.Atime.Nseconds)
	writeUint32(buf, attr.Mtime.Seconds)
	writeUint32(buf, attr.Mtime.Nseconds)
	writeUint32(buf, attr.Ctime.Seconds)
	writeUint32(buf, attr.Ctime.Nseconds)
}

// writePostOpAttr writes a post_op_attr: attributes_follow plus the
// attributes when present.
func writePostOpAttr(buf *bytes.Buffer, attr *FileAttr) {
	if attr == nil {
		writeBool(buf, false)
		return
	}
	writeBool(buf, true)
	writeFileAttr(buf, attr)
}

// writeWccData writes a wcc_data. Pre-operation attributes are never
// collected here, so the before member is always absent.
func writeWccData(buf *bytes.Buffer, after *FileAttr) {
	writeBool(buf, false)
	writePostOpAttr(buf, after)
}

// statusFromError maps a vfs error to the NFSv3 status reported on the wire.
func statusFromError(err error) uint32 {
	switch {
	case err == nil:
		return NFS3OK
	case errors.Is(err, vfs.ErrNotFound):
		return NFS3ErrNoEnt
	case errors.Is(err, vfs.ErrNotSupported):
		return NFS3ErrNotSupp
	case errors.Is(err, vfs.ErrBadHandle):
		return NFS3ErrBadHandle
	case errors.Is(err, vfs.ErrNotDirectory):
		return NFS3ErrNotDir
	case errors.Is(err, fs.ErrExist):
		return NFS3ErrExist
	case errors.Is(err, fs.ErrPermission):
		return NFS3ErrAcces
	default:
		return NFS3ErrIO
	}
}
