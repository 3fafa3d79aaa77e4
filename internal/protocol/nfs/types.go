package nfs

import (
	"github.com/jameshightower/simple-nfs/pkg/vfs"
)

// DefaultNFSHandler implements every NFSv3 procedure against a
// vfs.FileSystem.
type DefaultNFSHandler struct{}

// TimeVal is the NFSv3 wire representation of a timestamp.
type TimeVal struct {
	Seconds  uint32
	Nseconds uint32
}

// SpecData is the NFSv3 wire representation of a device number.
type SpecData struct {
	Major uint32
	Minor uint32
}

// FileAttr is the NFSv3 fattr3 structure.
type FileAttr struct {
	Type   uint32
	Mode   uint32
	Nlink  uint32
	UID    uint32
	GID    uint32
	Size   uint64
	Used   uint64
	Rdev   SpecData
	Fsid   uint64
	Fileid uint64
	Atime  TimeVal
	Mtime  TimeVal
	Ctime  TimeVal
}

// toFileAttr translates the protocol-neutral attribute record into the
// NFSv3 wire shape.
func toFileAttr(stat *vfs.Stat) *FileAttr {
	var ftype uint32
	switch stat.Type() {
	case vfs.FileTypeDirectory:
		ftype = NF3Dir
	case vfs.FileTypeRegular:
		ftype = NF3Reg
	case vfs.FileTypeSymlink:
		ftype = NF3Lnk
	default:
		ftype = NF3Sock
	}

	return &FileAttr{
		Type:   ftype,
		Mode:   stat.Mode & vfs.ModePermMask,
		Nlink:  stat.Nlink,
		UID:    stat.UID,
		GID:    stat.GID,
		Size:   stat.Size,
		Used:   stat.Size,
		Rdev:   SpecData{Major: 0, Minor: uint32(stat.Rdev)},
		Fsid:   stat.Dev,
		Fileid: stat.FileID,
		Atime:  toTimeVal(stat.Atime.Unix(), stat.Atime.Nanosecond()),
		Mtime:  toTimeVal(stat.Mtime.Unix(), stat.Mtime.Nanosecond()),
		Ctime:  toTimeVal(stat.Ctime.Unix(), stat.Ctime.Nanosecond()),
	}
}

func toTimeVal(sec int64, nsec int) TimeVal {
	return TimeVal{Seconds: uint32(sec), Nseconds: uint32(nsec)}
}
