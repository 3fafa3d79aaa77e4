package nfs

// NFSv3 procedure numbers (RFC 1813 Section 3.3).
const (
	NFSProcNull        = 0
	NFSProcGetAttr     = 1
	NFSProcSetAttr     = 2
	NFSProcLookup      = 3
	NFSProcAccess      = 4
	NFSProcReadLink    = 5
	NFSProcRead        = 6
	NFSProcWrite       = 7
	NFSProcCreate      = 8
	NFSProcMkdir       = 9
	NFSProcSymlink     = 10
	NFSProcMknod       = 11
	NFSProcRemove      = 12
	NFSProcRmdir       = 13
	NFSProcRename      = 14
	NFSProcLink        = 15
	NFSProcReadDir     = 16
	NFSProcReadDirPlus = 17
	NFSProcFsStat      = 18
	NFSProcFsInfo      = 19
	NFSProcPathConf    = 20
	NFSProcCommit      = 21
)

// NFSv3 status codes (RFC 1813 Section 2.6).
const (
	NFS3OK             = 0
	NFS3ErrPerm        = 1
	NFS3ErrNoEnt       = 2
	NFS3ErrIO          = 5
	NFS3ErrAcces       = 13
	NFS3ErrExist       = 17
	NFS3ErrNotDir      = 20
	NFS3ErrIsDir       = 21
	NFS3ErrInval       = 22
	NFS3ErrFBig        = 27
	NFS3ErrNoSpc       = 28
	NFS3ErrROFS        = 30
	NFS3ErrNameTooLong = 63
	NFS3ErrNotEmpty    = 66
	NFS3ErrStale       = 70
	NFS3ErrBadHandle   = 10001
	NFS3ErrNotSupp     = 10004
	NFS3ErrTooSmall    = 10005
	NFS3ErrServerFault = 10006
)

// NFSv3 file type codes (ftype3).
const (
	NF3Reg  = 1
	NF3Dir  = 2
	NF3Blk  = 3
	NF3Chr  = 4
	NF3Lnk  = 5
	NF3Sock = 6
	NF3Fifo = 7
)

// ACCESS procedure permission bits (RFC 1813 Section 3.3.4).
const (
	AccessRead    = 0x0001
	AccessLookup  = 0x0002
	AccessModify  = 0x0004
	AccessExtend  = 0x0008
	AccessDelete  = 0x0010
	AccessExecute = 0x0020
)

// StatusName returns the symbolic name of a status code for logs and
// metrics labels.
func StatusName(status uint32) string {
	switch status {
	case NFS3OK:
		return "OK"
	case NFS3ErrPerm:
		return "PERM"
	case NFS3ErrNoEnt:
		return "NOENT"
	case NFS3ErrIO:
		return "IO"
	case NFS3ErrAcces:
		return "ACCES"
	case NFS3ErrExist:
		return "EXIST"
	case NFS3ErrNotDir:
		return "NOTDIR"
	case NFS3ErrIsDir:
		return "ISDIR"
	case NFS3ErrInval:
		return "INVAL"
	case NFS3ErrNoSpc:
		return "NOSPC"
	case NFS3ErrROFS:
		return "ROFS"
	case NFS3ErrNameTooLong:
		return "NAMETOOLONG"
	case NFS3ErrNotEmpty:
		return "NOTEMPTY"
	case NFS3ErrStale:
		return "STALE"
	case NFS3ErrBadHandle:
		return "BADHANDLE"
	case NFS3ErrNotSupp:
		return "NOTSUPP"
	case NFS3ErrTooSmall:
		return "TOOSMALL"
	case NFS3ErrServerFault:
		return "SERVERFAULT"
	default:
		return "UNKNOWN"
	}
}
