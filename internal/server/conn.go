package server

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/internal/protocol/mount"
	"github.com/jameshightower/simple-nfs/internal/protocol/nfs"
	"github.com/jameshightower/simple-nfs/internal/protocol/rpc"
)

type conn struct {
	server *NFSServer
	conn   net.Conn
}

type fragmentHeader struct {
	IsLast bool
	Length uint32
}

func (c *conn) serve(ctx context.Context) {
	defer func() {
		c.conn.Close()
		c.server.metrics.RecordConnectionClosed()
		c.server.connDone()
	}()

	logger.Debug("New connection from %s", c.conn.RemoteAddr().String())
	c.server.metrics.RecordConnectionAccepted()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.handleRequest(); err != nil {
				if err != io.EOF {
					logger.Debug("Error handling request: %v", err)
				}
				return
			}
		}
	}
}

func (c *conn) handleRequest() error {
	if c.server.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.server.readTimeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
	}

	// Read fragment header
	header, err := c.readFragmentHeader()
	if err != nil {
		return err
	}

	// Read RPC message
	message, err := c.readRPCMessage(header.Length)
	if err != nil {
		return fmt.Errorf("read RPC message: %w", err)
	}

	// Parse RPC call
	call, err := rpc.ReadCall(message)
	if err != nil {
		logger.Debug("Error parsing RPC call: %v", err)
		return nil
	}

	logger.Debug("RPC Call: XID=0x%x Program=%d Version=%d Procedure=%d",
		call.XID, call.Program, call.Version, call.Procedure)

	// Extract procedure data
	procedureData, err := rpc.ReadData(message)
	if err != nil {
		return fmt.Errorf("extract procedure data: %w", err)
	}

	// Handle the call
	return c.handleRPCCall(call, procedureData)
}

func (c *conn) readFragmentHeader() (*fragmentHeader, error) {
	var buf [4]byte
	_, err := io.ReadFull(c.conn, buf[:])
	if err != nil {
		return nil, err
	}

	header := binary.BigEndian.Uint32(buf[:])
	return &fragmentHeader{
		IsLast: (header & 0x80000000) != 0,
		Length: header & 0x7FFFFFFF,
	}, nil
}

func (c *conn) readRPCMessage(length uint32) ([]byte, error) {
	message := make([]byte, length)
	_, err := io.ReadFull(c.conn, message)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	return message, nil
}

func (c *conn) handleRPCCall(call *rpc.CallMessage, procedureData []byte) error {
	var replyData []byte
	var err error
	var procedure string

	start := time.Now()

	switch call.Program {
	case rpc.ProgramNFS:
		procedure = nfsProcedureName(call.Procedure)
		replyData, err = c.handleNFSProcedure(call.Procedure, procedureData)
	case rpc.ProgramMount:
		procedure = mountProcedureName(call.Procedure)
		replyData, err = c.handleMountProcedure(call.Procedure, procedureData)
	default:
		logger.Debug("Unknown program: %d", call.Program)
		return c.sendErrorReply(call.XID, rpc.RPCProgUnavail)
	}

	c.server.metrics.RecordRequest(procedure, time.Since(start), replyStatus(call.Program, replyData, err))

	if err != nil {
		logger.Debug("Handler error: %v", err)
		return fmt.Errorf("handle program %d: %w", call.Program, err)
	}

	return c.sendReply(call.XID, replyData)
}

func (c *conn) handleNFSProcedure(procedure uint32, data []byte) ([]byte, error) {
	fsys := c.server.fsys
	handler := c.server.nfsHandler

	switch procedure {
	case nfs.NFSProcNull:
		return handler.Null()
	case nfs.NFSProcGetAttr:
		return handleRequest(
			data,
			nfs.DecodeGetAttrRequest,
			func(req *nfs.GetAttrRequest) (*nfs.GetAttrResponse, error) {
				return handler.GetAttr(fsys, req)
			},
			nfs.NFS3ErrBadHandle,
			func(status uint32) *nfs.GetAttrResponse {
				return &nfs.GetAttrResponse{Status: status}
			},
		)
	case nfs.NFSProcSetAttr:
		return handleRequest(
			data,
			nfs.DecodeSetAttrRequest,
			func(req *nfs.SetAttrRequest) (*nfs.SetAttrResponse, error) {
				return handler.SetAttr(fsys, req)
			},
			nfs.NFS3ErrBadHandle,
			func(status uint32) *nfs.SetAttrResponse {
				return &nfs.SetAttrResponse{Status: status}
			},
		)
	case nfs.NFSProcLookup:
		return handleRequest(
			data,
			nfs.DecodeLookupRequest,
			func(req *nfs.LookupRequest) (*nfs.LookupResponse, error) {
				return handler.Lookup(fsys, req)
			},
			nfs.NFS3ErrBadHandle,
			func(status uint32) *nfs.LookupResponse {
				return &nfs.LookupResponse{Status: status}
			},
		)
	case nfs.NFSProcAccess:
		return handleRequest(
			data,
			nfs.DecodeAccessRequest,
			func(req *nfs.AccessRequest) (*nfs.AccessResponse, error) {
				return handler.Access(fsys, req)
			},
			nfs.NFS3ErrBadHandle,
			func(status uint32) *nfs.AccessResponse {
				return &nfs.AccessResponse{Status: status}
			},
		)
	case nfs.NFSProcReadLink:
		return handleRequest(
			data,
			nfs.DecodeReadLinkRequest,
			func(req *nfs.ReadLinkRequest) (*nfs.ReadLinkResponse, error) {
				return handler.ReadLink(fsys, req)
			},
			nfs.NFS3ErrBadHandle,
			func(status uint32) *nfs.ReadLinkResponse {
				return &nfs.ReadLinkResponse{Status: status}
			},
		)
	case nfs.NFSProcRead:
		return encodeResponse(handler.Read(fsys, data))
	case nfs.NFSProcWrite:
		return encodeResponse(handler.Write(fsys, data))
	case nfs.NFSProcCreate:
		return handleRequest(
			data,
			nfs.DecodeCreateRequest,
			func(req *nfs.CreateRequest) (*nfs.CreateResponse, error) {
				return handler.Create(fsys, req)
			},
			nfs.NFS3ErrIO,
			func(status uint32) *nfs.CreateResponse {
				return &nfs.CreateResponse{Status: status}
			},
		)
	case nfs.NFSProcMkdir:
		return encodeResponse(handler.Mkdir(fsys, data))
	case nfs.NFSProcSymlink:
		return encodeResponse(handler.Symlink(fsys, data))
	case nfs.NFSProcMknod:
		return encodeResponse(handler.Mknod(fsys, data))
	case nfs.NFSProcRemove:
		return handleRequest(
			data,
			nfs.DecodeRemoveRequest,
			func(req *nfs.RemoveRequest) (*nfs.RemoveResponse, error) {
				return handler.Remove(fsys, req)
			},
			nfs.NFS3ErrIO,
			func(status uint32) *nfs.RemoveResponse {
				return &nfs.RemoveResponse{Status: status}
			},
		)
	case nfs.NFSProcRmdir:
		return handleRequest(
			data,
			nfs.DecodeRemoveRequest,
			func(req *nfs.RemoveRequest) (*nfs.RemoveResponse, error) {
				return handler.Rmdir(fsys, req)
			},
			nfs.NFS3ErrIO,
			func(status uint32) *nfs.RemoveResponse {
				return &nfs.RemoveResponse{Status: status}
			},
		)
	case nfs.NFSProcRename:
		return encodeResponse(handler.Rename(fsys, data))
	case nfs.NFSProcLink:
		return encodeResponse(handler.Link(fsys, data))
	case nfs.NFSProcReadDir:
		return handleRequest(
			data,
			nfs.DecodeReadDirRequest,
			func(req *nfs.ReadDirRequest) (*nfs.ReadDirResponse, error) {
				return handler.ReadDir(fsys, req)
			},
			nfs.NFS3ErrBadHandle,
			func(status uint32) *nfs.ReadDirResponse {
				return &nfs.ReadDirResponse{Status: status}
			},
		)
	case nfs.NFSProcReadDirPlus:
		return handleRequest(
			data,
			nfs.DecodeReadDirPlusRequest,
			func(req *nfs.ReadDirPlusRequest) (*nfs.ReadDirPlusResponse, error) {
				return handler.ReadDirPlus(fsys, req)
			},
			nfs.NFS3ErrBadHandle,
			func(status uint32) *nfs.ReadDirPlusResponse {
				return &nfs.ReadDirPlusResponse{Status: status}
			},
		)
	case nfs.NFSProcFsStat:
		return handleRequest(
			data,
			nfs.DecodeFsStatRequest,
			func(req *nfs.FsStatRequest) (*nfs.FsStatResponse, error) {
				return handler.FsStat(fsys, req)
			},
			nfs.NFS3ErrIO,
			func(status uint32) *nfs.FsStatResponse {
				return &nfs.FsStatResponse{Status: status}
			},
		)
	case nfs.NFSProcFsInfo:
		return handleRequest(
			data,
			nfs.DecodeFsInfoRequest,
			func(req *nfs.FsInfoRequest) (*nfs.FsInfoResponse, error) {
				return handler.FsInfo(fsys, req)
			},
			nfs.NFS3ErrIO,
			func(status uint32) *nfs.FsInfoResponse {
				return &nfs.FsInfoResponse{Status: status}
			},
		)
	case nfs.NFSProcPathConf:
		return handleRequest(
			data,
			nfs.DecodePathConfRequest,
			func(req *nfs.PathConfRequest) (*nfs.PathConfResponse, error) {
				return handler.PathConf(fsys, req)
			},
			nfs.NFS3ErrIO,
			func(status uint32) *nfs.PathConfResponse {
				return &nfs.PathConfResponse{Status: status}
			},
		)
	case nfs.NFSProcCommit:
		return encodeResponse(handler.Commit(fsys, data))
	default:
		logger.Debug("Unknown NFS procedure: %d", procedure)
		return []byte{}, nil
	}
}

func (c *conn) handleMountProcedure(procedure uint32, data []byte) ([]byte, error) {
	fsys := c.server.fsys
	handler := c.server.mountHandler

	switch procedure {
	case mount.MountProcNull:
		return handler.MountNull()
	case mount.MountProcMnt:
		return handleRequest(
			data,
			mount.DecodeMountRequest,
			func(req *mount.MountRequest) (*mount.MountResponse, error) {
				return handler.Mount(fsys, req)
			},
			mount.MountErrIO,
			func(status uint32) *mount.MountResponse {
				return &mount.MountResponse{Status: status}
			},
		)
	case mount.MountProcUmnt:
		return handleRequest(
			data,
			mount.DecodeUmountRequest,
			func(req *mount.UmountRequest) (*mount.UmountResponse, error) {
				return handler.Umnt(req)
			},
			mount.MountErrIO,
			func(status uint32) *mount.UmountResponse {
				return &mount.UmountResponse{}
			},
		)
	case mount.MountProcUmntAll:
		resp, err := handler.UmntAll()
		if err != nil {
			return nil, err
		}
		return resp.Encode()
	case mount.MountProcExport:
		return handleRequest(
			data,
			mount.DecodeExportRequest,
			func(req *mount.ExportRequest) (*mount.ExportResponse, error) {
				return handler.Export(req)
			},
			mount.MountErrIO,
			func(status uint32) *mount.ExportResponse {
				return &mount.ExportResponse{}
			},
		)
	default:
		logger.Debug("Unknown Mount procedure: %d", procedure)
		return []byte{}, nil
	}
}

// replyStatus derives the metrics status label from the procedure result.
// NFS results lead with their status word; everything else is labeled by
// whether the handler failed.
func replyStatus(program uint32, replyData []byte, err error) string {
	if err != nil {
		return "ERROR"
	}
	if program == rpc.ProgramNFS && len(replyData) >= 4 {
		return nfs.StatusName(binary.BigEndian.Uint32(replyData[:4]))
	}
	return "OK"
}

// encodeResponse flattens a handler call whose response needs no generic
// error mapping, such as the not-supported procedures.
func encodeResponse[Resp interface{ Encode() ([]byte, error) }](resp Resp, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return resp.Encode()
}

func (c *conn) sendReply(xid uint32, data []byte) error {
	reply, err := rpc.MakeSuccessReply(xid, data)
	if err != nil {
		return fmt.Errorf("make reply: %w", err)
	}
	return c.writeReply(xid, reply)
}

func (c *conn) sendErrorReply(xid uint32, acceptStat uint32) error {
	reply, err := rpc.MakeErrorReply(xid, acceptStat)
	if err != nil {
		return fmt.Errorf("make error reply: %w", err)
	}
	return c.writeReply(xid, reply)
}

func (c *conn) writeReply(xid uint32, reply []byte) error {
	if c.server.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.server.writeTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}

	_, err := c.conn.Write(reply)
	if err != nil {
		return fmt.Errorf("write reply: %w", err)
	}

	logger.Debug("Sent reply for XID=0x%x", xid)
	return nil
}

func nfsProcedureName(procedure uint32) string {
	switch procedure {
	case nfs.NFSProcNull:
		return "NULL"
	case nfs.NFSProcGetAttr:
		return "GETATTR"
	case nfs.NFSProcSetAttr:
		return "SETATTR"
	case nfs.NFSProcLookup:
		return "LOOKUP"
	case nfs.NFSProcAccess:
		return "ACCESS"
	case nfs.NFSProcReadLink:
		return "READLINK"
	case nfs.NFSProcRead:
		return "READ"
	case nfs.NFSProcWrite:
		return "WRITE"
	case nfs.NFSProcCreate:
		return "CREATE"
	case nfs.NFSProcMkdir:
		return "MKDIR"
	case nfs.NFSProcSymlink:
		return "SYMLINK"
	case nfs.NFSProcMknod:
		return "MKNOD"
	case nfs.NFSProcRemove:
		return "REMOVE"
	case nfs.NFSProcRmdir:
		return "RMDIR"
	case nfs.NFSProcRename:
		return "RENAME"
	case nfs.NFSProcLink:
		return "LINK"
	case nfs.NFSProcReadDir:
		return "READDIR"
	case nfs.NFSProcReadDirPlus:
		return "READDIRPLUS"
	case nfs.NFSProcFsStat:
		return "FSSTAT"
	case nfs.NFSProcFsInfo:
		return "FSINFO"
	case nfs.NFSProcPathConf:
		return "PATHCONF"
	case nfs.NFSProcCommit:
		return "COMMIT"
	default:
		return fmt.Sprintf("NFS_%d", procedure)
	}
}

func mountProcedureName(procedure uint32) string {
	switch procedure {
	case mount.MountProcNull:
		return "MNT_NULL"
	case mount.MountProcMnt:
		return "MNT"
	case mount.MountProcDump:
		return "DUMP"
	case mount.MountProcUmnt:
		return "UMNT"
	case mount.MountProcUmntAll:
		return "UMNTALL"
	case mount.MountProcExport:
		return "EXPORT"
	default:
		return fmt.Sprintf("MOUNT_%d", procedure)
	}
}
