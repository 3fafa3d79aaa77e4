package server

import (
	"github.com/jameshightower/simple-nfs/internal/logger"
	"github.com/jameshightower/simple-nfs/internal/protocol/mount"
	"github.com/jameshightower/simple-nfs/internal/protocol/nfs"
)

type rpcRequest interface {
	*nfs.GetAttrRequest |
		*nfs.SetAttrRequest |
		*nfs.LookupRequest |
		*nfs.AccessRequest |
		*nfs.ReadLinkRequest |
		*nfs.CreateRequest |
		*nfs.RemoveRequest |
		*nfs.ReadDirRequest |
		*nfs.ReadDirPlusRequest |
		*nfs.FsStatRequest |
		*nfs.FsInfoRequest |
		*nfs.PathConfRequest |
		*mount.MountRequest |
		*mount.UmountRequest |
		*mount.ExportRequest
}

type rpcResponse interface {
	*nfs.GetAttrResponse |
		*nfs.SetAttrResponse |
		*nfs.LookupResponse |
		*nfs.AccessResponse |
		*nfs.ReadLinkResponse |
		*nfs.CreateResponse |
		*nfs.RemoveResponse |
		*nfs.ReadDirResponse |
		*nfs.ReadDirPlusResponse |
		*nfs.FsStatResponse |
		*nfs.FsInfoResponse |
		*nfs.PathConfResponse |
		*mount.MountResponse |
		*mount.UmountResponse |
		*mount.ExportResponse
	Encode() ([]byte, error)
}

func handleRequest[Req rpcRequest, Resp rpcResponse](
	data []byte,
	decode func([]byte) (Req, error),
	handle func(Req) (Resp, error),
	errorStatus uint32,
	makeErrorResp func(uint32) Resp,
) ([]byte, error) {
	// Decode request
	req, err := decode(data)
	if err != nil {
		logger.Debug("Error decoding request: %v", err)
		errorResp := makeErrorResp(errorStatus)
		return errorResp.Encode()
	}

	// Call handler
	resp, err := handle(req)
	if err != nil {
		logger.Debug("Handler error: %v", err)
		errorResp := makeErrorResp(errorStatus)
		return errorResp.Encode()
	}

	// Encode response
	encoded, err := resp.Encode()
	if err != nil {
		logger.Debug("Error encoding response: %v", err)
		errorResp := makeErrorResp(errorStatus)
		return errorResp.Encode()
	}

	return encoded, nil
}
