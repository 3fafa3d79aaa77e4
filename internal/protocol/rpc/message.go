package rpc

// CallMessage is the fixed header of an ONC RPC call (RFC 5531).
type CallMessage struct {
	XID        uint32
	MsgType    uint32
	RPCVersion uint32
	Program    uint32
	Version    uint32
	Procedure  uint32
	Cred       OpaqueAuth
	Verf       OpaqueAuth
}

// ReplyMessage is the header of an accepted RPC reply. The procedure's
// result bytes follow it on the wire.
type ReplyMessage struct {
	XID        uint32
	MsgType    uint32 // RPCReply
	ReplyState uint32 // RPCMsgAccepted
	Verf       OpaqueAuth
	AcceptStat uint32
}

// OpaqueAuth is an RPC authentication blob. Only AUTH_NULL and AUTH_UNIX
// pass through here and neither is inspected.
type OpaqueAuth struct {
	Flavor uint32
	Body   []byte `xdr:"opaque"`
}
