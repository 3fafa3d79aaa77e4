package rpc

// RPC program numbers served by this process.
const (
	// ProgramNFS is the NFS version 3 program number (RFC 1813)
	ProgramNFS = 100003

	// ProgramMount is the Mount protocol program number (RFC 1813 Appendix I)
	ProgramMount = 100005
)

// Program versions.
const (
	NFSVersion3  = 3
	MountVersion = 3
)

// RPC message types.
const (
	// RPCCall indicates an RPC call message
	RPCCall = 0

	// RPCReply indicates an RPC reply message
	RPCReply = 1
)

// RPC reply states.
const (
	// RPCMsgAccepted indicates the RPC call was accepted
	RPCMsgAccepted = 0

	// RPCMsgDenied indicates the RPC call was denied
	RPCMsgDenied = 1
)

// RPC accept status.
const (
	// RPCSuccess indicates successful RPC execution
	RPCSuccess = 0

	// RPCProgUnavail indicates the program is not served here
	RPCProgUnavail = 1

	// RPCProgMismatch indicates a program version mismatch
	RPCProgMismatch = 2

	// RPCProcUnavail indicates the procedure is unavailable
	RPCProcUnavail = 3

	// RPCGarbageArgs indicates the arguments could not be decoded
	RPCGarbageArgs = 4
)
