package rpc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// ReadCall parses the RPC call header from a complete record.
func ReadCall(data []byte) (*CallMessage, error) {
	call := &CallMessage{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), call); err != nil {
		return nil, fmt.Errorf("unmarshal RPC call: %w", err)
	}

	if call.MsgType != RPCCall {
		return nil, fmt.Errorf("expected CALL (%d), got %d", RPCCall, call.MsgType)
	}
	if call.RPCVersion != 2 {
		return nil, fmt.Errorf("unsupported RPC version %d", call.RPCVersion)
	}

	return call, nil
}

// ReadData returns the procedure arguments that follow the RPC header.
//
// The header has a fixed 24-byte prefix followed by two variable-length
// auth blobs; both are skipped, padding included.
func ReadData(message []byte) ([]byte, error) {
	offset := 24

	for i := 0; i < 2; i++ {
		if offset+8 > len(message) {
			return nil, fmt.Errorf("truncated RPC auth blob at offset %d", offset)
		}
		offset += 4 // flavor
		bodyLen := binary.BigEndian.Uint32(message[offset : offset+4])
		offset += 4 + int(bodyLen) + int((4-bodyLen%4)%4)
	}

	if offset > len(message) {
		return nil, fmt.Errorf("truncated RPC message: header runs past %d bytes", len(message))
	}
	return message[offset:], nil
}

// MakeSuccessReply frames an accepted, successful reply carrying data as
// the procedure result, record mark included.
func MakeSuccessReply(xid uint32, data []byte) ([]byte, error) {
	return makeAcceptedReply(xid, RPCSuccess, data)
}

// MakeErrorReply frames an accepted reply with a non-success accept status
// (RPCProgUnavail, RPCProcUnavail, RPCGarbageArgs).
func MakeErrorReply(xid uint32, acceptStat uint32) ([]byte, error) {
	return makeAcceptedReply(xid, acceptStat, nil)
}

func makeAcceptedReply(xid uint32, acceptStat uint32, data []byte) ([]byte, error) {
	reply := ReplyMessage{
		XID:        xid,
		MsgType:    RPCReply,
		ReplyState: RPCMsgAccepted,
		Verf: OpaqueAuth{
			Flavor: 0, // AUTH_NULL
			Body:   []byte{},
		},
		AcceptStat: acceptStat,
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &reply); err != nil {
		return nil, fmt.Errorf("marshal reply: %w", err)
	}
	buf.Write(data)

	// Record mark: high bit set marks the last fragment.
	body := buf.Bytes()
	mark := make([]byte, 4)
	binary.BigEndian.PutUint32(mark, 0x80000000|uint32(len(body)))

	return append(mark, body...), nil
}
