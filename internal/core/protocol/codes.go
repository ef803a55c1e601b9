/*
 * file: codes.go
 * package: protocol
 * description:
 *     Wire codes for the binary packet family shared by every connection
 *     (gateway<->client, gateway<->room, room<->client). One byte precedes
 *     every frame's payload and selects the layout in packet.go.
 */
package protocol

// Code identifies the layout of the bytes that follow it in a frame.
type Code byte

const (
	CodeBatch      Code = 0x00
	CodeMessage    Code = 0x01
	CodeTurn       Code = 0x02
	CodeDropPlayer Code = 0x03

	CodeJoinAccept  Code = 0x12
	CodeConnect     Code = 0x13
	CodeDisconnect  Code = 0x14
	CodeJoinReject  Code = 0x15

	CodeGameList   Code = 0x21
	CodeCreateGame Code = 0x22
	CodeJoinGame   Code = 0x23
	CodeLeaveGame  Code = 0x24

	CodeClientInfo Code = 0x31
	CodeServerInfo Code = 0x32
)

// RejectReason is the u8 reason code carried by JoinReject.
type RejectReason uint8

const (
	ReasonSuccess            RejectReason = 0
	ReasonAlreadyInGame      RejectReason = 1
	ReasonNotFound           RejectReason = 2
	ReasonIncorrectPassword  RejectReason = 3
	ReasonVersionMismatch    RejectReason = 4
	ReasonFull               RejectReason = 5
	ReasonCreateExists       RejectReason = 6
)

// MaxBatchDepth bounds recursive Batch expansion (§9 Open Question: the
// source enforces no cap; we impose the suggested depth of 8 and treat
// anything deeper as a decode failure).
const MaxBatchDepth = 8

// BroadcastID is the sentinel id on Message meaning "send to every other
// joined player in the room".
const BroadcastID = 0xFF
