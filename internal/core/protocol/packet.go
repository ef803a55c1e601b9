/*
 * file: packet.go
 * package: protocol
 * description:
 *     Packet is the tagged union decoded from (or encoded to) a frame. Each
 *     concrete type below corresponds to one row of the layout table in
 *     the wire protocol: one struct per code, except GameList which splits
 *     into a request and response variant sharing a code (decode only ever
 *     yields the request form; see decode.go).
 */
package protocol

// Packet is implemented by every decodable/encodable wire packet.
type Packet interface {
	Code() Code
}

// ServerInfo carries the server's protocol version. Nothing in this
// repository sends it: neither the gateway on WS open nor the room in reply
// to ClientInfo.
type ServerInfo struct {
	Version uint32
}

func (ServerInfo) Code() Code { return CodeServerInfo }

// ClientInfo announces the connecting client's protocol version.
type ClientInfo struct {
	Version uint32
}

func (ClientInfo) Code() Code { return CodeClientInfo }

// GameListQuery is the client-to-server form: bare code, no payload.
type GameListQuery struct{}

func (GameListQuery) Code() Code { return CodeGameList }

// GameListEntry is one row of a GameListSnapshot.
type GameListEntry struct {
	Type uint32
	Name string
}

// GameListSnapshot is the server-to-client form carrying the directory
// contents.
type GameListSnapshot struct {
	Entries []GameListEntry
}

func (GameListSnapshot) Code() Code { return CodeGameList }

// CreateGame requests a new room be created with the sender as host.
type CreateGame struct {
	Cookie     uint32
	Name       string
	Password   string
	Difficulty uint32
}

func (CreateGame) Code() Code { return CodeCreateGame }

// JoinGame requests admission to an existing room.
type JoinGame struct {
	Cookie   uint32
	Name     string
	Password string
}

func (JoinGame) Code() Code { return CodeJoinGame }

// LeaveGame carries no fields; the sender's slot is implied by the
// connection it arrived on.
type LeaveGame struct{}

func (LeaveGame) Code() Code { return CodeLeaveGame }

// JoinAccept is the success reply to CreateGame/JoinGame.
type JoinAccept struct {
	Cookie     uint32
	Index      uint8
	Seed       uint32
	Difficulty uint32
}

func (JoinAccept) Code() Code { return CodeJoinAccept }

// JoinReject is the failure reply to CreateGame/JoinGame.
type JoinReject struct {
	Cookie uint32
	Reason RejectReason
}

func (JoinReject) Code() Code { return CodeJoinReject }

// Connect announces that the player occupying slot ID has joined.
type Connect struct {
	ID uint8
}

func (Connect) Code() Code { return CodeConnect }

// Disconnect announces that the player occupying slot ID has left, with
// Reason carrying the close-reason override (see roomactor's close-reason
// map).
type Disconnect struct {
	ID     uint8
	Reason uint32
}

func (Disconnect) Code() Code { return CodeDisconnect }

// DropPlayer is a host-only request to kick a player (ID == 0 closes the
// whole room).
type DropPlayer struct {
	ID     uint8
	Reason uint32
}

func (DropPlayer) Code() Code { return CodeDropPlayer }

// Message is an opaque application payload, unicast or broadcast depending
// on ID (BroadcastID means "every other joined player").
type Message struct {
	ID      uint8
	Payload []byte
}

func (Message) Code() Code { return CodeMessage }

// Turn is an opaque per-turn payload broadcast to every other joined
// player. EncodeFrame writes ID before TurnNum, but the decoded
// (client-to-server) wire form omits it, so on decode ID is always zero;
// callers fill it in from the sender's own slot before re-broadcasting.
type Turn struct {
	ID      uint8
	TurnNum uint32
}

func (Turn) Code() Code { return CodeTurn }

// Batch is an encode-only container; decoding flattens it away (see
// DecodeFrame), so it never appears in a decoded sequence.
type Batch struct {
	Packets []Packet
}

func (Batch) Code() Code { return CodeBatch }
