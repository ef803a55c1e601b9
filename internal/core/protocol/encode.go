/*
 * file: encode.go
 * package: protocol
 * description:
 *     Encodes a single Packet into the bytes of one frame. Batch encodes
 *     its children as nested frames, recursively.
 */
package protocol

import "fmt"

// EncodeFrame serializes p into a single frame: a leading code byte
// followed by the packet's fields. Batch recurses into its children.
func EncodeFrame(p Packet) []byte {
	w := &writer{}
	w.writeU8(uint8(p.Code()))
	encodeBody(w, p)
	return w.bytes()
}

func encodeBody(w *writer, p Packet) {
	switch v := p.(type) {
	case ServerInfo:
		w.writeU32(v.Version)
	case ClientInfo:
		w.writeU32(v.Version)
	case GameListQuery:
		// no payload
	case GameListSnapshot:
		w.writeU16(uint16(len(v.Entries)))
		for _, e := range v.Entries {
			w.writeU32(e.Type)
			w.writeShortString(e.Name)
		}
	case CreateGame:
		w.writeU32(v.Cookie)
		w.writeShortString(v.Name)
		w.writeShortString(v.Password)
		w.writeU32(v.Difficulty)
	case JoinGame:
		w.writeU32(v.Cookie)
		w.writeShortString(v.Name)
		w.writeShortString(v.Password)
	case LeaveGame:
		// no payload
	case JoinAccept:
		w.writeU32(v.Cookie)
		w.writeU8(v.Index)
		w.writeU32(v.Seed)
		w.writeU32(v.Difficulty)
	case JoinReject:
		w.writeU32(v.Cookie)
		w.writeU8(uint8(v.Reason))
	case Connect:
		w.writeU8(v.ID)
	case Disconnect:
		w.writeU8(v.ID)
		w.writeU32(v.Reason)
	case DropPlayer:
		w.writeU8(v.ID)
		w.writeU32(v.Reason)
	case Message:
		w.writeU8(v.ID)
		w.writeLongBytes(v.Payload)
	case Turn:
		w.writeU8(v.ID)
		w.writeU32(v.TurnNum)
	case Batch:
		w.writeU16(uint16(len(v.Packets)))
		for _, child := range v.Packets {
			frame := EncodeFrame(child)
			w.buf = append(w.buf, frame...)
		}
	default:
		panic(fmt.Sprintf("protocol: unhandled packet type %T", p))
	}
}
