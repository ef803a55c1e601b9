/*
 * file: decode.go
 * package: protocol
 * description:
 *     Decodes one frame into a flat sequence of Packets. Batch expands
 *     recursively and never itself appears in the output; an unknown code,
 *     a short read, or nesting past MaxBatchDepth fails the whole frame.
 */
package protocol

// DecodeFrame decodes bytes (one WebSocket binary message) into the flat
// sequence of packets it carries. On any decode failure the whole frame is
// rejected; nothing is returned from a partially-decoded frame.
func DecodeFrame(data []byte) ([]Packet, error) {
	if len(data) < 1 {
		return nil, ErrShortFrame
	}
	r := newReader(data)
	var out []Packet
	if err := decodeOne(r, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeOne(r *reader, depth int, out *[]Packet) error {
	codeByte, err := r.readU8()
	if err != nil {
		return err
	}
	code := Code(codeByte)

	switch code {
	case CodeBatch:
		if depth >= MaxBatchDepth {
			return ErrBatchTooDeep
		}
		count, err := r.readU16()
		if err != nil {
			return err
		}
		for i := uint16(0); i < count; i++ {
			if err := decodeOne(r, depth+1, out); err != nil {
				return err
			}
		}
		return nil

	case CodeMessage:
		id, err := r.readU8()
		if err != nil {
			return err
		}
		payload, err := r.readLongBytes()
		if err != nil {
			return err
		}
		cp := make([]byte, len(payload))
		copy(cp, payload)
		*out = append(*out, Message{ID: id, Payload: cp})
		return nil

	case CodeTurn:
		turn, err := r.readU32()
		if err != nil {
			return err
		}
		*out = append(*out, Turn{TurnNum: turn})
		return nil

	case CodeDropPlayer:
		id, err := r.readU8()
		if err != nil {
			return err
		}
		reason, err := r.readU32()
		if err != nil {
			return err
		}
		*out = append(*out, DropPlayer{ID: id, Reason: reason})
		return nil

	case CodeJoinAccept:
		cookie, err := r.readU32()
		if err != nil {
			return err
		}
		index, err := r.readU8()
		if err != nil {
			return err
		}
		seed, err := r.readU32()
		if err != nil {
			return err
		}
		difficulty, err := r.readU32()
		if err != nil {
			return err
		}
		*out = append(*out, JoinAccept{Cookie: cookie, Index: index, Seed: seed, Difficulty: difficulty})
		return nil

	case CodeConnect:
		id, err := r.readU8()
		if err != nil {
			return err
		}
		*out = append(*out, Connect{ID: id})
		return nil

	case CodeDisconnect:
		id, err := r.readU8()
		if err != nil {
			return err
		}
		reason, err := r.readU32()
		if err != nil {
			return err
		}
		*out = append(*out, Disconnect{ID: id, Reason: reason})
		return nil

	case CodeJoinReject:
		cookie, err := r.readU32()
		if err != nil {
			return err
		}
		reason, err := r.readU8()
		if err != nil {
			return err
		}
		*out = append(*out, JoinReject{Cookie: cookie, Reason: RejectReason(reason)})
		return nil

	case CodeGameList:
		// Client-to-server form carries no payload.
		*out = append(*out, GameListQuery{})
		return nil

	case CodeCreateGame:
		cookie, err := r.readU32()
		if err != nil {
			return err
		}
		name, err := r.readShortString()
		if err != nil {
			return err
		}
		password, err := r.readShortString()
		if err != nil {
			return err
		}
		difficulty, err := r.readU32()
		if err != nil {
			return err
		}
		*out = append(*out, CreateGame{Cookie: cookie, Name: name, Password: password, Difficulty: difficulty})
		return nil

	case CodeJoinGame:
		cookie, err := r.readU32()
		if err != nil {
			return err
		}
		name, err := r.readShortString()
		if err != nil {
			return err
		}
		password, err := r.readShortString()
		if err != nil {
			return err
		}
		*out = append(*out, JoinGame{Cookie: cookie, Name: name, Password: password})
		return nil

	case CodeLeaveGame:
		*out = append(*out, LeaveGame{})
		return nil

	case CodeClientInfo:
		version, err := r.readU32()
		if err != nil {
			return err
		}
		*out = append(*out, ClientInfo{Version: version})
		return nil

	case CodeServerInfo:
		version, err := r.readU32()
		if err != nil {
			return err
		}
		*out = append(*out, ServerInfo{Version: version})
		return nil

	default:
		return ErrUnknownCode
	}
}
