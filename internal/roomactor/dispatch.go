/*
 * file: dispatch.go
 * package: roomactor
 * description:
 *     Per-event handlers run on the actor goroutine: attach/detach
 *     bookkeeping, the frame gate (size, decode, rate limit), and the
 *     in-game packet dispatch (Message/Turn/DropPlayer/LeaveGame).
 */
package roomactor

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/juan10024/roomrelay/internal/core/domain"
	"github.com/juan10024/roomrelay/internal/core/protocol"
)

func (r *Room) handleAttach(e attachEvent) {
	id := uuid.NewString()
	cs := &connState{
		id:          id,
		ws:          e.ws,
		slot:        domain.PreJoinSlot,
		windowStart: time.Now(),
	}
	r.conns[id] = cs
	e.ready <- id
}

func (r *Room) handleFrame(connID string, data []byte) {
	cs, ok := r.conns[connID]
	if !ok {
		return
	}

	if len(data) > r.maxFrameBytes {
		r.closeConn(cs.ws, websocket.CloseMessageTooBig, "frame too large")
		return
	}

	if !r.checkRateLimit(cs) {
		r.closeConn(cs.ws, websocket.ClosePolicyViolation, "flood")
		return
	}

	packets, err := protocol.DecodeFrame(data)
	if err != nil {
		cs.invalidCount++
		if cs.invalidCount > MaxInvalidPackets {
			r.closeConn(cs.ws, websocket.CloseProtocolError, "invalid packet")
		}
		return
	}

	for _, p := range packets {
		r.dispatchOne(cs, p)
	}
}

func (r *Room) checkRateLimit(cs *connState) bool {
	n := time.Now()
	if n.Sub(cs.windowStart) > rateWindow {
		cs.windowStart = n
		cs.windowCount = 0
	}
	cs.windowCount++
	return cs.windowCount <= MaxMessagesPerWindow
}

func (r *Room) dispatchOne(cs *connState, p protocol.Packet) {
	switch v := p.(type) {
	case protocol.ClientInfo:
		cs.hasClientVersion = true
		cs.clientVersion = v.Version
	case protocol.CreateGame:
		r.handleCreateGame(cs, v)
	case protocol.JoinGame:
		r.handleJoinGame(cs, v)
	case protocol.LeaveGame:
		r.handleLeaveGame(cs)
	case protocol.Message:
		r.handleMessage(cs, v)
	case protocol.Turn:
		r.handleTurn(cs, v)
	case protocol.DropPlayer:
		r.handleDropPlayer(cs, v)
	default:
		// GameListQuery and the server-to-client-only variants never arrive
		// from a room connection; ignore rather than error.
	}
}

func (r *Room) handleMessage(cs *connState, p protocol.Message) {
	if cs.slot == domain.PreJoinSlot {
		return
	}
	out := protocol.Message{ID: uint8(cs.slot), Payload: p.Payload}
	if p.ID == protocol.BroadcastID {
		r.broadcastExcept(cs, out)
		return
	}
	if int(p.ID) < 0 || int(p.ID) >= domain.SlotCount {
		return
	}
	if target := r.slots[p.ID]; target != nil {
		r.send(target, out)
	}
}

func (r *Room) handleTurn(cs *connState, p protocol.Turn) {
	if cs.slot == domain.PreJoinSlot {
		return
	}
	r.broadcastExcept(cs, protocol.Turn{ID: uint8(cs.slot), TurnNum: p.TurnNum})
}

func (r *Room) handleDropPlayer(cs *connState, p protocol.DropPlayer) {
	if cs.slot != domain.HostSlot {
		return
	}
	if p.ID == 0 {
		r.closeRoomAndKickAll(p.Reason)
		return
	}
	if int(p.ID) >= domain.SlotCount {
		return
	}
	target := r.slots[p.ID]
	if target == nil {
		return
	}
	target.closeReason = p.Reason
	target.reasonOverridden = true
	r.closeConn(target.ws, websocket.CloseNormalClosure, "dropped")
}

func (r *Room) handleLeaveGame(cs *connState) {
	if cs.slot == domain.PreJoinSlot {
		return
	}
	if cs.slot == domain.HostSlot {
		r.closeRoomAndKickAll(3)
		return
	}
	cs.closeReason = 3
	cs.reasonOverridden = true
	r.closeConn(cs.ws, websocket.CloseNormalClosure, "left")
}

func (r *Room) handleDetach(connID string, observedReason uint32) {
	cs, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.conns, connID)

	reason := observedReason
	if cs.reasonOverridden {
		reason = cs.closeReason
	}

	if cs.slot == domain.PreJoinSlot {
		return
	}
	if cs.slot == domain.HostSlot {
		r.closeRoomAndKickAll(reason)
		return
	}

	r.slots[cs.slot] = nil
	r.broadcastToSlots(protocol.Disconnect{ID: uint8(cs.slot), Reason: reason})

	if r.state == nil {
		return
	}
	if r.slotsUsed() == 0 {
		name := r.state.Name
		r.state = nil
		r.removeDirectoryEntry(name)
		return
	}
	r.syncDirectory()
}

// send encodes p and writes it to cs's socket. This, closeConn, and every
// other write below run exclusively on the actor goroutine.
func (r *Room) send(cs *connState, p protocol.Packet) {
	data := protocol.EncodeFrame(p)
	if err := cs.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
		r.log.WithError(err).Debug("write failed")
	}
}

// broadcastExcept sends p to every joined slot other than sender.
func (r *Room) broadcastExcept(sender *connState, p protocol.Packet) {
	data := protocol.EncodeFrame(p)
	for _, cs := range r.slots {
		if cs == nil || cs == sender {
			continue
		}
		if err := cs.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
			r.log.WithError(err).Debug("broadcast failed")
		}
	}
}

// broadcastToSlots sends p to every joined slot.
func (r *Room) broadcastToSlots(p protocol.Packet) {
	r.broadcastExcept(nil, p)
}
