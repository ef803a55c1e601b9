/*
 * file: close.go
 * package: roomactor
 * description:
 *     Room-wide teardown: broadcasting Disconnect to every remaining slot,
 *     closing every attached socket, and clearing the room's directory
 *     entry. Runs only from the actor goroutine (host disconnect, explicit
 *     DropPlayer{id:0}, or host LeaveGame all funnel here).
 */
package roomactor

import (
	"github.com/gorilla/websocket"

	"github.com/juan10024/roomrelay/internal/core/domain"
	"github.com/juan10024/roomrelay/internal/core/protocol"
)

// closeRoomAndKickAll ends the room: every joined player is told why, every
// attached socket (joined or still pre-join) is closed, and the directory
// entry is dropped.
func (r *Room) closeRoomAndKickAll(reason uint32) {
	for i := 0; i < domain.SlotCount; i++ {
		if r.slots[i] != nil {
			r.broadcastToSlots(protocol.Disconnect{ID: uint8(i), Reason: reason})
		}
	}

	for _, cs := range r.conns {
		cs.closeReason = reason
		cs.reasonOverridden = true
		r.closeConn(cs.ws, websocket.CloseNormalClosure, "room closed")
	}

	if r.state != nil {
		name := r.state.Name
		r.state = nil
		r.removeDirectoryEntry(name)
	}
	for i := range r.slots {
		r.slots[i] = nil
	}
	if r.onClosed != nil {
		r.onClosed(r.Name)
	}
}
