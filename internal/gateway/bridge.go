/*
 * file: bridge.go
 * package: gateway
 * description:
 *     Dials the resolved room actor's internal /ws endpoint and drains the
 *     buffered Sniffing-phase frames into it before the connection is
 *     handed to the bidirectional pump (§4.2 "the frame that triggered
 *     bridging, and every frame buffered ahead of it, is forwarded in
 *     order before anything newer").
 */
package gateway

import (
	"time"

	"github.com/gorilla/websocket"
)

func (g *Gateway) bridge(cs *connState, roomName string) {
	cs.phase = phaseBridging

	handle := g.namespace.Resolve(roomName)
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	roomConn, _, err := dialer.Dial(handle.DialURL(), nil)
	if err != nil {
		g.log.WithError(err).WithField("room", roomName).Warn("bridge dial failed")
		g.closeClient(cs, websocket.CloseInternalServerErr, "bridge failed")
		cs.phase = phaseClosed
		return
	}

	cs.room = roomConn
	cs.client.SetReadDeadline(time.Time{})

	for _, frame := range cs.pending {
		if err := roomConn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			g.log.WithError(err).Warn("bridge drain failed")
			break
		}
	}
	cs.pending = nil

	cs.phase = phaseBridged
}
