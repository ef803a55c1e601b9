/*
 * file: pump.go
 * package: gateway
 * description:
 *     Once Bridged, the gateway stops interpreting bytes entirely (I5): it
 *     is a pure byte pump between the client socket and the room actor's
 *     internal socket, one goroutine per direction so each socket still
 *     has exactly one writer. The close code a peer sends is propagated to
 *     the other leg (§4.2) rather than dropped on a bare socket close.
 */
package gateway

import (
	"time"

	"github.com/gorilla/websocket"
)

func (g *Gateway) pumpBridged(cs *connState) {
	roomToClient := make(chan struct{})
	go func() {
		defer close(roomToClient)
		for {
			msgType, data, err := cs.room.ReadMessage()
			if err != nil {
				propagateClose(cs.client, err)
				return
			}
			if msgType != websocket.BinaryMessage {
				continue
			}
			if err := cs.client.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}()

	for {
		msgType, data, err := cs.client.ReadMessage()
		if err != nil {
			propagateClose(cs.room, err)
			break
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		if err := cs.room.WriteMessage(websocket.BinaryMessage, data); err != nil {
			break
		}
	}

	cs.room.Close()
	<-roomToClient
}

// propagateClose forwards the close code and reason a peer sent, if any, to
// the other leg of the bridge, so e.g. a room-initiated close reaches the
// client with its real reason instead of an unexplained drop.
func propagateClose(conn *websocket.Conn, err error) {
	closeErr, ok := err.(*websocket.CloseError)
	if !ok {
		return
	}
	msg := websocket.FormatCloseMessage(closeErr.Code, closeErr.Text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
