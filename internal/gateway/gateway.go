/*
 * file: gateway.go
 * package: gateway
 * description:
 *     Gateway terminates the client-facing WS connection and runs its
 *     Sniffing -> Bridging -> Bridged -> Closed state machine (§4.2). It
 *     never interprets packets once bridged (I5); before bridging it only
 *     peeks enough to learn which room actor the connection belongs to.
 */
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/juan10024/roomrelay/internal/core/ports"
	"github.com/juan10024/roomrelay/internal/core/protocol"
)

// Pending-buffer limits enforced while Sniffing (§4.2).
const (
	MaxPendingMessages = 256
	MaxPendingBytes    = 14 * 1024 * 1024

	MaxPendingUnknownMessages = 32
	MaxPendingUnknownBytes    = 1 * 1024 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type phase int

const (
	phaseSniffing phase = iota
	phaseBridging
	phaseBridged
	phaseClosed
)

// Gateway is stateless; it constructs one connState per accepted client
// connection.
type Gateway struct {
	namespace      ports.RoomNamespace
	directory      ports.GameListSource
	log            *logrus.Logger
	connectTimeout time.Duration
}

func New(namespace ports.RoomNamespace, directory ports.GameListSource, log *logrus.Logger, connectTimeout time.Duration) *Gateway {
	return &Gateway{namespace: namespace, directory: directory, log: log, connectTimeout: connectTimeout}
}

// connState tracks one client connection's journey through the state
// machine. It is only ever touched from the goroutine handleConn runs on
// (plus the bridged read-pump goroutine spawned once both legs exist, which
// only reads from room and writes to client - see pump.go).
type connState struct {
	client *websocket.Conn
	room   *websocket.Conn
	phase  phase

	pending      [][]byte
	pendingBytes int

	unknownCount int
	unknownBytes int

	deadline time.Time
}

// ServeWS upgrades an inbound client connection and drives it through the
// state machine until it closes.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("gateway ws upgrade failed")
		return
	}
	cs := &connState{
		client:   ws,
		phase:    phaseSniffing,
		deadline: time.Now().Add(g.connectTimeout),
	}
	g.handleConn(cs)
}

func (g *Gateway) handleConn(cs *connState) {
	defer cs.client.Close()

	for cs.phase == phaseSniffing {
		cs.client.SetReadDeadline(cs.deadline)
		msgType, data, err := cs.client.ReadMessage()
		if err != nil {
			if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
				g.closeClient(cs, websocket.CloseInternalServerErr, "connect timeout")
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		g.onSniffFrame(cs, data)
	}

	if cs.phase != phaseBridged {
		return
	}
	g.pumpBridged(cs)
}

// onSniffFrame buffers data under the pending-capacity policy, then peeks
// it for a routing intent. A frame that doesn't even decode counts against
// the smaller "unknown" budget, since it's evidence of a misbehaving or
// hostile peer rather than a merely-premature, well-formed frame.
func (g *Gateway) onSniffFrame(cs *connState, data []byte) {
	cs.pending = append(cs.pending, data)
	cs.pendingBytes += len(data)
	if len(cs.pending) > MaxPendingMessages || cs.pendingBytes > MaxPendingBytes {
		g.closeClient(cs, websocket.CloseMessageTooBig, "too much pending data")
		cs.phase = phaseClosed
		return
	}

	action, ok := protocol.SniffLobbyAction(data)
	if !ok {
		cs.unknownCount++
		cs.unknownBytes += len(data)
		if cs.unknownCount > MaxPendingUnknownMessages || cs.unknownBytes > MaxPendingUnknownBytes {
			g.closeClient(cs, websocket.CloseProtocolError, "undecodable traffic")
			cs.phase = phaseClosed
		}
		return
	}

	var name string
	switch {
	case action.Create != nil:
		name = action.Create.Name
	case action.Join != nil:
		name = action.Join.Name
	case action.WantsGameList:
		g.replyGameList(cs, data)
		return
	default:
		return // ClientInfo alone: keep buffering, not routable yet
	}

	g.bridge(cs, name)
}

// replyGameList answers a GameList query in place, without leaving
// Sniffing: it queries the directory for its already-encoded snapshot
// frame and writes it straight back to the client (§4.2, §6 "GameList is
// request/response"). The query frame is popped back out of pending since
// it has now been fully handled and must not be replayed into a room once
// the connection later bridges.
func (g *Gateway) replyGameList(cs *connState, data []byte) {
	cs.pending = cs.pending[:len(cs.pending)-1]
	cs.pendingBytes -= len(data)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	body, err := g.directory.ListBin(ctx)
	if err != nil {
		g.log.WithError(err).Warn("game list query failed")
		return
	}
	if err := cs.client.WriteMessage(websocket.BinaryMessage, body); err != nil {
		g.log.WithError(err).Debug("game list write failed")
	}
}

func (g *Gateway) closeClient(cs *connState, code int, text string) {
	deadline := time.Now().Add(2 * time.Second)
	msg := websocket.FormatCloseMessage(code, text)
	cs.client.WriteControl(websocket.CloseMessage, msg, deadline)
}
