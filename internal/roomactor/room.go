/*
 * file: room.go
 * package: roomactor
 * description:
 *     Room is the single-writer actor that owns one room's four player
 *     slots (§4.3). Every mutation happens on the Run goroutine, fed by a
 *     single event channel - a register/unregister channel idiom
 *     generalized from "register one client" to "dispatch one packet".
 */
package roomactor

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/juan10024/roomrelay/internal/core/domain"
	"github.com/juan10024/roomrelay/internal/core/ports"
)

const (
	// MaxInvalidPackets is how many decode failures a connection may
	// accrue before the room closes it (§4.3).
	MaxInvalidPackets = 2

	// MaxMessagesPerWindow bounds the frames a connection may send in one
	// rate-limit window (§4.3). The window is fixed, not sliding: its count
	// resets once rateWindow has passed since the window started.
	MaxMessagesPerWindow = 512
	rateWindow           = 15 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// connState is a connection attached to the room: a pre-join placeholder
// until JoinAccept, a Player afterwards.
type connState struct {
	id   string
	ws   *websocket.Conn
	slot int // domain.PreJoinSlot until promoted

	hasClientVersion bool
	clientVersion    uint32
	cookie           uint32

	invalidCount int
	windowStart  time.Time
	windowCount  int

	// closeReason/reasonOverridden let a server-initiated close (DropPlayer,
	// LeaveGame, room teardown) stamp the Disconnect reason the detach
	// handler will use, instead of whatever readLoop guesses from the
	// underlying close frame.
	closeReason      uint32
	reasonOverridden bool
}

type event interface{ isRoomEvent() }

type attachEvent struct {
	ws    *websocket.Conn
	ready chan string // receives the assigned connection id
}

type frameEvent struct {
	connID string
	data   []byte
}

type detachEvent struct {
	connID string
	reason uint32
}

func (attachEvent) isRoomEvent() {}
func (frameEvent) isRoomEvent()  {}
func (detachEvent) isRoomEvent() {}

// Room owns everything reachable from its own Run goroutine. No field here
// is ever touched from another goroutine.
type Room struct {
	Name string

	log           *logrus.Entry
	dirClient     ports.DirectoryClient
	maxFrameBytes int
	onClosed      func(name string)

	events chan event

	state *domain.RoomState
	slots [domain.SlotCount]*connState
	conns map[string]*connState
}

// New constructs a Room actor. Call Run in its own goroutine before
// traffic arrives.
func New(name string, dirClient ports.DirectoryClient, log *logrus.Logger, maxFrameBytes int, onClosed func(name string)) *Room {
	return &Room{
		Name:          name,
		log:           log.WithField("room", name),
		dirClient:     dirClient,
		maxFrameBytes: maxFrameBytes,
		onClosed:      onClosed,
		events:        make(chan event, 64),
		conns:         make(map[string]*connState),
	}
}

// Run is the room's serial execution loop.
func (r *Room) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.events:
			switch e := ev.(type) {
			case attachEvent:
				r.handleAttach(e)
			case frameEvent:
				r.handleFrame(e.connID, e.data)
			case detachEvent:
				r.handleDetach(e.connID, e.reason)
			}
		}
	}
}

// ServeWS is the room's internal /ws endpoint: it upgrades the connection,
// registers it with the actor, and runs a per-connection read loop that
// forwards raw frames into the actor's event channel.
func (r *Room) ServeWS(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.WithError(err).Warn("room ws upgrade failed")
		return
	}

	ready := make(chan string, 1)
	r.events <- attachEvent{ws: ws, ready: ready}
	connID := <-ready

	r.readLoop(connID, ws)
}

func (r *Room) readLoop(connID string, ws *websocket.Conn) {
	// A backstop slightly above maxFrameBytes: the actor still performs
	// the authoritative §4.3 size check (and sends a controlled 1009
	// close) on its own goroutine, so the only job of this limit is to
	// keep a misbehaving peer from forcing unbounded buffering here.
	ws.SetReadLimit(int64(r.maxFrameBytes) + 1)

	reason := uint32(0)
	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				reason = 3
			}
			break
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		r.events <- frameEvent{connID: connID, data: data}
	}
	r.events <- detachEvent{connID: connID, reason: reason}
}

func (r *Room) closeConn(ws *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(2 * time.Second)
	msg := websocket.FormatCloseMessage(code, text)
	ws.WriteControl(websocket.CloseMessage, msg, deadline)
	ws.Close()
}
