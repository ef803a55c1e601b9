/*
 * file: room_test.go
 * package: roomactor
 * description:
 *     End-to-end tests against a real Room actor served over httptest,
 *     exercising the scenarios from §8: create & join, wrong password,
 *     broadcast message, host drop, and invalid name.
 */
package roomactor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/juan10024/roomrelay/internal/core/domain"
	"github.com/juan10024/roomrelay/internal/core/protocol"
)

type noopDirClient struct{}

func (noopDirClient) Upsert(ctx context.Context, entry domain.DirectoryEntry) error { return nil }
func (noopDirClient) Remove(ctx context.Context, name string) error                { return nil }

func newTestRoom(t *testing.T, name string) (*httptest.Server, func()) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel) // keep test output quiet

	room := New(name, noopDirClient{}, log, 14*1024*1024, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go room.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(room.ServeWS))
	return srv, func() {
		cancel()
		srv.Close()
	}
}

func dialRoom(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func sendFrame(t *testing.T, conn *websocket.Conn, p protocol.Packet) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, protocol.EncodeFrame(p)))
}

func readPacket(t *testing.T, conn *websocket.Conn) protocol.Packet {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	packets, err := protocol.DecodeFrame(data)
	require.NoError(t, err)
	require.Len(t, packets, 1)
	return packets[0]
}

func TestCreateAndJoinHappyPath(t *testing.T) {
	srv, cleanup := newTestRoom(t, "room1")
	defer cleanup()

	host := dialRoom(t, srv)
	defer host.Close()
	sendFrame(t, host, protocol.ClientInfo{Version: 7})
	sendFrame(t, host, protocol.CreateGame{Cookie: 1, Name: "room1", Password: "", Difficulty: 2})

	accept := readPacket(t, host).(protocol.JoinAccept)
	require.Equal(t, uint32(1), accept.Cookie)
	require.Equal(t, uint8(0), accept.Index)
	require.Equal(t, uint32(2), accept.Difficulty)

	joiner := dialRoom(t, srv)
	defer joiner.Close()
	sendFrame(t, joiner, protocol.ClientInfo{Version: 7})
	sendFrame(t, joiner, protocol.JoinGame{Cookie: 2, Name: "room1", Password: ""})

	joinAccept := readPacket(t, joiner).(protocol.JoinAccept)
	require.Equal(t, uint8(1), joinAccept.Index)
	require.Equal(t, accept.Seed, joinAccept.Seed)

	// host observes the new player's Connect
	connectPkt := readPacket(t, host).(protocol.Connect)
	require.Equal(t, uint8(1), connectPkt.ID)
}

func TestJoinWrongPasswordRejected(t *testing.T) {
	srv, cleanup := newTestRoom(t, "room1")
	defer cleanup()

	host := dialRoom(t, srv)
	defer host.Close()
	sendFrame(t, host, protocol.ClientInfo{Version: 1})
	sendFrame(t, host, protocol.CreateGame{Cookie: 1, Name: "room1", Password: "secret", Difficulty: 0})
	_ = readPacket(t, host) // JoinAccept

	joiner := dialRoom(t, srv)
	defer joiner.Close()
	sendFrame(t, joiner, protocol.ClientInfo{Version: 1})
	sendFrame(t, joiner, protocol.JoinGame{Cookie: 9, Name: "room1", Password: "wrong"})

	reject := readPacket(t, joiner).(protocol.JoinReject)
	require.Equal(t, protocol.ReasonIncorrectPassword, reject.Reason)
}

func TestBroadcastMessageReencodesSenderSlot(t *testing.T) {
	srv, cleanup := newTestRoom(t, "room1")
	defer cleanup()

	host := dialRoom(t, srv)
	defer host.Close()
	sendFrame(t, host, protocol.ClientInfo{Version: 1})
	sendFrame(t, host, protocol.CreateGame{Cookie: 1, Name: "room1", Difficulty: 0})
	_ = readPacket(t, host) // JoinAccept

	joiner := dialRoom(t, srv)
	defer joiner.Close()
	sendFrame(t, joiner, protocol.ClientInfo{Version: 1})
	sendFrame(t, joiner, protocol.JoinGame{Cookie: 2, Name: "room1"})
	_ = readPacket(t, joiner)       // JoinAccept
	_ = readPacket(t, host)         // Connect for joiner

	sendFrame(t, joiner, protocol.Message{ID: protocol.BroadcastID, Payload: []byte("hi")})

	msg := readPacket(t, host).(protocol.Message)
	require.Equal(t, uint8(1), msg.ID) // sender's own slot, not what the sender claimed
	require.Equal(t, []byte("hi"), msg.Payload)
}

func TestHostDropClosesRoom(t *testing.T) {
	srv, cleanup := newTestRoom(t, "room1")
	defer cleanup()

	host := dialRoom(t, srv)
	defer host.Close()
	sendFrame(t, host, protocol.ClientInfo{Version: 1})
	sendFrame(t, host, protocol.CreateGame{Cookie: 1, Name: "room1", Difficulty: 0})
	_ = readPacket(t, host)

	joiner := dialRoom(t, srv)
	defer joiner.Close()
	sendFrame(t, joiner, protocol.ClientInfo{Version: 1})
	sendFrame(t, joiner, protocol.JoinGame{Cookie: 2, Name: "room1"})
	_ = readPacket(t, joiner)
	_ = readPacket(t, host)

	sendFrame(t, host, protocol.DropPlayer{ID: 0, Reason: 7})

	disc := readPacket(t, joiner).(protocol.Disconnect)
	require.Equal(t, uint32(7), disc.Reason)
}

func TestInvalidRoomNameClosesConnection(t *testing.T) {
	srv, cleanup := newTestRoom(t, "room1")
	defer cleanup()

	conn := dialRoom(t, srv)
	defer conn.Close()
	sendFrame(t, conn, protocol.ClientInfo{Version: 1})
	sendFrame(t, conn, protocol.CreateGame{Cookie: 1, Name: "not valid!", Difficulty: 0})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok)
	require.Equal(t, websocket.CloseProtocolError, closeErr.Code)
}
