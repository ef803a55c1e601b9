/*
 * file: codec_test.go
 * package: protocol
 * description:
 *     Round-trip and framing properties for the wire codec (P1-P3).
 */
package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripEachVariant(t *testing.T) {
	cases := []Packet{
		ServerInfo{Version: 1},
		ClientInfo{Version: 7},
		GameListQuery{},
		CreateGame{Cookie: 0x01020304, Name: "room1", Password: "", Difficulty: 2},
		JoinGame{Cookie: 0x0A, Name: "room1", Password: ""},
		LeaveGame{},
		JoinAccept{Cookie: 0x01020304, Index: 0, Seed: 42, Difficulty: 2},
		JoinReject{Cookie: 0x11, Reason: ReasonIncorrectPassword},
		Connect{ID: 0},
		Disconnect{ID: 1, Reason: 3},
		DropPlayer{ID: 0, Reason: 42},
		Message{ID: 0xFF, Payload: []byte{0xDE, 0xAD}},
		Turn{TurnNum: 99}, // decode-form: ID always zero
	}

	for _, p := range cases {
		frame := EncodeFrame(p)
		got, err := DecodeFrame(frame)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, p, got[0])
	}
}

func TestTurnWireFormIsAsymmetric(t *testing.T) {
	// EncodeFrame writes Turn as id (u8) then turn (u32); DecodeFrame reads
	// the client-to-server form, turn (u32) only, and leaves ID zero. Each
	// direction is checked against its own layout.
	frame := EncodeFrame(Turn{ID: 3, TurnNum: 7})
	require.Equal(t, []byte{byte(CodeTurn), 0x03, 0x07, 0x00, 0x00, 0x00}, frame)

	got, err := DecodeFrame([]byte{byte(CodeTurn), 0x07, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	require.Equal(t, []Packet{Turn{ID: 0, TurnNum: 7}}, got)
}

func TestGameListDecodeAlwaysYieldsQueryForm(t *testing.T) {
	// GameList shares code 0x21 between the client-to-server request (no
	// payload) and the server-to-client response (count + entries). Decode
	// only ever needs to recognize the request form (§6: "GameList (decode)
	// | no payload"), since nothing in this system decodes its own
	// GameListSnapshot replies off the wire; it only encodes them.
	frame := EncodeFrame(GameListSnapshot{Entries: []GameListEntry{{Type: 0, Name: "room1"}}})
	got, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, []Packet{GameListQuery{}}, got)
}

func TestBatchFlattensArbitrarySequence(t *testing.T) {
	seq := []Packet{
		ClientInfo{Version: 1},
		Turn{TurnNum: 5},
		Message{ID: 2, Payload: []byte("hi")},
	}
	frame := EncodeFrame(Batch{Packets: seq})
	got, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, seq, got)
}

func TestNestedBatchesFlatten(t *testing.T) {
	a := ClientInfo{Version: 1}
	b := Connect{ID: 2}
	c := LeaveGame{}

	inner := Batch{Packets: []Packet{a, b}}
	outer := Batch{Packets: []Packet{inner, c}}

	frame := EncodeFrame(outer)
	got, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, []Packet{a, b, c}, got)
}

func TestBatchNestingCapRejected(t *testing.T) {
	var p Packet = LeaveGame{}
	for i := 0; i < MaxBatchDepth+1; i++ {
		p = Batch{Packets: []Packet{p}}
	}
	frame := EncodeFrame(p)
	_, err := DecodeFrame(frame)
	require.ErrorIs(t, err, ErrBatchTooDeep)
}

func TestUnknownCodeFails(t *testing.T) {
	_, err := DecodeFrame([]byte{0x7F})
	require.ErrorIs(t, err, ErrUnknownCode)
}

func TestShortFrameFails(t *testing.T) {
	_, err := DecodeFrame(nil)
	require.ErrorIs(t, err, ErrShortFrame)

	// ClientInfo declares a u32 version but the frame is truncated.
	_, err = DecodeFrame([]byte{byte(CodeClientInfo), 0x01})
	require.ErrorIs(t, err, ErrShortFrame)
}

func TestSniffLobbyAction(t *testing.T) {
	frame := EncodeFrame(Batch{Packets: []Packet{
		ClientInfo{Version: 7},
		CreateGame{Cookie: 9, Name: "room1", Password: "", Difficulty: 1},
	}})

	action, ok := SniffLobbyAction(frame)
	require.True(t, ok)
	require.NotNil(t, action.ClientInfoVersion)
	require.Equal(t, uint32(7), *action.ClientInfoVersion)
	require.NotNil(t, action.Create)
	require.Equal(t, "room1", action.Create.Name)
}

func TestSniffLobbyActionUndecodableReturnsNotOK(t *testing.T) {
	_, ok := SniffLobbyAction([]byte{0x7F, 0x00})
	require.False(t, ok)
}

func TestSniffLobbyActionNoIntentStillOK(t *testing.T) {
	frame := EncodeFrame(Turn{TurnNum: 1})
	action, ok := SniffLobbyAction(frame)
	require.True(t, ok)
	require.Nil(t, action.ClientInfoVersion)
	require.False(t, action.WantsGameList)
	require.Nil(t, action.Create)
	require.Nil(t, action.Join)
}
