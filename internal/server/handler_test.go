package server

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nenadlazic8/zinga/internal/config"
	"github.com/nenadlazic8/zinga/internal/game/room"
	"github.com/nenadlazic8/zinga/internal/logger"
	"github.com/nenadlazic8/zinga/internal/protocol"
	"github.com/nenadlazic8/zinga/internal/testutil"
)

// newTestServer builds a server with an in-memory history store and no
// listening socket; dispatch and the room layer are fully exercisable
// without a network.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	s := &Server{
		cfg:   cfg,
		log:   logger.Nop(),
		rooms: room.NewManager(cfg.Game, testutil.NewMemoryHistory(), logger.Nop()),
	}
	s.initHandlers()
	t.Cleanup(s.rooms.Close)
	return s
}

// recv pops the next queued frame off a client's send channel.
func recv(t *testing.T, c *Client) protocol.Message {
	t.Helper()
	select {
	case data := <-c.send:
		msg, err := protocol.Decode(data)
		require.NoError(t, err)
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message queued for client")
		return protocol.Message{}
	}
}

// recvUntil skips past queued frames until one of the wanted type shows
// up, decoding its payload into out.
func recvUntil(t *testing.T, c *Client, want protocol.MessageType, out any) {
	t.Helper()
	for range 20 {
		msg := recv(t, c)
		if msg.Type != want {
			continue
		}
		if out != nil {
			require.NoError(t, json.Unmarshal(msg.Payload, out))
		}
		return
	}
	t.Fatalf("no %s message queued", want)
}

func send(s *Server, c *Client, msgType protocol.MessageType, payload any) {
	s.dispatch(c, protocol.MustNewMessage(msgType, payload))
}

func TestDispatch_UnknownType(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	c := newClient(s, nil)

	s.dispatch(c, protocol.Message{Type: "teleport"})

	var errPayload protocol.ErrorPayload
	recvUntil(t, c, protocol.MsgError, &errPayload)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errPayload.Code)
}

func TestJoinRoom_AcksWithPlayerID(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	c := newClient(s, nil)

	send(s, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "soba", Name: "Ana"})

	var joined protocol.JoinedPayload
	recvUntil(t, c, protocol.MsgJoined, &joined)
	assert.NotEmpty(t, joined.PlayerID)
	assert.Equal(t, "SOBA", joined.RoomID)
	assert.Equal(t, 1, s.rooms.RoomCount())

	// A snapshot follows the join.
	var state protocol.StatePayload
	recvUntil(t, c, protocol.MsgState, &state)
	assert.Equal(t, "SOBA", state.RoomID)
	require.Len(t, state.Players, 1)
	assert.Equal(t, "Ana", state.Players[0].Name)

	// Joining twice from the same connection is rejected.
	send(s, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "OTHER", Name: "Ana"})
	var errPayload protocol.ErrorPayload
	recvUntil(t, c, protocol.MsgError, &errPayload)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errPayload.Code)
}

func TestRoomOps_RequireMembership(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	for _, tc := range []struct {
		msgType protocol.MessageType
		payload any
	}{
		{protocol.MsgSelectTeam, protocol.SelectTeamPayload{Team: "A"}},
		{protocol.MsgAddBot, protocol.AddBotPayload{}},
		{protocol.MsgPlayCard, protocol.PlayCardPayload{CardID: "x"}},
		{protocol.MsgRematch, nil},
		{protocol.MsgLeaveRoom, nil},
		{protocol.MsgChat, protocol.ChatPayload{Text: "hej"}},
	} {
		c := newClient(s, nil)
		send(s, c, tc.msgType, tc.payload)

		var errPayload protocol.ErrorPayload
		recvUntil(t, c, protocol.MsgError, &errPayload)
		assert.Equal(t, protocol.ErrCodeNotInRoom, errPayload.Code, "op %s", tc.msgType)
	}
}

func TestGameErrorCodes_SurviveTheWire(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	c := newClient(s, nil)

	send(s, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "SOBA", Name: "Ana"})
	send(s, c, protocol.MsgSelectTeam, protocol.SelectTeamPayload{Team: "Z"})

	var errPayload protocol.ErrorPayload
	recvUntil(t, c, protocol.MsgError, &errPayload)
	assert.Equal(t, protocol.ErrCodeInvalidTeam, errPayload.Code)
}

func TestLeaveRoom_FreesTheConnectionForAnotherJoin(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	c := newClient(s, nil)

	send(s, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "SOBA", Name: "Ana"})
	send(s, c, protocol.MsgLeaveRoom, nil)
	assert.Nil(t, c.room)
	assert.Equal(t, 0, s.rooms.RoomCount(), "empty room is dropped")

	send(s, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "DRUGA", Name: "Ana"})
	var joined protocol.JoinedPayload
	recvUntil(t, c, protocol.MsgJoined, &joined)
	assert.Equal(t, "DRUGA", joined.RoomID)
}

func TestPing_EchoesClientTimestamp(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	c := newClient(s, nil)

	send(s, c, protocol.MsgPing, protocol.PingPayload{Timestamp: 12345})

	var pong protocol.PongPayload
	recvUntil(t, c, protocol.MsgPong, &pong)
	assert.Equal(t, int64(12345), pong.ClientTimestamp)
	assert.NotZero(t, pong.ServerTimestamp)
}

func TestSend_ConcurrentWithClose(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	msg := protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{})

	// Broadcasts racing a disconnect must never panic on a closed channel.
	for range 50 {
		c := newClient(s, nil)

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					c.Send(msg)
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.close()
		}()
		wg.Wait()

		c.Send(msg) // after close, a late send is a no-op
	}
}

func TestSend_DropsWhenBufferFull(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	c := newClient(s, nil)

	msg := protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{})
	for range cap(c.send) + 10 {
		c.Send(msg)
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	assert.True(t, closed, "overflowing the buffer closes the client")
}
