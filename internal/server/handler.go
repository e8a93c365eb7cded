package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nenadlazic8/zinga/internal/apperrors"
	"github.com/nenadlazic8/zinga/internal/protocol"
)

type handlerFunc func(c *Client, msg protocol.Message)

func (s *Server) initHandlers() {
	s.handlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgJoinRoom:   s.handleJoinRoom,
		protocol.MsgSelectTeam: s.handleSelectTeam,
		protocol.MsgAddBot:     s.handleAddBot,
		protocol.MsgPlayCard:   s.handlePlayCard,
		protocol.MsgRematch:    func(c *Client, _ protocol.Message) { s.handleRematch(c) },
		protocol.MsgLeaveRoom:  func(c *Client, _ protocol.Message) { s.handleLeaveRoom(c) },
		protocol.MsgChat:       s.handleChat,
		protocol.MsgPing:       s.handlePing,
	}
}

// dispatch routes one decoded message. Handlers run on the client's read
// pump goroutine; room state is only ever touched under the room's lock.
func (s *Server) dispatch(c *Client, msg protocol.Message) {
	h, ok := s.handlers[msg.Type]
	if !ok {
		s.log.Debugw("unknown message type", "type", msg.Type)
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	h(c, msg)
}

// sendError maps an error onto the wire, preserving game error codes.
func sendError(c *Client, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		c.Send(protocol.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	c.Send(protocol.NewErrorMessage(protocol.ErrCodeUnknown))
}

func decodePayload(c *Client, msg protocol.Message, out any) bool {
	if err := json.Unmarshal(msg.Payload, out); err != nil {
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return false
	}
	return true
}

func (s *Server) handleJoinRoom(c *Client, msg protocol.Message) {
	var req protocol.JoinRoomPayload
	if !decodePayload(c, msg, &req) {
		return
	}
	if c.room != nil {
		c.Send(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "already in a room"))
		return
	}

	r, playerID, err := s.rooms.Join(req.RoomID, req.Name, c)
	if err != nil {
		sendError(c, err)
		return
	}
	c.room = r
	c.playerID = playerID

	c.Send(protocol.MustNewMessage(protocol.MsgJoined, protocol.JoinedPayload{
		PlayerID: playerID,
		RoomID:   r.ID,
	}))
}

func (s *Server) handleSelectTeam(c *Client, msg protocol.Message) {
	var req protocol.SelectTeamPayload
	if !decodePayload(c, msg, &req) {
		return
	}
	if c.room == nil {
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	if err := c.room.SelectTeam(c.playerID, req.Team); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handleAddBot(c *Client, msg protocol.Message) {
	var req protocol.AddBotPayload
	if !decodePayload(c, msg, &req) {
		return
	}
	if c.room == nil {
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	if err := c.room.AddBot(c.playerID, req.Team); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handlePlayCard(c *Client, msg protocol.Message) {
	var req protocol.PlayCardPayload
	if !decodePayload(c, msg, &req) {
		return
	}
	if c.room == nil {
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	if err := c.room.PlayCard(c.playerID, req.CardID); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handleRematch(c *Client) {
	if c.room == nil {
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	if err := c.room.RequestRematch(c.playerID); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handleLeaveRoom(c *Client) {
	if c.room == nil {
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	err := s.rooms.Leave(c.room, c.playerID)
	c.room = nil
	c.playerID = ""
	if err != nil {
		sendError(c, err)
	}
}

func (s *Server) handleChat(c *Client, msg protocol.Message) {
	var req protocol.ChatPayload
	if !decodePayload(c, msg, &req) {
		return
	}
	if c.room == nil {
		c.Send(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	if err := c.room.Chat(c.playerID, req.Text); err != nil {
		sendError(c, err)
	}
}

func (s *Server) handlePing(c *Client, msg protocol.Message) {
	var req protocol.PingPayload
	if len(msg.Payload) > 0 && !decodePayload(c, msg, &req) {
		return
	}
	c.Send(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: req.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}
