package protocol

import (
	"encoding/json"
	"fmt"
)

// Message is the envelope for everything crossing the websocket.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType discriminates message payloads.
type MessageType string

// Client → server message types.
const (
	MsgJoinRoom   MessageType = "join_room"   // join (or create) a room
	MsgSelectTeam MessageType = "select_team" // pick team A or B in the lobby
	MsgAddBot     MessageType = "add_bot"     // seat a bot in the lobby
	MsgPlayCard   MessageType = "play_card"   // play one card from hand
	MsgRematch    MessageType = "rematch"     // request a rematch after a finished match
	MsgLeaveRoom  MessageType = "leave_room"  // leave the current room
	MsgChat       MessageType = "chat"        // table chat bubble
	MsgPing       MessageType = "ping"        // heartbeat
)

// Server → client message types.
const (
	MsgJoined     MessageType = "joined"      // join acknowledged, carries the player id
	MsgState      MessageType = "state"       // full per-viewer room snapshot
	MsgHistory    MessageType = "history"     // match history for this room + players
	MsgChatBubble MessageType = "chat_bubble" // chat message from a seated player
	MsgPong       MessageType = "pong"        // heartbeat reply
	MsgError      MessageType = "error"       // request rejected
)

// NewMessage builds a Message with a JSON-encoded payload.
func NewMessage(msgType MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Payload: data}, nil
}

// MustNewMessage is NewMessage for payload types we control; encoding them
// cannot fail at runtime.
func MustNewMessage(msgType MessageType, payload any) Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode serializes a message for the wire.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode parses a wire message.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("decode message: missing type")
	}
	return msg, nil
}

// NewErrorMessage builds an error message from a code, using its default text.
func NewErrorMessage(code int) Message {
	return NewErrorMessageWithText(code, ErrorMessages[code])
}

// NewErrorMessageWithText builds an error message with an explicit text.
func NewErrorMessageWithText(code int, text string) Message {
	return MustNewMessage(MsgError, ErrorPayload{Code: code, Message: text})
}
