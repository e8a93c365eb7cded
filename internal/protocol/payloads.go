package protocol

import (
	"github.com/nenadlazic8/zinga/internal/game/score"
)

// --- Client request payloads ---

// JoinRoomPayload joins a room, creating it on first use of the id.
type JoinRoomPayload struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

// SelectTeamPayload picks a team in the lobby. Team is "A" or "B".
type SelectTeamPayload struct {
	Team string `json:"team"`
}

// AddBotPayload seats a bot on the given team while in the lobby.
type AddBotPayload struct {
	Team string `json:"team"`
}

// PlayCardPayload plays one card from the sender's hand.
type PlayCardPayload struct {
	CardID string `json:"card_id"`
}

// ChatPayload is a table chat message.
type ChatPayload struct {
	Text string `json:"text"`
}

// PingPayload is a heartbeat with the client's timestamp in milliseconds.
type PingPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// --- Server response payloads ---

// JoinedPayload acknowledges a join.
type JoinedPayload struct {
	PlayerID string `json:"player_id"`
	RoomID   string `json:"room_id"`
}

// ErrorPayload reports a rejected request.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PongPayload is the heartbeat reply.
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// ChatBubblePayload relays a chat message to the whole table.
type ChatBubblePayload struct {
	ID       int64  `json:"id"`
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
	Text     string `json:"text"`
}

// HistoryPayload carries the match history for a room + player set.
type HistoryPayload struct {
	Records []HistoryRecord `json:"records"`
}

// HistoryRecord is one completed match.
type HistoryRecord struct {
	Date    int64    `json:"date"` // unix millis
	Players []string `json:"players"`
	AScore  int      `json:"a_score"`
	BScore  int      `json:"b_score"`
	Winner  string   `json:"winner"`
}

// --- Snapshot DTOs ---

// CardInfo is a card as clients see it.
type CardInfo struct {
	ID    string `json:"id"`
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Label string `json:"label"`
}

// PlayerInfo is a seated player as clients see them.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Team      string `json:"team,omitempty"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Connected bool   `json:"connected"`
}

// LastActionInfo describes the most recent play, for animating it exactly
// once. Type is "drop", "take" or "jack_take"; Zinga is 0, 10 or 20.
type LastActionInfo struct {
	ID         int64    `json:"id"`
	Type       string   `json:"type"`
	Seat       int      `json:"seat"`
	PlayerName string   `json:"player_name"`
	Card       CardInfo `json:"card"`
	Zinga      int      `json:"zinga,omitempty"`
}

// DealInfo marks a deal, flagging the last one of the deck.
type DealInfo struct {
	ID     int64 `json:"id"`
	Round  int   `json:"round"`
	Hand   int   `json:"hand"`
	IsLast bool  `json:"is_last"`
}

// HandView is one player's hand; Cards is only filled for the viewer.
type HandView struct {
	Count int        `json:"count"`
	Cards []CardInfo `json:"cards,omitempty"`
}

// CaptureView is one team's capture pile. Cards and PileTop are only
// filled when the viewer belongs to that team.
type CaptureView struct {
	CardsCount int        `json:"cards_count"`
	PileTop    *CardInfo  `json:"pile_top,omitempty"`
	Cards      []CardInfo `json:"cards,omitempty"`

	score.Breakdown
}

// GameView is the in-hand part of a snapshot.
type GameView struct {
	Round         int                 `json:"round"`
	DeckCount     int                 `json:"deck_count"`
	DeckPeekCard  *CardInfo           `json:"deck_peek_card,omitempty"`
	TableTop      *CardInfo           `json:"table_top,omitempty"`
	TableCount    int                 `json:"table_count"`
	Hands         map[string]HandView `json:"hands"`
	TurnSeat      int                 `json:"turn_seat"`
	LastTakerSeat int                 `json:"last_taker_seat"` // -1 before any capture
	LastAction    *LastActionInfo     `json:"last_action,omitempty"`
	LastDeal      *DealInfo           `json:"last_deal,omitempty"`
	CaptureA      CaptureView         `json:"capture_a"`
	CaptureB      CaptureView         `json:"capture_b"`
}

// MatchView is the cumulative match block of a snapshot.
type MatchView struct {
	Target            int              `json:"target"`
	TotalA            int              `json:"total_a"`
	TotalB            int              `json:"total_b"`
	Hand              int              `json:"hand"`
	Winner            string           `json:"winner,omitempty"`
	LastHandA         *score.Breakdown `json:"last_hand_a,omitempty"`
	LastHandB         *score.Breakdown `json:"last_hand_b,omitempty"`
	RematchReadyCount int              `json:"rematch_ready_count"`
}

// StatePayload is the full, per-viewer filtered room snapshot pushed after
// every mutation.
type StatePayload struct {
	RoomID     string       `json:"room_id"`
	Phase      string       `json:"phase"`
	Players    []PlayerInfo `json:"players"`
	ViewerTeam string       `json:"viewer_team,omitempty"`
	Match      *MatchView   `json:"match,omitempty"`
	Game       *GameView    `json:"game,omitempty"`
}
