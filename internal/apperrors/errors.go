package apperrors

import (
	"github.com/nenadlazic8/zinga/internal/protocol"
)

// GameError is a validation rejection shared by the room and the engine.
// It never indicates a corrupted room; the request is refused and nothing
// is mutated.
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Predefined rejections.
var (
	ErrRoomNotFound   = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "room not found"}
	ErrRoomFull       = &GameError{Code: protocol.ErrCodeRoomFull, Message: "room is full"}
	ErrNotInRoom      = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "you are not in a room"}
	ErrGameStarted    = &GameError{Code: protocol.ErrCodeGameStarted, Message: "game already started"}
	ErrGameNotStart   = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "game has not started"}
	ErrNotYourTurn    = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "not your turn"}
	ErrCardNotHeld    = &GameError{Code: protocol.ErrCodeCardNotHeld, Message: "that card is not in your hand"}
	ErrTeamFull       = &GameError{Code: protocol.ErrCodeTeamFull, Message: "that team already has two players"}
	ErrInvalidTeam    = &GameError{Code: protocol.ErrCodeInvalidTeam, Message: "unknown team"}
	ErrMatchNotOver   = &GameError{Code: protocol.ErrCodeMatchNotOver, Message: "match is not finished"}
	ErrPlayerNotFound = &GameError{Code: protocol.ErrCodePlayerNotFound, Message: "player not found"}
)
