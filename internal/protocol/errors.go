package protocol

// Error codes carried by MsgError payloads.
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	ErrCodeRoomNotFound   = 2001
	ErrCodeRoomFull       = 2002
	ErrCodeNotInRoom      = 2003
	ErrCodeGameStarted    = 2004
	ErrCodeTeamFull       = 2005
	ErrCodeInvalidTeam    = 2006
	ErrCodeMatchNotOver   = 2007
	ErrCodePlayerNotFound = 2008

	ErrCodeGameNotStart = 3001
	ErrCodeNotYourTurn  = 3002
	ErrCodeCardNotHeld  = 3003
)

// ErrorMessages holds the default text for each error code.
var ErrorMessages = map[int]string{
	ErrCodeUnknown:        "unknown error",
	ErrCodeInvalidMsg:     "invalid message format",
	ErrCodeRoomNotFound:   "room not found",
	ErrCodeRoomFull:       "room is full",
	ErrCodeNotInRoom:      "you are not in a room",
	ErrCodeGameStarted:    "game already started",
	ErrCodeTeamFull:       "that team already has two players",
	ErrCodeInvalidTeam:    "unknown team",
	ErrCodeMatchNotOver:   "match is not finished",
	ErrCodePlayerNotFound: "player not found",
	ErrCodeGameNotStart:   "game has not started",
	ErrCodeNotYourTurn:    "not your turn",
	ErrCodeCardNotHeld:    "that card is not in your hand",
}
