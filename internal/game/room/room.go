// Package room owns the lifecycle of one Zinga table: lobby and team
// selection, the running hand engine, cumulative match totals, rematches
// and the per-viewer snapshots pushed after every mutation. All access to
// a room serializes through its mutex, so exactly one mutation is ever in
// flight per room; different rooms never share state.
package room

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nenadlazic8/zinga/internal/apperrors"
	"github.com/nenadlazic8/zinga/internal/config"
	"github.com/nenadlazic8/zinga/internal/game/bot"
	"github.com/nenadlazic8/zinga/internal/game/engine"
	"github.com/nenadlazic8/zinga/internal/protocol"
)

// Phase of a room.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
	PhaseAborted  Phase = "aborted"
)

// Sender pushes a message to one connected player. Implementations must
// not block; the transport buffers and drops on overflow.
type Sender interface {
	Send(msg protocol.Message)
}

// HistoryStore keeps finished-match records per room + player set.
type HistoryStore interface {
	Append(ctx context.Context, key string, rec protocol.HistoryRecord) error
	List(ctx context.Context, key string) ([]protocol.HistoryRecord, error)
}

// Player is one seat occupant, human or bot. Team is chosen exactly once
// in the lobby and never recomputed from the seat afterwards.
type Player struct {
	ID        string
	Name      string
	Seat      int // -1 until teams settle
	Team      engine.Team
	HasTeam   bool
	IsBot     bool
	Connected bool

	sender  Sender       // nil for bots
	chooser *bot.Chooser // nil for humans
}

// Match is the cumulative state spanning hands. Totals only ever grow; a
// winner needs at least Target points and strictly more than the opponent.
type Match struct {
	Target    int
	Totals    [2]int
	HandNum   int
	StartSeat int
	LastHand  *engine.Result
	Winner    *engine.Team
	Started   bool
}

// Room is one table.
type Room struct {
	ID string

	mu           sync.Mutex
	phase        Phase
	players      []*Player
	hand         *engine.Hand
	match        Match
	rematchReady map[string]bool
	actionSeq    int64
	history      []protocol.HistoryRecord

	gameCfg    config.GameConfig
	store      HistoryStore
	log        *zap.SugaredLogger
	lastActive time.Time
	botCount   int
}

func newRoom(id string, gameCfg config.GameConfig, store HistoryStore, log *zap.SugaredLogger) *Room {
	return &Room{
		ID:           id,
		phase:        PhaseLobby,
		rematchReady: make(map[string]bool),
		gameCfg:      gameCfg,
		store:        store,
		log:          log,
		lastActive:   time.Now(),
	}
}

// Phase returns the room's current phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// nextSeq hands out the room's monotonically increasing action sequence.
// Callers hold the room lock.
func (r *Room) nextSeq() int64 {
	r.actionSeq++
	return r.actionSeq
}

func (r *Room) touch() {
	r.lastActive = time.Now()
}

func (r *Room) findPlayer(playerID string) *Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) playerBySeat(seat int) *Player {
	for _, p := range r.players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// Join seats a new player in the lobby and returns their id.
func (r *Room) Join(name string, sender Sender) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return "", apperrors.ErrGameStarted
	}
	if len(r.players) >= 4 {
		return "", apperrors.ErrRoomFull
	}

	p := &Player{
		ID:        uuid.NewString(),
		Name:      name,
		Seat:      -1,
		Connected: true,
		sender:    sender,
	}
	r.players = append(r.players, p)
	r.touch()
	r.log.Infow("player joined", "room", r.ID, "player", name)

	r.broadcast()
	return p.ID, nil
}

// SelectTeam picks a team in the lobby, "A" or "B", at most two players
// each. Once four players have chosen, seats are derived from the teams
// and the match starts.
func (r *Room) SelectTeam(playerID, team string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return apperrors.ErrGameStarted
	}
	p := r.findPlayer(playerID)
	if p == nil {
		return apperrors.ErrPlayerNotFound
	}
	t, err := parseTeam(team)
	if err != nil {
		return err
	}
	if r.teamCount(t) >= 2 && !(p.HasTeam && p.Team == t) {
		return apperrors.ErrTeamFull
	}

	p.Team = t
	p.HasTeam = true
	r.touch()

	r.maybeStart()
	r.broadcast()
	return nil
}

// AddBot fills an empty lobby slot with a bot. Only seated players may add
// one; team "" picks the emptier team.
func (r *Room) AddBot(requesterID, team string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if r.findPlayer(requesterID) == nil {
		return apperrors.ErrPlayerNotFound
	}
	if len(r.players) >= 4 {
		return apperrors.ErrRoomFull
	}

	var t engine.Team
	if team == "" {
		t = engine.TeamA
		if r.teamCount(engine.TeamB) < r.teamCount(engine.TeamA) {
			t = engine.TeamB
		}
	} else {
		var err error
		t, err = parseTeam(team)
		if err != nil {
			return err
		}
	}
	if r.teamCount(t) >= 2 {
		return apperrors.ErrTeamFull
	}

	r.botCount++
	p := &Player{
		ID:        uuid.NewString(),
		Name:      fmt.Sprintf("Bot %d", r.botCount),
		Seat:      -1,
		Team:      t,
		HasTeam:   true,
		IsBot:     true,
		Connected: true,
		chooser:   bot.New(uint64(uuid.New().ID())),
	}
	r.players = append(r.players, p)
	r.touch()
	r.log.Infow("bot added", "room", r.ID, "bot", p.Name, "team", t.String())

	r.maybeStart()
	r.broadcast()
	return nil
}

func (r *Room) teamCount(t engine.Team) int {
	n := 0
	for _, p := range r.players {
		if p.HasTeam && p.Team == t {
			n++
		}
	}
	return n
}

func parseTeam(team string) (engine.Team, error) {
	switch team {
	case "A":
		return engine.TeamA, nil
	case "B":
		return engine.TeamB, nil
	default:
		return 0, apperrors.ErrInvalidTeam
	}
}

// maybeStart begins the match when four players have all chosen teams.
// Seats come from team membership, alternating A and B around the table:
// team A sits at 0 and 2, team B at 1 and 3, in join order within a team.
func (r *Room) maybeStart() {
	if len(r.players) != 4 {
		return
	}
	for _, p := range r.players {
		if !p.HasTeam {
			return
		}
	}
	if r.teamCount(engine.TeamA) != 2 || r.teamCount(engine.TeamB) != 2 {
		return
	}

	seatA, seatB := 0, 1
	for _, p := range r.players {
		if p.Team == engine.TeamA {
			p.Seat = seatA
			seatA += 2
		} else {
			p.Seat = seatB
			seatB += 2
		}
	}

	r.match = Match{
		Target:  r.gameCfg.TargetScore,
		Started: true,
	}
	r.phase = PhasePlaying
	r.loadHistory()
	if len(r.history) > 0 {
		msg := protocol.MustNewMessage(protocol.MsgHistory, protocol.HistoryPayload{Records: r.history})
		for _, p := range r.players {
			if p.sender != nil {
				p.sender.Send(msg)
			}
		}
	}
	r.startHand()
	r.log.Infow("match started", "room", r.ID, "target", r.match.Target)
}

// startHand deals the next hand, carrying the match totals in so the
// engine can cut the hand short when the target is reached.
func (r *Room) startHand() {
	r.match.HandNum++
	var cfg engine.Config
	for _, p := range r.players {
		cfg.Teams[p.Seat] = p.Team
		cfg.Names[p.Seat] = p.Name
	}
	cfg.StartSeat = r.match.StartSeat
	cfg.HandNum = r.match.HandNum
	cfg.Carry = r.match.Totals
	cfg.Target = r.match.Target
	cfg.NextSeq = r.nextSeq

	r.hand = engine.New(cfg)
	r.maybeScheduleBot()
}

// Leave removes a player. Leaving mid-hand aborts the game for the table.
// The remaining human count is returned so the manager can drop empty
// rooms.
func (r *Room) Leave(playerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findPlayer(playerID)
	if p == nil {
		return r.humanCount(), apperrors.ErrPlayerNotFound
	}

	r.removePlayer(playerID)
	if r.phase == PhasePlaying {
		r.phase = PhaseAborted
		r.log.Infow("game aborted, player left", "room", r.ID, "player", p.Name)
	}
	r.touch()
	r.broadcast()
	return r.humanCount(), nil
}

// MarkDisconnected records a transport loss. In the lobby the seat is
// freed; mid-hand the game aborts immediately (no reconnect grace).
func (r *Room) MarkDisconnected(playerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findPlayer(playerID)
	if p == nil {
		return r.humanCount()
	}

	switch r.phase {
	case PhaseLobby:
		r.removePlayer(playerID)
	case PhasePlaying:
		p.Connected = false
		r.phase = PhaseAborted
		r.log.Infow("game aborted, player disconnected", "room", r.ID, "player", p.Name)
	default:
		p.Connected = false
	}
	r.touch()
	r.broadcast()
	return r.humanCount()
}

func (r *Room) removePlayer(playerID string) {
	delete(r.rematchReady, playerID)
	for i, p := range r.players {
		if p.ID == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

func (r *Room) humanCount() int {
	n := 0
	for _, p := range r.players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

// RequestRematch registers a rematch vote after a finished match. When
// the table is still complete and every human has voted (bots are always
// willing), a fresh match starts with totals reset to zero.
func (r *Room) RequestRematch(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseFinished {
		return apperrors.ErrMatchNotOver
	}
	p := r.findPlayer(playerID)
	if p == nil {
		return apperrors.ErrPlayerNotFound
	}
	r.rematchReady[playerID] = true
	r.touch()

	ready := 0
	for _, pl := range r.players {
		if pl.IsBot || r.rematchReady[pl.ID] {
			ready++
		}
	}
	// A rematch needs every one of the four seats still occupied; after
	// someone leaves, the remaining votes can never start a short-handed
	// match.
	if len(r.players) == 4 && ready == 4 {
		r.rematchReady = make(map[string]bool)
		r.match = Match{
			Target:  r.gameCfg.TargetScore,
			Started: true,
		}
		r.phase = PhasePlaying
		r.startHand()
		r.log.Infow("rematch started", "room", r.ID)
	}

	r.broadcast()
	return nil
}

// Chat relays a table chat message. It never touches game state.
func (r *Room) Chat(playerID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findPlayer(playerID)
	if p == nil {
		return apperrors.ErrPlayerNotFound
	}
	if text == "" {
		return &apperrors.GameError{Code: protocol.ErrCodeInvalidMsg, Message: "empty message"}
	}
	if len([]rune(text)) > r.gameCfg.MaxChatLen {
		return &apperrors.GameError{Code: protocol.ErrCodeInvalidMsg, Message: "message too long"}
	}

	msg := protocol.MustNewMessage(protocol.MsgChatBubble, protocol.ChatBubblePayload{
		ID:       r.nextSeq(),
		PlayerID: p.ID,
		Seat:     p.Seat,
		Text:     text,
	})
	for _, pl := range r.players {
		if pl.sender != nil {
			pl.sender.Send(msg)
		}
	}
	return nil
}

// historyKey identifies a room + player-set combination.
func (r *Room) historyKey() string {
	names := make([]string, 0, len(r.players))
	for _, p := range r.players {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	key := r.ID
	for _, n := range names {
		key += "|" + n
	}
	return key
}

func (r *Room) loadHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	records, err := r.store.List(ctx, r.historyKey())
	if err != nil {
		r.log.Warnw("load match history", "room", r.ID, "err", err)
		return
	}
	r.history = records
}
