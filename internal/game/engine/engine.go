// Package engine owns the state of one Zinga hand: the draw pile, the
// table, the four seat hands and the two capture piles. It resolves every
// played card into a drop, a take or a Jack take, detects zinga bonuses
// and decides when the hand is over. It is pure in-memory state; the room
// serializes access and drives bots through the same entry point humans
// use.
package engine

import (
	"fmt"

	"github.com/nenadlazic8/zinga/internal/game/card"
	"github.com/nenadlazic8/zinga/internal/game/score"
)

// Team indexes the two capture piles.
type Team int

const (
	TeamA Team = iota
	TeamB
)

func (t Team) String() string {
	if t == TeamA {
		return "A"
	}
	return "B"
}

// State of the hand.
type State int

const (
	StatePlaying State = iota
	StateOver
)

// ActionType classifies a resolved play.
type ActionType string

const (
	ActionDrop     ActionType = "drop"
	ActionTake     ActionType = "take"
	ActionJackTake ActionType = "jack_take"
)

// LastAction describes one resolved play. Exactly one is produced per
// play, synchronously with the mutation, with a monotonically increasing
// ID so consumers can detect missed or reordered updates.
type LastAction struct {
	ID         int64
	Type       ActionType
	Seat       int
	PlayerName string
	Card       card.Card
	Zinga      int // 0, score.ZingaValue or score.ZingaOnJackValue
}

// DealEvent marks that cards were dealt. IsLast flags the deal that
// emptied the deck.
type DealEvent struct {
	ID     int64
	Round  int
	Hand   int
	IsLast bool
}

// CapturePile accumulates one team's takes during a hand.
type CapturePile struct {
	Cards          []card.Card
	Zinga10        int
	Zinga20        int
	BonusMostCards int
}

// Result holds both teams' final hand scores.
type Result struct {
	A score.Breakdown
	B score.Breakdown
}

// PlayResult reports what one play did.
type PlayResult struct {
	Action   LastAction
	Deal     *DealEvent // set when the play triggered a redeal
	HandOver bool
	Result   *Result // set when HandOver
}

// Config fixes a hand's seating and match context at construction. Teams
// maps each seat to its capture pile and is never recomputed afterwards.
type Config struct {
	Teams     [4]Team
	Names     [4]string
	StartSeat int
	HandNum   int
	Carry     [2]int // match totals carried into this hand
	Target    int    // match target; reaching it ends the hand immediately
	NextSeq   func() int64
}

// Hand is one hand of Zinga from deal to exhaustion.
type Hand struct {
	cfg   Config
	state State

	deck     card.Deck
	table    []card.Card
	hands    [4][]card.Card
	captures [2]*CapturePile

	turnSeat      int
	round         int
	lastTakerSeat int // -1 until the first capture

	lastAction *LastAction
	lastDeal   *DealEvent
	result     *Result
	log        []string
}

// New shuffles a fresh deck and deals the hand: four cards to every seat
// in turn order from the start seat, then four face-up onto the table.
func New(cfg Config) *Hand {
	h := &Hand{
		cfg:           cfg,
		state:         StatePlaying,
		deck:          card.NewDeck(),
		turnSeat:      cfg.StartSeat,
		round:         1,
		lastTakerSeat: -1,
		captures:      [2]*CapturePile{{}, {}},
	}
	h.deck.Shuffle()

	h.dealHands()
	for range 4 {
		c, ok := h.deck.Draw()
		if !ok {
			break
		}
		h.table = append(h.table, c)
	}
	h.lastDeal = &DealEvent{
		ID:     cfg.NextSeq(),
		Round:  h.round,
		Hand:   cfg.HandNum,
		IsLast: len(h.deck) == 0,
	}
	h.logf("hand %d: dealt 4 cards each and 4 to the table", cfg.HandNum)
	return h
}

// dealHands tops every seat up by four cards, one card at a time in turn
// order from the start seat. When fewer than 16 cards remain the deck is
// exhausted fairly: no seat ever gets more than one card ahead of another,
// and nobody is dealt from an empty deck.
func (h *Hand) dealHands() {
	for range 4 {
		for offset := range 4 {
			seat := (h.cfg.StartSeat + offset) % 4
			c, ok := h.deck.Draw()
			if !ok {
				return
			}
			h.hands[seat] = append(h.hands[seat], c)
		}
	}
}

func (h *Hand) allHandsEmpty() bool {
	for seat := range h.hands {
		if len(h.hands[seat]) > 0 {
			return false
		}
	}
	return true
}

func (h *Hand) logf(format string, args ...any) {
	h.log = append(h.log, fmt.Sprintf(format, args...))
}

// --- Read accessors for snapshot building ---

func (h *Hand) State() State       { return h.state }
func (h *Hand) TurnSeat() int      { return h.turnSeat }
func (h *Hand) Round() int         { return h.round }
func (h *Hand) DeckCount() int     { return len(h.deck) }
func (h *Hand) TableCount() int    { return len(h.table) }
func (h *Hand) LastTakerSeat() int { return h.lastTakerSeat }

// TeamForSeat returns the capture pile a seat plays into.
func (h *Hand) TeamForSeat(seat int) Team { return h.cfg.Teams[seat] }

// DeckPeek returns the visible bottom card of the draw pile.
func (h *Hand) DeckPeek() (card.Card, bool) { return h.deck.Peek() }

// TableTop returns the top card of the table stack.
func (h *Hand) TableTop() (card.Card, bool) {
	if len(h.table) == 0 {
		return card.Card{}, false
	}
	return h.table[len(h.table)-1], true
}

// HandCards returns a copy of a seat's hand.
func (h *Hand) HandCards(seat int) []card.Card {
	return append([]card.Card(nil), h.hands[seat]...)
}

// HandCount returns the number of cards a seat holds.
func (h *Hand) HandCount(seat int) int { return len(h.hands[seat]) }

// Capture returns a team's pile. Callers must not mutate it.
func (h *Hand) Capture(t Team) *CapturePile { return h.captures[t] }

// LastAction returns the most recent play, if any.
func (h *Hand) LastAction() *LastAction { return h.lastAction }

// LastDeal returns the most recent deal event.
func (h *Hand) LastDeal() *DealEvent { return h.lastDeal }

// Result returns the final scores once the hand is over.
func (h *Hand) Result() *Result { return h.result }

// Log returns the hand's internal log lines.
func (h *Hand) Log() []string { return append([]string(nil), h.log...) }

// ScoreSoFar computes a team's running score for this hand, including any
// provisionally applied most-cards bonus.
func (h *Hand) ScoreSoFar(t Team) score.Breakdown {
	p := h.captures[t]
	return score.Compute(p.Cards, p.Zinga10, p.Zinga20, p.BonusMostCards)
}
