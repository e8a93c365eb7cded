package engine

import (
	"fmt"

	"github.com/nenadlazic8/zinga/internal/game/card"
)

// StructuralError reports a violated state invariant. It is fatal for the
// hand: the room must abort rather than continue on corrupted piles.
type StructuralError struct {
	Detail string
}

func (e *StructuralError) Error() string {
	return "structural invariant violated: " + e.Detail
}

// finish closes the hand: the remaining table cards are swept to the team
// of the last taker (left uncaptured if nobody ever took, they are worth
// nothing either way), the most-cards bonus is finalized and both teams'
// scores computed.
func (h *Hand) finish() {
	if len(h.table) > 0 && h.lastTakerSeat >= 0 {
		team := h.cfg.Teams[h.lastTakerSeat]
		h.captures[team].Cards = append(h.captures[team].Cards, h.table...)
		h.table = nil
		h.logf("remaining table cards go to team %s (last take)", team)
	}
	h.refreshMostCardsBonus()

	h.result = &Result{
		A: h.ScoreSoFar(TeamA),
		B: h.ScoreSoFar(TeamB),
	}
	h.state = StateOver
	h.logf("hand over: team A +%d, team B +%d", h.result.A.Total, h.result.B.Total)
}

// CheckConservation verifies that the union of deck, hands, table and both
// capture piles is exactly the 52 dealt cards with no duplicate identity.
func (h *Hand) CheckConservation() error {
	seen := make(map[string]bool, 52)
	var dup *card.Card
	mark := func(cards []card.Card) {
		for i, c := range cards {
			if seen[c.ID] && dup == nil {
				dup = &cards[i]
			}
			seen[c.ID] = true
		}
	}

	mark(h.deck)
	mark(h.table)
	for seat := range h.hands {
		mark(h.hands[seat])
	}
	mark(h.captures[TeamA].Cards)
	mark(h.captures[TeamB].Cards)

	if dup != nil {
		return &StructuralError{Detail: "duplicate card " + dup.Label()}
	}
	if len(seen) != 52 {
		return &StructuralError{Detail: fmt.Sprintf("%d cards in play, want 52", len(seen))}
	}
	return nil
}
