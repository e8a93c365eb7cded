package engine

import (
	"github.com/nenadlazic8/zinga/internal/apperrors"
	"github.com/nenadlazic8/zinga/internal/game/card"
	"github.com/nenadlazic8/zinga/internal/game/score"
)

// PlayCard resolves one play by the given seat. Precondition failures
// reject the play with no mutation. A StructuralError means the hand state
// failed its conservation check after the mutation; the caller must abort
// the room rather than keep playing on corrupted piles.
func (h *Hand) PlayCard(seat int, cardID string) (*PlayResult, error) {
	if h.state != StatePlaying {
		return nil, apperrors.ErrGameNotStart
	}
	if seat != h.turnSeat {
		return nil, apperrors.ErrNotYourTurn
	}
	idx := -1
	for i, c := range h.hands[seat] {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.ErrCardNotHeld
	}

	played := h.hands[seat][idx]
	h.hands[seat] = append(h.hands[seat][:idx], h.hands[seat][idx+1:]...)

	tableBefore := len(h.table)
	loneJackOnTable := tableBefore == 1 && h.table[0].Rank == card.RankJ

	name := h.cfg.Names[seat]
	took := false
	zinga := 0
	actionType := ActionDrop
	var taken []card.Card

	if played.Rank == card.RankJ {
		// The Jack sweeps the whole table regardless of rank. On an empty
		// table it is just dropped.
		if tableBefore > 0 {
			took = true
			actionType = ActionJackTake
			taken = append(h.table, played)
			h.table = nil
			if loneJackOnTable {
				zinga = score.ZingaOnJackValue
				h.logf("%s makes a zinga on the Jack (+%d)", name, zinga)
			} else {
				h.logf("%s plays the Jack and sweeps the table", name)
			}
		} else {
			h.table = append(h.table, played)
			h.logf("%s plays the Jack onto an empty table", name)
		}
	} else {
		top, hasTop := h.TableTop()
		if hasTop && top.Rank == played.Rank {
			took = true
			actionType = ActionTake
			taken = append(h.table, played)
			h.table = nil
			if tableBefore == 1 {
				zinga = score.ZingaValue
				h.logf("%s makes a zinga (+%d)", name, zinga)
			} else {
				h.logf("%s takes the table, matching %s", name, played.Rank)
			}
		} else {
			h.table = append(h.table, played)
			h.logf("%s drops %s", name, played.Label())
		}
	}

	team := h.cfg.Teams[seat]
	if took {
		pile := h.captures[team]
		pile.Cards = append(pile.Cards, taken...)
		switch zinga {
		case score.ZingaValue:
			pile.Zinga10++
		case score.ZingaOnJackValue:
			pile.Zinga20++
		}
		h.lastTakerSeat = seat
		// Mid-hand running scores already reflect the most-cards bonus.
		h.refreshMostCardsBonus()
	}

	action := LastAction{
		ID:         h.cfg.NextSeq(),
		Type:       actionType,
		Seat:       seat,
		PlayerName: name,
		Card:       played,
		Zinga:      zinga,
	}
	h.lastAction = &action

	// Turn always advances one seat, capture or not.
	h.turnSeat = (h.turnSeat + 1) % 4

	if err := h.CheckConservation(); err != nil {
		return nil, err
	}

	result := &PlayResult{Action: action}

	// Reaching the match target ends the hand immediately, even with cards
	// left in hands or deck.
	if took && h.cfg.Carry[team]+h.ScoreSoFar(team).Total >= h.cfg.Target {
		h.finish()
		result.HandOver = true
		result.Result = h.result
		return result, nil
	}

	if h.allHandsEmpty() {
		if len(h.deck) > 0 {
			h.redeal()
			result.Deal = h.lastDeal
		} else {
			h.finish()
			result.HandOver = true
			result.Result = h.result
		}
	}
	return result, nil
}

// redeal tops the hands up from the remaining deck. The table is only
// stocked at the very first deal of a hand, never replenished here.
func (h *Hand) redeal() {
	before := len(h.deck)
	h.round++
	h.dealHands()
	h.lastDeal = &DealEvent{
		ID:     h.cfg.NextSeq(),
		Round:  h.round,
		Hand:   h.cfg.HandNum,
		IsLast: before > 0 && len(h.deck) == 0,
	}
	h.logf("round %d: dealt 4 cards each", h.round)
}

// refreshMostCardsBonus recomputes the provisional most-cards bonus on
// both piles from their current sizes.
func (h *Hand) refreshMostCardsBonus() {
	a, b := score.MostCardsBonus(len(h.captures[TeamA].Cards), len(h.captures[TeamB].Cards))
	h.captures[TeamA].BonusMostCards = a
	h.captures[TeamB].BonusMostCards = b
}
