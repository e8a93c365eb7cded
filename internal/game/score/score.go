// Package score turns a team's captured cards and bonus counters into
// points. Everything here is pure; the engine owns the state.
package score

import (
	"github.com/nenadlazic8/zinga/internal/game/card"
)

const (
	// ZingaValue is awarded for capturing a lone table card by rank match.
	ZingaValue = 10
	// ZingaOnJackValue is awarded for capturing a lone Jack with a Jack.
	ZingaOnJackValue = 20

	// MostCardsThreshold is the capture-pile size a team must reach before
	// the most-cards bonus can apply. More than half the deck.
	MostCardsThreshold = 27
	// MostCardsValue is the flat bonus for holding the most cards.
	MostCardsValue = 4
)

// Breakdown decomposes a team's score for one hand.
type Breakdown struct {
	CardPoints     int `json:"card_points"`
	Zinga10        int `json:"zinga10"`
	Zinga20        int `json:"zinga20"`
	ZingaPoints    int `json:"zinga_points"`
	BonusMostCards int `json:"bonus_most_cards"`
	Total          int `json:"total"`
}

// Compute sums the captured cards' point values and adds the zinga and
// most-cards bonuses.
func Compute(cards []card.Card, zinga10, zinga20, bonusMostCards int) Breakdown {
	cardPoints := 0
	for _, c := range cards {
		cardPoints += card.Points(c)
	}
	zingaPoints := zinga10*ZingaValue + zinga20*ZingaOnJackValue
	return Breakdown{
		CardPoints:     cardPoints,
		Zinga10:        zinga10,
		Zinga20:        zinga20,
		ZingaPoints:    zingaPoints,
		BonusMostCards: bonusMostCards,
		Total:          cardPoints + zingaPoints + bonusMostCards,
	}
}

// MostCardsBonus returns the bonus each side earns for its capture-pile
// size. Only a side with strictly more cards than the other and at least
// MostCardsThreshold of them gets the bonus. Both sides reaching the
// threshold is impossible with one deck but is handled as no bonus.
func MostCardsBonus(aCount, bCount int) (int, int) {
	if aCount == bCount {
		return 0, 0
	}
	if aCount >= MostCardsThreshold && bCount >= MostCardsThreshold {
		return 0, 0
	}
	if aCount > bCount && aCount >= MostCardsThreshold {
		return MostCardsValue, 0
	}
	if bCount > aCount && bCount >= MostCardsThreshold {
		return 0, MostCardsValue
	}
	return 0, 0
}
