// Package bot picks cards for server-controlled players. A bot is an
// obligatory-capture player, not a strategist: it must take when it can,
// must sweep with a Jack when the table is worth sweeping, and otherwise
// discards at random. The room feeds the chosen card through the same
// play-validation path a human goes through.
package bot

import (
	"math/rand/v2"

	"github.com/nenadlazic8/zinga/internal/game/card"
)

// Chooser selects one card from a hand.
type Chooser struct {
	rng *rand.Rand
}

// New returns a Chooser seeded for reproducible tests.
func New(seed uint64) *Chooser {
	return &Chooser{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Choose picks the card to play given the bot's hand and the table state.
// Decision order:
//  1. a card matching the table top's rank (first match found),
//  2. a Jack, if the table is non-empty,
//  3. a uniformly random card.
//
// hand must be non-empty; a bot is only asked to move on its own turn.
func (b *Chooser) Choose(hand []card.Card, tableTop *card.Card, tableCount int) card.Card {
	if tableTop != nil {
		for _, c := range hand {
			if c.Rank == tableTop.Rank {
				return c
			}
		}
	}
	if tableCount > 0 {
		for _, c := range hand {
			if c.Rank == card.RankJ {
				return c
			}
		}
	}
	return hand[b.rng.IntN(len(hand))]
}
