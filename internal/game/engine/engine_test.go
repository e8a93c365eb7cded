package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nenadlazic8/zinga/internal/game/card"
)

// newTestHand builds a hand with seat-alternating teams and a plain
// sequence source.
func newTestHand(t *testing.T) *Hand {
	t.Helper()
	var seq int64
	return New(Config{
		Teams:     [4]Team{TeamA, TeamB, TeamA, TeamB},
		Names:     [4]string{"Ana", "Boris", "Ceca", "Dragan"},
		StartSeat: 0,
		HandNum:   1,
		Target:    101,
		NextSeq:   func() int64 { seq++; return seq },
	})
}

// gather empties every zone of the hand and returns all 52 cards so a test
// can redistribute them deterministically.
func gather(h *Hand) []card.Card {
	all := append([]card.Card(nil), h.deck...)
	all = append(all, h.table...)
	for seat := range h.hands {
		all = append(all, h.hands[seat]...)
		h.hands[seat] = nil
	}
	for _, pile := range h.captures {
		all = append(all, pile.Cards...)
		pile.Cards = nil
	}
	h.deck = nil
	h.table = nil
	return all
}

// pick removes and returns the card with the given rank and suit.
func pick(t *testing.T, all *[]card.Card, r card.Rank, s card.Suit) card.Card {
	t.Helper()
	for i, c := range *all {
		if c.Rank == r && c.Suit == s {
			*all = append((*all)[:i], (*all)[i+1:]...)
			return c
		}
	}
	t.Fatalf("card %v%v not available", r, s)
	return card.Card{}
}

// pickHarmless removes and returns n cards that are neither Jacks nor of
// the avoided rank, so dropping them cannot capture by accident.
func pickHarmless(t *testing.T, all *[]card.Card, n int, avoid card.Rank) []card.Card {
	t.Helper()
	var out []card.Card
	for i := 0; i < len(*all) && len(out) < n; {
		c := (*all)[i]
		if c.Rank != card.RankJ && c.Rank != avoid {
			out = append(out, c)
			*all = append((*all)[:i], (*all)[i+1:]...)
			continue
		}
		i++
	}
	require.Len(t, out, n)
	return out
}

func TestNew_DealProtocol(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)

	for seat := range 4 {
		assert.Equal(t, 4, h.HandCount(seat), "seat %d", seat)
	}
	assert.Equal(t, 4, h.TableCount())
	assert.Equal(t, 52-16-4, h.DeckCount())
	assert.Equal(t, 0, h.TurnSeat())
	assert.Equal(t, StatePlaying, h.State())
	require.NoError(t, h.CheckConservation())

	deal := h.LastDeal()
	require.NotNil(t, deal)
	assert.Equal(t, 1, deal.Round)
	assert.Equal(t, 1, deal.Hand)
	assert.False(t, deal.IsLast)
}

func TestPlayCard_TurnLegality(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)
	wrongSeat := (h.TurnSeat() + 1) % 4
	held := h.HandCards(wrongSeat)[0]

	before := h.HandCount(wrongSeat)
	_, err := h.PlayCard(wrongSeat, held.ID)
	assert.Error(t, err)
	assert.Equal(t, before, h.HandCount(wrongSeat), "rejection must not mutate")
	assert.Equal(t, 4, h.TableCount())
	assert.Nil(t, h.LastAction())
}

func TestPlayCard_CardNotHeld(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)
	otherSeat := (h.TurnSeat() + 1) % 4
	foreign := h.HandCards(otherSeat)[0]

	_, err := h.PlayCard(h.TurnSeat(), foreign.ID)
	assert.Error(t, err)
	assert.Nil(t, h.LastAction())
	assert.Equal(t, h.cfg.StartSeat, h.TurnSeat(), "turn must not advance on rejection")
}

func TestPlayCard_RejectedAfterHandOver(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)
	h.finish()

	_, err := h.PlayCard(h.TurnSeat(), "whatever")
	assert.Error(t, err)
}

func TestActionSequence_Monotonic(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)
	all := gather(h)

	sevenC := pick(t, &all, card.Rank7, card.Clubs)
	sevenS := pick(t, &all, card.Rank7, card.Spades)
	filler := pickHarmless(t, &all, 2, card.Rank7)
	h.hands[0] = []card.Card{sevenC, filler[0]}
	h.hands[1] = []card.Card{sevenS, filler[1]}
	h.deck = all

	res1, err := h.PlayCard(0, sevenC.ID)
	require.NoError(t, err)
	res2, err := h.PlayCard(1, sevenS.ID)
	require.NoError(t, err)
	assert.Greater(t, res2.Action.ID, res1.Action.ID)
}

func TestRedeal_WhenAllHandsEmpty(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)
	all := gather(h)

	// One harmless card per seat and an untouchable table card, everything
	// else in the deck.
	hands := pickHarmless(t, &all, 4, card.Rank5)
	tableCard := pick(t, &all, card.Rank5, card.Hearts)
	for seat := range 4 {
		h.hands[seat] = []card.Card{hands[seat]}
	}
	h.table = []card.Card{tableCard}
	h.deck = all

	var last *PlayResult
	for seat := range 4 {
		res, err := h.PlayCard(seat, h.hands[seat][0].ID)
		require.NoError(t, err)
		last = res
	}

	require.NotNil(t, last.Deal, "emptying all hands with deck remaining must redeal")
	assert.Equal(t, 2, last.Deal.Round)
	for seat := range 4 {
		assert.Equal(t, 4, h.HandCount(seat))
	}
	require.NoError(t, h.CheckConservation())
}

func TestRedeal_ShortDeckIsFair(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)
	h.deck = h.deck[:6] // conservation not checked here, deal only

	for seat := range 4 {
		h.hands[seat] = nil
	}
	h.redeal()

	// Card-by-card round-robin from the start seat: 6 cards over 4 seats.
	assert.Equal(t, 2, h.HandCount(0))
	assert.Equal(t, 2, h.HandCount(1))
	assert.Equal(t, 1, h.HandCount(2))
	assert.Equal(t, 1, h.HandCount(3))
	assert.Equal(t, 0, h.DeckCount())
	assert.True(t, h.LastDeal().IsLast)
}

func TestCheckConservation_DetectsLossAndDuplicate(t *testing.T) {
	t.Parallel()

	h := newTestHand(t)
	require.NoError(t, h.CheckConservation())

	// Lose a card.
	stolen := h.hands[0][0]
	h.hands[0] = h.hands[0][1:]
	err := h.CheckConservation()
	var structural *StructuralError
	require.ErrorAs(t, err, &structural)

	// Duplicate it instead.
	h.hands[0] = append(h.hands[0], stolen, stolen)
	err = h.CheckConservation()
	require.ErrorAs(t, err, &structural)

	h.hands[0] = h.hands[0][:len(h.hands[0])-1]
	require.NoError(t, h.CheckConservation())
}

// Full-hand simulation: four players drop or take at random until the hand
// ends naturally; conservation and turn rotation must hold at every step.
func TestFullHand_Simulation(t *testing.T) {
	t.Parallel()

	for run := range 20 {
		var seq int64
		h := New(Config{
			Teams:     [4]Team{TeamA, TeamB, TeamA, TeamB},
			Names:     [4]string{"p0", "p1", "p2", "p3"},
			StartSeat: run % 4,
			HandNum:   1,
			Target:    10_000, // never reached, play out the whole deck
			NextSeq:   func() int64 { seq++; return seq },
		})

		plays := 0
		var lastID int64
		for h.State() == StatePlaying {
			seat := h.TurnSeat()
			hand := h.HandCards(seat)
			require.NotEmpty(t, hand, "turn seat must hold cards while playing")

			res, err := h.PlayCard(seat, hand[0].ID)
			require.NoError(t, err)
			require.NoError(t, h.CheckConservation())
			assert.Greater(t, res.Action.ID, lastID)
			lastID = res.Action.ID

			plays++
			require.LessOrEqual(t, plays, 48, "hand must terminate")
		}

		require.NotNil(t, h.Result())
		// All 48 playable cards were played.
		assert.Equal(t, 48, plays)
		assert.Equal(t, 0, h.DeckCount())

		captured := len(h.Capture(TeamA).Cards) + len(h.Capture(TeamB).Cards)
		assert.Equal(t, 52-h.TableCount(), captured)
	}
}
