package card

import (
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
)

// Suit of a card.
type Suit int

// Rank of a card.
type Rank int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// suitSymbols maps suits to their display symbols.
var suitSymbols = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

const (
	RankA  Rank = 1
	Rank2  Rank = 2
	Rank3  Rank = 3
	Rank4  Rank = 4
	Rank5  Rank = 5
	Rank6  Rank = 6
	Rank7  Rank = 7
	Rank8  Rank = 8
	Rank9  Rank = 9
	Rank10 Rank = 10
	RankJ  Rank = 11
	RankQ  Rank = 12
	RankK  Rank = 13
)

// rankNames maps the court ranks to their display names.
var rankNames = map[Rank]string{
	RankA: "A",
	RankJ: "J",
	RankQ: "Q",
	RankK: "K",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// Card is a single playing card. ID is a fresh identity token assigned when
// the deck is built, so two cards of equal rank and suit are never confused
// and identities are never reused across deck rebuilds.
type Card struct {
	ID   string
	Suit Suit
	Rank Rank
}

// Label renders the card for logs and clients, e.g. "7♣".
func (c Card) Label() string {
	return c.Rank.String() + c.Suit.String()
}

// Deck is an ordered stack of cards. Cards are drawn from the end.
type Deck []Card

// NewDeck builds a fresh 52-card deck, one of each rank and suit.
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := RankA; r <= RankK; r++ {
			deck = append(deck, Card{ID: uuid.NewString(), Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle permutes the deck in place, each permutation equally likely.
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw removes and returns the top card. ok is false on an empty deck.
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	c := (*d)[len(*d)-1]
	*d = (*d)[:len(*d)-1]
	return c, true
}

// Peek returns the face card at the bottom of the deck, the one card of the
// draw pile players are allowed to see.
func (d Deck) Peek() (Card, bool) {
	if len(d) == 0 {
		return Card{}, false
	}
	return d[0], true
}

// Points returns the value a card contributes when captured: A, K, Q and J
// are worth 1, the 10 of diamonds and the 2 of clubs are worth 2, every
// other card is worth nothing.
func Points(c Card) int {
	switch c.Rank {
	case RankA, RankJ, RankQ, RankK:
		return 1
	case Rank10:
		if c.Suit == Diamonds {
			return 2
		}
	case Rank2:
		if c.Suit == Clubs {
			return 2
		}
	}
	return 0
}
