package card

import "math/rand"

// Deck is an ordered sequence of the 52 distinct cards. It supports
// draw-from-top only; it is never reshuffled mid-hand and is discarded
// at hand end rather than recycled, matching the source's semantics.
type Deck struct {
	cards []Card
}

// All52 returns the 52 distinct cards in a fixed canonical order.
func All52() []Card {
	out := make([]Card, 0, 52)
	for _, suit := range []Suit{Spades, Hearts, Clubs, Diamonds} {
		for _, r := range Ranks {
			out = append(out, New(r.Value, suit))
		}
	}
	return out
}

// NewDeck returns a fresh, unshuffled 52-card deck.
func NewDeck() *Deck {
	return &Deck{cards: All52()}
}

// Shuffle randomizes the deck's order in place using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int { return len(d.cards) }

// Draw removes and returns the top card. It panics on an empty deck:
// a deck underflow mid-hand is a programmer error, not a runtime
// condition the engine recovers from.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		panic("card: deck underflow")
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

// DrawN draws the top n cards.
func (d *Deck) DrawN(n int) []Card {
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.Draw())
	}
	return out
}
