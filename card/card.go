// Package card implements the Cactus Kev card encoding: a 32-bit word
// carrying four coexisting views of a playing card (one-hot rank bit,
// suit flag, rank nibble, prime-per-rank) so the hand evaluator can
// score a 5-card hand with a handful of bitwise operations and two
// table lookups.
package card

import "fmt"

// Card is a 32-bit Cactus Kev encoded playing card.
//
// Bit layout (bit 0 = LSB):
//
//	bits 0-5:   prime number for the rank (2,3,5,7,11,13,17,19,23,29,31,37,41)
//	bits 8-11:  rank nibble (0=2 .. 12=A)
//	bits 12-15: suit flag, exactly one bit set (0001=s,0010=h,0100=d,1000=c)
//	bits 16-28: one-hot rank bit (bit 16+rankIndex)
type Card uint32

// Suit identifies one of the four suits.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// suitBit maps a Suit to its bit-12..15 flag value.
var suitBit = [4]uint32{
	Spades:   0x1000,
	Hearts:   0x2000,
	Diamonds: 0x4000,
	Clubs:    0x8000,
}

// Rank is a record describing one of the 13 ranks: its face value
// (2..14, ace high), its display symbol, and its Cactus Kev prime.
// This is the Go analogue of the source's dynamic enum-with-metadata
// rank type: a plain record, no reflection.
type Rank struct {
	Value  int
	Symbol string
	Prime  int
}

// Ranks is the ordered table of all 13 ranks, 2 through ace.
var Ranks = [13]Rank{
	{2, "2", 2}, {3, "3", 3}, {4, "4", 5}, {5, "5", 7}, {6, "6", 11},
	{7, "7", 13}, {8, "8", 17}, {9, "9", 19}, {10, "T", 23}, {11, "J", 29},
	{12, "Q", 31}, {13, "K", 37}, {14, "A", 41},
}

func rankIndex(value int) int {
	if value < 2 || value > 14 {
		return -1
	}
	return value - 2
}

// New builds a Card from a rank value (2..14) and a suit.
func New(rankValue int, suit Suit) Card {
	idx := rankIndex(rankValue)
	if idx < 0 {
		panic(fmt.Sprintf("card: invalid rank %d", rankValue))
	}
	r := Ranks[idx]
	word := uint32(1<<(16+idx)) | suitBit[suit] | uint32(idx<<8) | uint32(r.Prime)
	return Card(word)
}

// Rank returns the card's face value, 2..14 (ace high).
func (c Card) Rank() int {
	return int((c>>8)&0xF) + 2
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	switch {
	case c&0x1000 != 0:
		return Spades
	case c&0x2000 != 0:
		return Hearts
	case c&0x4000 != 0:
		return Diamonds
	default:
		return Clubs
	}
}

// Prime returns the card's Cactus Kev prime (bits 0-5).
func (c Card) Prime() int {
	return int(c & 0x3F)
}

// RankBit returns the card's one-hot rank bit (bits 16-28).
func (c Card) RankBit() uint32 {
	return uint32(c) & 0x1FFF0000
}

// String renders the card in the two-character wire format, e.g. "Qh".
func (c Card) String() string {
	idx := int((c >> 8) & 0xF)
	return Ranks[idx].Symbol + c.Suit().String()
}

// Hidden is the wire-format sentinel for a concealed card.
const Hidden = "??"

var suitByChar = map[byte]Suit{
	's': Spades, 'h': Hearts, 'd': Diamonds, 'c': Clubs,
}

var rankByChar = map[byte]int{
	'2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'T': 10, 't': 10, 'J': 11, 'j': 11, 'Q': 12, 'q': 12, 'K': 13, 'k': 13,
	'A': 14, 'a': 14,
}

// Parse converts a two-character wire string such as "Qh" or "Ts" into a Card.
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("card: invalid card string %q", s)
	}
	rv, ok := rankByChar[s[0]]
	if !ok {
		return 0, fmt.Errorf("card: invalid rank %q", s[0])
	}
	suit, ok := suitByChar[s[1]]
	if !ok {
		return 0, fmt.Errorf("card: invalid suit %q", s[1])
	}
	return New(rv, suit), nil
}

// MustParse is Parse but panics on error; useful in tests and table init.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
