package holdem

import "holdemserver/card"

// Cactus Kev 7-card hand evaluator. Tables are built once in init(),
// from first principles (no data file), covering all 7462 distinct
// 5-card hand ranks. Score 1 is the best hand (royal flush); 7462 is
// the worst (7-high).

const MaxHandScore = 7462

var (
	flushTable   = make(map[int]int, 1287)
	unique5Table = make(map[int]int, 10)
	pairsTable   = make(map[int]int, 6175)
)

var ranksDesc = [13]int{14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2}

var primeOfRank = map[int]int{
	2: 2, 3: 3, 4: 5, 5: 7, 6: 11, 7: 13, 8: 17, 9: 19, 10: 23, 11: 29, 12: 31, 13: 37, 14: 41,
}

func rankBitsOf(ranks []int) int {
	bits := 0
	for _, r := range ranks {
		bits |= 1 << (r - 2)
	}
	return bits
}

func primeProductOf(ranks []int) int {
	p := 1
	for _, r := range ranks {
		p *= primeOfRank[r]
	}
	return p
}

// combinationsInts returns all k-subsets of items, in the same order
// itertools.combinations would emit for the equivalent Python sequence.
func combinationsInts(items []int, k int) [][]int {
	n := len(items)
	if k > n || k == 0 {
		return nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	var out [][]int
	for {
		combo := make([]int, k)
		for i, ix := range idx {
			combo[i] = items[ix]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func without(ranks [13]int, exclude ...int) []int {
	out := make([]int, 0, len(ranks))
	for _, r := range ranks {
		skip := false
		for _, e := range exclude {
			if r == e {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, r)
		}
	}
	return out
}

var sfStraights = [10][5]int{
	{14, 13, 12, 11, 10},
	{13, 12, 11, 10, 9},
	{12, 11, 10, 9, 8},
	{11, 10, 9, 8, 7},
	{10, 9, 8, 7, 6},
	{9, 8, 7, 6, 5},
	{8, 7, 6, 5, 4},
	{7, 6, 5, 4, 3},
	{6, 5, 4, 3, 2},
	{5, 4, 3, 2, 14}, // wheel: A-2-3-4-5
}

func init() {
	score := 1

	// Straight flushes, broadway to wheel: 1-10.
	straightBits := make(map[int]bool, 10)
	for _, h := range sfStraights {
		bits := rankBitsOf(h[:])
		flushTable[bits] = score
		straightBits[bits] = true
		score++
	}

	// Four of a kind: 11-166.
	for _, quad := range ranksDesc {
		for _, kicker := range ranksDesc {
			if kicker == quad {
				continue
			}
			pairsTable[primeProductOf([]int{quad, quad, quad, quad, kicker})] = score
			score++
		}
	}

	// Full house: 167-322.
	for _, trips := range ranksDesc {
		for _, pair := range ranksDesc {
			if pair == trips {
				continue
			}
			pairsTable[primeProductOf([]int{trips, trips, trips, pair, pair})] = score
			score++
		}
	}

	// Flushes: 323-1599. All C(13,5) rank combos that aren't a straight shape.
	all5 := combinationsInts(ranksDesc[:], 5)
	flushHands := make([][]int, 0, 1277)
	for _, combo := range all5 {
		if !straightBits[rankBitsOf(combo)] {
			flushHands = append(flushHands, combo)
		}
	}
	for _, h := range flushHands {
		flushTable[rankBitsOf(h)] = score
		score++
	}

	// Straights: 1600-1609.
	for _, h := range sfStraights {
		unique5Table[primeProductOf(h[:])] = score
		score++
	}

	// Three of a kind: 1610-2467.
	for _, trips := range ranksDesc {
		kickers := without(ranksDesc, trips)
		for _, pair := range combinationsInts(kickers, 2) {
			pairsTable[primeProductOf([]int{trips, trips, trips, pair[0], pair[1]})] = score
			score++
		}
	}

	// Two pair: 2468-3325.
	for _, p1 := range ranksDesc {
		for _, p2 := range ranksDesc {
			if p2 >= p1 {
				continue
			}
			kickers := without(ranksDesc, p1, p2)
			for _, k := range kickers {
				pairsTable[primeProductOf([]int{p1, p1, p2, p2, k})] = score
				score++
			}
		}
	}

	// One pair: 3326-6185.
	for _, pairRank := range ranksDesc {
		kickers := without(ranksDesc, pairRank)
		for _, k := range combinationsInts(kickers, 3) {
			pairsTable[primeProductOf([]int{pairRank, pairRank, k[0], k[1], k[2]})] = score
			score++
		}
	}

	// High card: 6186-7462. Reuses flushHands (same rank sets, no flush this time).
	for _, h := range flushHands {
		unique5Table[primeProductOf(h)] = score
		score++
	}

	if score-1 != MaxHandScore {
		panic("holdem: evaluator table construction produced wrong score count")
	}
}

// Eval5 scores a 5-card hand. Lower is better: 1 = royal flush, 7462 = 7-high.
func Eval5(c1, c2, c3, c4, c5 card.Card) int {
	cards := [5]card.Card{c1, c2, c3, c4, c5}

	flush := true
	suit0 := cards[0].Suit()
	bits := 0
	product := 1
	for _, c := range cards {
		if c.Suit() != suit0 {
			flush = false
		}
		bits |= 1 << (c.Rank() - 2)
		product *= c.Prime()
	}

	if flush {
		score, ok := flushTable[bits]
		if !ok {
			panic("holdem: missing flush table entry")
		}
		return score
	}
	if score, ok := unique5Table[product]; ok {
		return score
	}
	score, ok := pairsTable[product]
	if !ok {
		panic("holdem: missing hand rank table entry")
	}
	return score
}

// Eval7 returns the best (lowest) score over all C(7,5)=21 five-card
// subsets of cards, plus the indices (into cards) of the winning subset.
func Eval7(cards [7]card.Card) (score int, best5 [5]int) {
	best := MaxHandScore + 1
	var bestIdx [5]int
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						s := Eval5(cards[a], cards[b], cards[c], cards[d], cards[e])
						if s < best {
							best = s
							bestIdx = [5]int{a, b, c, d, e}
						}
					}
				}
			}
		}
	}
	return best, bestIdx
}

// EvalBest scores the best 5-card hand out of 5, 6, or 7 cards.
func EvalBest(cards []card.Card) (score int, best5 []card.Card) {
	switch len(cards) {
	case 5:
		return Eval5(cards[0], cards[1], cards[2], cards[3], cards[4]), append([]card.Card{}, cards...)
	case 6, 7:
		best := MaxHandScore + 1
		var bestCombo []card.Card
		for _, idx := range combinationsInts(indexRange(len(cards)), 5) {
			s := Eval5(cards[idx[0]], cards[idx[1]], cards[idx[2]], cards[idx[3]], cards[idx[4]])
			if s < best {
				best = s
				bestCombo = []card.Card{cards[idx[0]], cards[idx[1]], cards[idx[2]], cards[idx[3]], cards[idx[4]]}
			}
		}
		return best, bestCombo
	default:
		panic("holdem: EvalBest requires 5-7 cards")
	}
}

func indexRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// HandClass names a hand's category for display purposes.
type HandClass byte

const (
	HighCard HandClass = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handClassNames = map[HandClass]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

// ClassOf maps a score into its hand class, per the documented ranges.
func ClassOf(score int) HandClass {
	switch {
	case score == 1:
		return RoyalFlush
	case score <= 10:
		return StraightFlush
	case score <= 166:
		return FourOfAKind
	case score <= 322:
		return FullHouse
	case score <= 1599:
		return Flush
	case score <= 1609:
		return Straight
	case score <= 2467:
		return ThreeOfAKind
	case score <= 3325:
		return TwoPair
	case score <= 6185:
		return OnePair
	default:
		return HighCard
	}
}

// String returns the human-readable hand name for a score, e.g. "Royal Flush".
func (h HandClass) String() string { return handClassNames[h] }
