package holdem

import "sort"

// pot is one side pot: an amount and the set of still-eligible
// (non-folded) players who may contest it.
type pot struct {
	amount          int64
	eligiblePlayers map[uint16]bool
}

// potManager tracks per-street contributions and derives side pots
// from them. Side pots are computed fresh each time contributions are
// collected; nothing about eligibility is stored between calls beyond
// the already-merged pots slice.
type potManager struct {
	pots         []pot
	excessChair  uint16
	excessAmount int64
}

func (pm *potManager) resetPots() {
	pm.pots = nil
	pm.excessChair = 0
	pm.excessAmount = 0
}

func (pm *potManager) addPot(p pot) {
	pm.pots = append(pm.pots, p)
}

// mergeOrAddPot appends newPot, merging its amount into the previous
// pot instead when both share an identical eligible set — consecutive
// cap levels with the same live contestants collapse into one pot.
func (pm *potManager) mergeOrAddPot(newPot pot) {
	if len(pm.pots) > 0 {
		last := &pm.pots[len(pm.pots)-1]
		if sameEligibleSet(last.eligiblePlayers, newPot.eligiblePlayers) {
			last.amount += newPot.amount
			return
		}
	}
	pm.addPot(newPot)
}

func sameEligibleSet(a, b map[uint16]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for chair := range b {
		if !a[chair] {
			return false
		}
	}
	return true
}

// calcPotsByPlayerBets derives side pots from one street's bets (spec
// §4.2). Contributions are processed in ascending cap order; at each
// cap level the pot is awarded to the still-eligible contributors at
// that level. If every contributor at a level has folded, that
// level's chips carry forward to the next level (or the last pot, if
// it was the final level) rather than vanishing.
func (pm *potManager) calcPotsByPlayerBets(playersWithBets []*Player) {
	sort.Slice(playersWithBets, func(i, j int) bool {
		return playersWithBets[i].Bet() < playersWithBets[j].Bet()
	})

	var carry int64
	totalContributed := int64(0)
	for i, player := range playersWithBets {
		bet := player.Bet()
		contribution := bet - totalContributed
		if contribution <= 0 {
			continue
		}

		amount := carry
		eligible := make(map[uint16]bool)
		for j := i; j < len(playersWithBets); j++ {
			other := playersWithBets[j]
			actual := contribution
			if rem := other.Bet() - totalContributed; actual > rem {
				actual = rem
			}
			amount += actual
			if !other.Folded() {
				eligible[other.ChairID()] = true
			}
		}

		if len(eligible) == 0 {
			carry = amount
		} else {
			carry = 0
			pm.mergeOrAddPot(pot{amount: amount, eligiblePlayers: eligible})
		}

		totalContributed += contribution
	}
	if carry > 0 && len(pm.pots) > 0 {
		pm.pots[len(pm.pots)-1].amount += carry
	}

	// Uncalled excess: if the top bettor's bet exceeds the next-highest
	// bet, the gap was never actually contested and is returned to them.
	pm.excessChair = 0
	pm.excessAmount = 0
	if len(playersWithBets) > 0 {
		lastPlayer := playersWithBets[len(playersWithBets)-1]
		maxBet := lastPlayer.Bet()
		var secondMaxBet int64
		if len(playersWithBets) > 1 {
			secondMaxBet = playersWithBets[len(playersWithBets)-2].Bet()
		}
		if excess := maxBet - secondMaxBet; excess > 0 {
			lastPlayer.addStack(excess)
			lastPlayer.addBet(-excess)
			pm.excessChair = lastPlayer.ChairID()
			pm.excessAmount = excess
			// The loop above already put the top level (the excess)
			// into the last pot; take it back out.
			if n := len(pm.pots); n > 0 {
				pm.pots[n-1].amount -= excess
				if pm.pots[n-1].amount == 0 {
					pm.pots = pm.pots[:n-1]
				}
			}
		}
	}
}

func (pm *potManager) total() int64 {
	var sum int64
	for _, p := range pm.pots {
		sum += p.amount
	}
	return sum
}
