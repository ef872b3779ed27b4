package holdem

import (
	"fmt"
	"sort"

	"holdemserver/card"
)

// ShowdownPlayerResult is one showdown participant's revealed hand and
// the amount (if any) they won.
type ShowdownPlayerResult struct {
	Chair         uint16
	HandClass     HandClass
	HandScore     int
	HandCards     []card.Card // the 2 hole cards
	BestFiveCards []card.Card // best 5-card hand out of hole+board
	AllCards      []card.Card // hole+board, 7 cards
	IsWinner      bool
	WinAmount     int64
}

// PotResult is one pot's award: the amount, its winner(s), and the
// per-winner split (equal shares, odd remainder to the first winner
// in seat order starting left of the dealer — spec §4.2).
type PotResult struct {
	Amount     int64
	Winners    []uint16
	WinAmounts []int64
}

// SettlementResult is the full outcome of one hand's showdown or
// walkover, returned to the caller of Act/StartHand, which builds the
// "winner" event from it.
type SettlementResult struct {
	PlayerResults []ShowdownPlayerResult
	PotResults    []PotResult
	ExcessChair   uint16
	ExcessAmount  int64
}

// SettleShowdown distributes the pots once community cards are dealt
// out (or the hand ended before showdown because only one player
// remains uncalled).
func (g *Game) SettleShowdown() (*SettlementResult, error) {
	if g.noShowDown {
		return g.settleNoShowdown()
	}
	return g.settleByEval()
}

func (g *Game) settleByEval() (*SettlementResult, error) {
	results := make(map[uint16]*ShowdownPlayerResult, len(g.playersByChair))
	for chair, p := range g.playersByChair {
		if p == nil || p.Folded() || len(p.Hand()) != 2 {
			continue
		}
		all := make([]card.Card, 0, 7)
		all = append(all, p.Hand()...)
		all = append(all, g.communityCards...)
		if len(all) != 7 {
			return nil, ErrInvalidState("need 7 cards to evaluate")
		}
		score, best5 := EvalBest(all)
		results[chair] = &ShowdownPlayerResult{
			Chair:         chair,
			HandClass:     ClassOf(score),
			HandScore:     score,
			HandCards:     append([]card.Card{}, p.Hand()...),
			BestFiveCards: best5,
			AllCards:      append([]card.Card{}, all...),
		}
		p.setEvalResult(score, best5)
	}

	dealerChair := g.dealerChairOrZero()
	numSeats := g.cfg.MaxPlayers

	out := &SettlementResult{
		PotResults:   make([]PotResult, 0, len(g.potManager.pots)),
		ExcessChair:  g.potManager.excessChair,
		ExcessAmount: g.potManager.excessAmount,
	}

	for _, pt := range g.potManager.pots {
		for chair := range pt.eligiblePlayers {
			if g.playersByChair[chair] == nil {
				return nil, &InvariantError{Msg: fmt.Sprintf("pot lists unknown player at chair %d", chair)}
			}
		}

		winners := bestScoringChairs(pt.eligiblePlayers, results)
		if len(winners) == 0 || pt.amount <= 0 {
			out.PotResults = append(out.PotResults, PotResult{Amount: pt.amount})
			continue
		}

		ordered := seatOrderFrom(dealerChair, numSeats, chairSet(winners))

		winAmount := pt.amount / int64(len(ordered))
		remainder := pt.amount % int64(len(ordered))

		pr := PotResult{Amount: pt.amount, Winners: ordered}
		distributed := int64(0)
		for i, chair := range ordered {
			amt := winAmount
			if i == 0 {
				amt += remainder
			}
			pr.WinAmounts = append(pr.WinAmounts, amt)
			distributed += amt

			if p := g.playersByChair[chair]; p != nil {
				p.addStack(amt)
			}
			if r := results[chair]; r != nil {
				r.IsWinner = true
				r.WinAmount += amt
			}
		}
		if distributed != pt.amount {
			return nil, &InvariantError{Msg: fmt.Sprintf("pot total %d does not match distributed %d", pt.amount, distributed)}
		}
		out.PotResults = append(out.PotResults, pr)
	}

	for _, r := range results {
		out.PlayerResults = append(out.PlayerResults, *r)
	}
	sort.Slice(out.PlayerResults, func(i, j int) bool {
		return out.PlayerResults[i].Chair < out.PlayerResults[j].Chair
	})
	return out, nil
}

// bestScoringChairs returns the eligible chairs with the lowest (best)
// hand score, i.e. the winners of one pot. Ties are all included; the
// caller breaks the split-remainder tie by seat order.
func bestScoringChairs(eligible map[uint16]bool, results map[uint16]*ShowdownPlayerResult) []uint16 {
	best := MaxHandScore + 1
	var winners []uint16
	for chair := range eligible {
		r := results[chair]
		if r == nil {
			continue
		}
		switch {
		case r.HandScore < best:
			best = r.HandScore
			winners = []uint16{chair}
		case r.HandScore == best:
			winners = append(winners, chair)
		}
	}
	return winners
}

func chairSet(chairs []uint16) map[uint16]bool {
	m := make(map[uint16]bool, len(chairs))
	for _, c := range chairs {
		m[c] = true
	}
	return m
}

func (g *Game) dealerChairOrZero() uint16 {
	if g.dealerNode == nil {
		return 0
	}
	return g.dealerNode.ChairID
}

// settleNoShowdown handles a hand that ended with everyone but one
// player folded: the sole survivor takes every pot plus whatever is
// still sitting in front of each player's bet, uncontested.
func (g *Game) settleNoShowdown() (*SettlementResult, error) {
	var winner *Player
	for _, p := range g.playersByChair {
		if p != nil && !p.Folded() {
			winner = p
			break
		}
	}
	if winner == nil {
		return nil, ErrInvalidState("no winner in no-showdown state")
	}

	var maxBet, secondMax int64
	for _, p := range g.playersByChair {
		if p == nil {
			continue
		}
		b := p.Bet()
		if b > maxBet {
			secondMax = maxBet
			maxBet = b
		} else if b > secondMax {
			secondMax = b
		}
	}

	excess := int64(0)
	if winner.Bet() == maxBet && maxBet > secondMax {
		excess = maxBet - secondMax
		winner.addStack(excess)
		winner.addBet(-excess)
	}

	total := int64(0)
	for _, p := range g.playersByChair {
		if p != nil {
			total += p.Bet()
		}
	}
	for _, pt := range g.potManager.pots {
		total += pt.amount
	}

	winner.addStack(total)
	for _, p := range g.playersByChair {
		if p != nil {
			p.resetBet()
		}
	}

	return &SettlementResult{
		PlayerResults: []ShowdownPlayerResult{{Chair: winner.ChairID(), IsWinner: true, WinAmount: total}},
		PotResults: []PotResult{{
			Amount:     total,
			Winners:    []uint16{winner.ChairID()},
			WinAmounts: []int64{total},
		}},
		ExcessChair:  winner.ChairID(),
		ExcessAmount: excess,
	}, nil
}
