package holdem

import "holdemserver/card"

// PlayerSnapshot is a point-in-time, unredacted view of one seat.
// Redaction (hiding other players' hole cards) happens downstream,
// per recipient, in the table actor's broadcast layer — never here.
type PlayerSnapshot struct {
	ID         string
	Name       string
	Chair      uint16
	IsBot      bool
	Stack      int64
	Bet        int64
	Folded     bool
	AllIn      bool
	SittingOut bool
	LastAction ActionType
	HandCards  []card.Card
}

type PotSnapshot struct {
	Amount          int64
	EligiblePlayers []uint16
}

// Snapshot is the full unredacted game state at one instant,
// projected from Game for broadcast and for tests.
type Snapshot struct {
	Round uint16
	Phase Phase
	Ended bool

	DealerChair     uint16
	SmallBlindChair uint16
	BigBlindChair   uint16
	ActionChair     uint16

	CurBet          int64
	MinRaiseDelta   int64
	NeedActionCount int
	CurrentRaiser   uint16

	CommunityCards []card.Card
	Pots           []PotSnapshot
	Players        []PlayerSnapshot

	ExcessChair  uint16
	ExcessAmount int64
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Round:           g.round,
		Phase:           g.phase,
		Ended:           g.ended,
		CurBet:          g.curBet,
		MinRaiseDelta:   g.MinRaise,
		NeedActionCount: g.NeedActionCount,
		CurrentRaiser:   g.CurrentRaiser,
		CommunityCards:  append([]card.Card{}, g.communityCards...),
		ExcessChair:     g.potManager.excessChair,
		ExcessAmount:    g.potManager.excessAmount,
		ActionChair:     InvalidChair,
	}
	if g.dealerNode != nil {
		s.DealerChair = g.dealerNode.ChairID
	}
	if g.smallBlindNode != nil {
		s.SmallBlindChair = g.smallBlindNode.ChairID
	}
	if g.bigBlindNode != nil {
		s.BigBlindChair = g.bigBlindNode.ChairID
	}
	if g.curNode != nil {
		s.ActionChair = g.curNode.ChairID
	}

	for chair := uint16(0); chair < uint16(g.cfg.MaxPlayers); chair++ {
		p := g.playersByChair[chair]
		if p == nil {
			continue
		}
		s.Players = append(s.Players, PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Chair:      p.Chair,
			IsBot:      p.IsBot,
			Stack:      p.stack,
			Bet:        p.bet,
			Folded:     p.folded,
			AllIn:      p.allIn,
			SittingOut: p.sittingOut,
			LastAction: p.lastAction,
			HandCards:  append([]card.Card{}, p.handCards...),
		})
	}

	for _, pt := range g.potManager.pots {
		s.Pots = append(s.Pots, PotSnapshot{
			Amount:          pt.amount,
			EligiblePlayers: sortedChairs(pt.eligiblePlayers),
		})
	}

	return s
}
