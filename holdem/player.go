package holdem

import "holdemserver/card"

// Player is a seated participant. Player objects outlive hands; only
// their hand-scoped fields (bet, folded, allIn, lastAction, handCards)
// are reset between hands.
type Player struct {
	ID    string // external player_id (spec: "a player identifier suffices")
	Name  string
	Chair uint16
	IsBot bool

	stack int64
	bet   int64

	allIn      bool
	folded     bool
	sittingOut bool
	lastAction ActionType

	handCards []card.Card
	evalScore int
	evalBest5 []card.Card
}

func (p *Player) ChairID() uint16        { return p.Chair }
func (p *Player) Stack() int64           { return p.stack }
func (p *Player) Bet() int64             { return p.bet }
func (p *Player) AllIn() bool            { return p.allIn }
func (p *Player) Folded() bool           { return p.folded }
func (p *Player) SittingOut() bool       { return p.sittingOut }
func (p *Player) Hand() []card.Card      { return p.handCards }
func (p *Player) LastAction() ActionType { return p.lastAction }

// ResetForNewHand clears every hand-scoped field. Chips, identity, and
// sitting-out status survive across hands.
func (p *Player) ResetForNewHand() {
	p.bet = 0
	p.allIn = false
	p.folded = false
	p.lastAction = PlayerActionTypeNone
	p.handCards = make([]card.Card, 0, 2)
	p.evalScore = 0
	p.evalBest5 = nil
}

func (p *Player) AddHandCard(cards ...card.Card) {
	p.handCards = append(p.handCards, cards...)
}

func (p *Player) setLastAction(a ActionType) { p.lastAction = a }

// placeBet moves amount from stack to bet, converting to an all-in if
// the player's stack is insufficient.
func (p *Player) placeBet(amount int64) {
	if amount <= 0 {
		return
	}
	if p.stack <= amount {
		p.allIn = true
		amount = p.stack
	}
	p.stack -= amount
	p.bet += amount
}

func (p *Player) addBet(amount int64)   { p.bet += amount }
func (p *Player) resetBet()             { p.bet = 0 }
func (p *Player) addStack(amount int64) { p.stack += amount }
func (p *Player) setFolded(v bool)      { p.folded = v }
func (p *Player) setSittingOut(v bool)  { p.sittingOut = v }

func (p *Player) setEvalResult(score int, best5 []card.Card) {
	p.evalScore = score
	p.evalBest5 = best5
}

// PlayerNode is one seat in the table's circular seating ring.
type PlayerNode struct {
	Player  *Player
	ChairID uint16
	Next    *PlayerNode
}

// WalkOnce walks the ring once starting at n (inclusive), returning the
// first node for which fn returns true, or nil if none matches within
// one full lap.
func (n *PlayerNode) WalkOnce(fn func(*PlayerNode) bool) *PlayerNode {
	if n == nil {
		return nil
	}
	cur := n
	for {
		if fn(cur) {
			return cur
		}
		cur = cur.Next
		if cur == nil || cur == n {
			break
		}
	}
	return nil
}

// WalkAll visits every node in the ring exactly once starting at n.
func (n *PlayerNode) WalkAll(fn func(cur *PlayerNode)) {
	n.WalkOnce(func(cur *PlayerNode) bool {
		fn(cur)
		return false
	})
}
