package holdem

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"holdemserver/card"
)

// Game is one table's engine state: seating, the deck, the current
// hand's betting state, and the pot manager. All mutation happens
// under mu; callers (the table actor) serialize access from a single
// goroutine anyway, but the lock keeps Snapshot() safe to call from
// elsewhere (e.g. a status endpoint) without racing a live hand.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	playersByChair map[uint16]*Player
	chairIDNodes   map[uint16]*PlayerNode

	round          uint16
	phase          Phase
	communityCards []card.Card
	deck           *card.Deck

	dealerNode     *PlayerNode
	smallBlindNode *PlayerNode
	bigBlindNode   *PlayerNode
	curNode        *PlayerNode

	activeCount int
	allinCount  int

	NeedActionCount int    // players who still must act this street
	MinRaise        int64  // NLHE: minimum legal raise delta over curBet
	CurrentRaiser   uint16 // chair whose bet/raise last reset the action
	raiseCount      int    // FLHE: bets+raises made this street, capped at 4

	curBet           int64
	lastPlayerAction ActionType
	validActions     []ActionType

	noShowDown bool
	ended      bool

	potManager potManager

	lastSettlement *SettlementResult
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		playersByChair: make(map[uint16]*Player, cfg.MaxPlayers),
		chairIDNodes:   make(map[uint16]*PlayerNode, cfg.MaxPlayers),
		phase:          PhaseWaiting,
		CurrentRaiser:  InvalidChair,
	}
	g.potManager.resetPots()
	return g, nil
}

// SitDown seats a player with an initial stack.
func (g *Game) SitDown(chair uint16, playerID, name string, stack int64, isBot bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if chair >= uint16(g.cfg.MaxPlayers) {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if stack < 0 {
		return fmt.Errorf("stack must be >= 0")
	}
	if g.playersByChair[chair] != nil {
		return fmt.Errorf("chair %d already occupied", chair)
	}
	g.playersByChair[chair] = &Player{
		ID:    playerID,
		Name:  name,
		Chair: chair,
		IsBot: isBot,
		stack: stack,
	}
	return nil
}

// StandUp removes a player from a chair between hands.
func (g *Game) StandUp(chair uint16) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if chair >= uint16(g.cfg.MaxPlayers) {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if g.playersByChair[chair] == nil {
		return fmt.Errorf("chair %d is empty", chair)
	}
	if g.round > 0 && !g.ended {
		return ErrHandInProgress
	}

	delete(g.playersByChair, chair)
	delete(g.chairIDNodes, chair)

	if g.dealerNode != nil && g.dealerNode.ChairID == chair {
		g.dealerNode = nil
	}
	if g.smallBlindNode != nil && g.smallBlindNode.ChairID == chair {
		g.smallBlindNode = nil
	}
	if g.bigBlindNode != nil && g.bigBlindNode.ChairID == chair {
		g.bigBlindNode = nil
	}
	if g.curNode != nil && g.curNode.ChairID == chair {
		g.curNode = nil
	}

	return nil
}

// ForceEndHand marks the current hand over without settling its pots.
// It exists for the §7 invariant-violation path: once SettleShowdown
// reports a pot-total mismatch or an unknown player reference, its
// PotResults can't be trusted, so the table actor aborts the hand here
// instead of paying out a settlement it can't verify.
func (g *Game) ForceEndHand() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ended = true
	g.phase = PhaseHandOver
}

func (g *Game) Player(chair uint16) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playersByChair[chair]
}

// SetSittingOut marks a seated player as sitting out (excluded from
// the next StartHand's active list but keeping their seat and stack).
func (g *Game) SetSittingOut(chair uint16, v bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.playersByChair[chair]
	if p == nil {
		return fmt.Errorf("chair %d is empty", chair)
	}
	p.setSittingOut(v)
	return nil
}

// StartHand starts a new hand (single-table engine).
func (g *Game) StartHand() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ended = false
	g.lastSettlement = nil
	g.noShowDown = false
	g.communityCards = nil
	g.phase = PhaseStarting

	active := make([]*Player, 0, g.cfg.MaxPlayers)
	for chair := uint16(0); chair < uint16(g.cfg.MaxPlayers); chair++ {
		p := g.playersByChair[chair]
		if p == nil {
			continue
		}
		if p.stack <= 0 || p.SittingOut() {
			// Not dealt into this hand: drop any stale hole cards left
			// over from a hand this seat last played so the snapshot
			// never reports a sitting-out seat as holding cards.
			p.ResetForNewHand()
			continue
		}
		p.ResetForNewHand()
		active = append(active, p)
	}
	if len(active) < g.cfg.MinPlayers {
		return fmt.Errorf("not enough players: %d < %d", len(active), g.cfg.MinPlayers)
	}

	g.round++

	g.potManager.resetPots()
	g.activeCount = len(active)
	g.allinCount = 0
	g.curBet = 0
	g.MinRaise = 0
	g.raiseCount = 0
	g.CurrentRaiser = InvalidChair
	g.lastPlayerAction = PlayerActionTypeNone

	g.chairIDNodes = make(map[uint16]*PlayerNode, len(active))
	var first, last *PlayerNode
	for chair := uint16(0); chair < uint16(g.cfg.MaxPlayers); chair++ {
		p := g.playersByChair[chair]
		if p == nil || p.stack <= 0 || p.SittingOut() {
			continue
		}
		node := &PlayerNode{ChairID: chair, Player: p}
		g.chairIDNodes[chair] = node
		if first == nil {
			first = node
		}
		if last != nil {
			last.Next = node
		}
		last = node
	}
	if first != nil && last != nil {
		last.Next = first
	}

	g.shuffle()
	g.selectDealer()
	g.selectBlindsByDealer(g.dealerNode)
	g.dealHoleCards()

	if g.autoBetBlinds() {
		if err := g.advanceToShowdownLocked(); err != nil {
			return err
		}
		_, err := g.endHandLocked()
		return err
	}

	g.curNode = g.curNode.WalkOnce(func(cur *PlayerNode) bool {
		return cur.Player.stack > 0 && !cur.Player.Folded()
	})

	g.phase = PhasePreflop
	g.onPhaseStartLocked()
	return nil
}

// LegalActions is a pure projection of current state.
func (g *Game) LegalActions(chair uint16) ([]ActionType, int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return nil, 0, ErrHandEnded
	}
	p := g.playersByChair[chair]
	if p == nil {
		return nil, 0, fmt.Errorf("player not found")
	}
	acts := g.calcNextValidActions(p)
	minTotalRaiseTo := g.nextRaiseTarget()
	return acts, minTotalRaiseTo, nil
}

// nextRaiseTarget returns the total bet amount a raise/bet to curBet
// would need to reach, under the active variant's sizing rule.
func (g *Game) nextRaiseTarget() int64 {
	if g.cfg.Variant == FixedLimit {
		return g.curBet + g.cfg.FixedBetSize(g.phase)
	}
	if g.lastPlayerAction == PlayerActionTypeNone || g.lastPlayerAction == PlayerActionTypeCheck {
		return g.cfg.BigBlind
	}
	return g.curBet + g.MinRaise
}

// Act applies an action for the current player. amount is the
// player's intended total bet for the street (not a delta).
func (g *Game) Act(chair uint16, action ActionType, amount int64) (handEnd *SettlementResult, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ended {
		return nil, ErrHandEnded
	}
	if g.curNode == nil || g.curNode.Player == nil {
		return nil, ErrInvalidState("no current player")
	}
	if chair != g.curNode.ChairID {
		return nil, ErrOutOfTurn
	}

	player := g.curNode.Player

	legal := g.calcNextValidActions(player)
	valid := false
	for _, a := range legal {
		if a == action {
			valid = true
			break
		}
	}
	if !valid {
		if (action == PlayerActionTypeBet || action == PlayerActionTypeRaise) && g.cfg.Variant == FixedLimit && g.raiseCount >= 4 {
			return nil, ErrBetCapReached
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, PlayerActionTypeDictionary[action])
	}

	if amount < player.Bet() && action != PlayerActionTypeFold {
		if action != PlayerActionTypeCheck {
			return nil, fmt.Errorf("%w: %d < current bet %d", ErrInvalidAmount, amount, player.Bet())
		}
		amount = player.Bet()
	}

	// Overbet => all-in.
	if amount-player.Bet() > player.Stack() {
		amount = player.Stack() + player.Bet()
		action = PlayerActionTypeAllin
	}

	// Update betting state on increase.
	if amount > g.curBet {
		validRaise := true
		switch action {
		case PlayerActionTypeAllin:
			if g.cfg.Variant == NoLimit && amount-g.curBet < g.MinRaise {
				validRaise = false
			}
			if g.cfg.Variant == FixedLimit && amount-g.curBet < g.cfg.FixedBetSize(g.phase) {
				validRaise = false
			}
		case PlayerActionTypeBet:
			if g.cfg.Variant == FixedLimit {
				if amount != g.cfg.FixedBetSize(g.phase) {
					return nil, ErrInvalidAmount
				}
			} else if amount-g.curBet < g.cfg.BigBlind {
				return nil, ErrInvalidAmount
			}
		case PlayerActionTypeRaise:
			if g.cfg.Variant == FixedLimit {
				if g.raiseCount >= 4 {
					return nil, ErrBetCapReached
				}
				if amount != g.curBet+g.cfg.FixedBetSize(g.phase) {
					return nil, ErrInvalidAmount
				}
			} else if amount-g.curBet < g.MinRaise {
				return nil, ErrInvalidAmount
			}
		}

		if validRaise {
			g.MinRaise = amount - g.curBet
			g.CurrentRaiser = chair
			if action == PlayerActionTypeBet || action == PlayerActionTypeRaise {
				g.raiseCount++
			}
		}
		g.curBet = amount
		g.setNeedActionCountLocked()
	}

	player.setLastAction(action)
	switch action {
	case PlayerActionTypeBet, PlayerActionTypeRaise:
		player.placeBet(amount - player.Bet())
	case PlayerActionTypeCall:
		if amount != g.curBet {
			available := player.Stack() + player.Bet()
			if available > g.curBet {
				amount = g.curBet
			} else {
				return nil, ErrInvalidAmount
			}
		}
		player.placeBet(amount - player.Bet())
	case PlayerActionTypeCheck:
		// no-op
	case PlayerActionTypeFold:
		player.setFolded(true)
		g.activeCount--
		for i := range g.potManager.pots {
			delete(g.potManager.pots[i].eligiblePlayers, chair)
		}
		if g.activeCount <= 1 {
			g.noShowDown = true
			g.phase = PhaseAllFold
			return g.endHandLocked()
		}
	case PlayerActionTypeAllin:
		player.placeBet(player.Stack())
		g.allinCount++
	}

	if action != PlayerActionTypeFold {
		g.lastPlayerAction = action
	}

	g.NeedActionCount--
	nextNode, bettingEnd := g.calcNextActionPosAndBettingEndLocked()
	g.curNode = nextNode

	if bettingEnd {
		g.validActions = nil
		g.collectBetsLocked()

		if g.checkDirectShowdownLocked() || g.phase == PhaseRiver {
			if err := g.advanceToShowdownLocked(); err != nil {
				return nil, err
			}
			return g.endHandLocked()
		}

		g.phase++
		g.dealCommunityCardsLocked()
		g.onPhaseStartLocked()
		return nil, nil
	}

	if g.curNode == nil || g.curNode.Player == nil {
		return nil, ErrInvalidState("next player not found")
	}
	g.validActions = g.calcNextValidActions(g.curNode.Player)
	return nil, nil
}

func (g *Game) onPhaseStartLocked() {
	g.setNeedActionCountLocked()
	g.CurrentRaiser = InvalidChair
	g.raiseCount = 0
	for _, p := range g.playersByChair {
		if p != nil {
			p.setLastAction(PlayerActionTypeNone)
		}
	}

	switch g.phase {
	case PhasePreflop:
		g.lastPlayerAction = PlayerActionTypeBet
		if g.cfg.Variant == FixedLimit {
			g.raiseCount = 1 // the big blind counts as the street's opening bet
		}
	default:
		g.lastPlayerAction = PlayerActionTypeNone
		g.MinRaise = g.cfg.BigBlind
	}

	if g.curNode != nil && g.curNode.Player != nil {
		g.validActions = g.calcNextValidActions(g.curNode.Player)
	}
}

func (g *Game) shuffle() {
	g.deck = card.NewDeck()
	g.deck.Shuffle(g.rng)
}

func (g *Game) selectDealer() {
	nodes := make([]*PlayerNode, 0, len(g.chairIDNodes))
	for _, n := range g.chairIDNodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ChairID < nodes[j].ChairID })
	if len(nodes) == 0 {
		g.dealerNode = nil
		return
	}

	if g.round == 1 || g.dealerNode == nil {
		g.dealerNode = nodes[g.rng.Intn(len(nodes))]
		return
	}

	prevChair := g.dealerNode.ChairID
	if prevNode, ok := g.chairIDNodes[prevChair]; ok && prevNode.Next != nil {
		g.dealerNode = prevNode.Next
		return
	}

	g.dealerNode = nodes[g.rng.Intn(len(nodes))]
}

func (g *Game) selectBlindsByDealer(dealer *PlayerNode) {
	if dealer == nil {
		return
	}
	if g.activeCount == 2 {
		g.dealerNode = dealer
		g.smallBlindNode = dealer
		g.bigBlindNode = dealer.Next
		g.curNode = dealer
	} else {
		g.dealerNode = dealer
		g.smallBlindNode = dealer.Next
		g.bigBlindNode = g.smallBlindNode.Next
		g.curNode = g.bigBlindNode.Next
	}
}

func (g *Game) dealHoleCards() {
	if g.smallBlindNode == nil {
		return
	}
	for i := 0; i < 2; i++ {
		g.smallBlindNode.WalkAll(func(cur *PlayerNode) {
			cur.Player.AddHandCard(g.deck.Draw())
		})
	}
}

func (g *Game) dealCommunityCardsLocked() {
	shouldDeal := 0
	switch g.phase {
	case PhaseFlop:
		shouldDeal = 3
	case PhaseTurn, PhaseRiver:
		shouldDeal = 1
	case PhaseShowdown:
		shouldDeal = 5 - len(g.communityCards)
	}
	if shouldDeal <= 0 {
		return
	}
	g.communityCards = append(g.communityCards, g.deck.DrawN(shouldDeal)...)
}

func (g *Game) autoBetBlinds() bool {
	if g.smallBlindNode != nil && g.smallBlindNode.Player.Stack() > 0 && g.cfg.SmallBlind > 0 {
		g.smallBlindNode.Player.placeBet(g.cfg.SmallBlind)
		if g.smallBlindNode.Player.Stack() <= 0 {
			g.allinCount++
		}
	}
	if g.bigBlindNode != nil && g.bigBlindNode.Player.Stack() > 0 {
		g.bigBlindNode.Player.placeBet(g.cfg.BigBlind)
		if g.bigBlindNode.Player.Stack() <= 0 {
			g.allinCount++
		}
	}

	if g.activeCount == g.allinCount {
		return true
	}

	g.lastPlayerAction = PlayerActionTypeBet
	g.MinRaise = g.cfg.BigBlind
	g.curBet = g.cfg.BigBlind
	return false
}

func (g *Game) collectBetsLocked() {
	playersWithBets := make([]*Player, 0, g.activeCount)
	for chair := uint16(0); chair < uint16(g.cfg.MaxPlayers); chair++ {
		p := g.playersByChair[chair]
		if p == nil {
			continue
		}
		if p.Bet() > 0 {
			playersWithBets = append(playersWithBets, p)
		}
	}
	g.potManager.calcPotsByPlayerBets(playersWithBets)
	for _, p := range playersWithBets {
		p.resetBet()
	}
	g.curBet = 0
}

func (g *Game) setNeedActionCountLocked() {
	g.NeedActionCount = g.activeCount - g.allinCount
}

// calcNextValidActions is a pure projection of the legal actions for
// nextPlayer given current betting state.
func (g *Game) calcNextValidActions(nextPlayer *Player) []ActionType {
	nextValid := []ActionType{PlayerActionTypeAllin, PlayerActionTypeFold}
	canCall := false

	switch g.lastPlayerAction {
	case PlayerActionTypeCheck, PlayerActionTypeNone:
		nextValid = append(nextValid, PlayerActionTypeCheck)
		if g.canOpenBet(nextPlayer) {
			nextValid = append(nextValid, PlayerActionTypeBet)
		}

	case PlayerActionTypeBet, PlayerActionTypeRaise, PlayerActionTypeAllin, PlayerActionTypeCall:
		available := nextPlayer.Stack() + nextPlayer.Bet()

		if nextPlayer.Bet() == g.curBet {
			nextValid = append(nextValid, PlayerActionTypeCheck)
		} else if available > g.curBet {
			nextValid = append(nextValid, PlayerActionTypeCall)
			canCall = true
		}

		canRaise := g.canRaiseFurther(available)
		isReopen := g.CurrentRaiser != nextPlayer.ChairID()
		if canRaise && isReopen && g.activeCount-g.allinCount > 1 {
			nextValid = append(nextValid, PlayerActionTypeRaise)
		}

		if (canCall && g.activeCount-g.allinCount <= 1) || (canRaise && !isReopen) {
			if len(nextValid) > 0 {
				nextValid = nextValid[1:]
			}
		}
	}
	return nextValid
}

func (g *Game) canOpenBet(p *Player) bool {
	if g.cfg.Variant == FixedLimit {
		return p.Stack() >= g.cfg.FixedBetSize(g.phase) && g.raiseCount < 4
	}
	return p.Stack() > g.cfg.BigBlind
}

func (g *Game) canRaiseFurther(available int64) bool {
	if g.cfg.Variant == FixedLimit {
		if g.raiseCount >= 4 {
			return false
		}
		return available > g.curBet+g.cfg.FixedBetSize(g.phase)-1
	}
	return available > g.curBet+g.MinRaise
}

// calcNextActionPosAndBettingEndLocked computes the next player to
// act and whether the current betting street is over.
func (g *Game) calcNextActionPosAndBettingEndLocked() (*PlayerNode, bool) {
	if g.NeedActionCount == 0 {
		if g.phase == PhaseRiver {
			return nil, true
		}
		var first *PlayerNode
		// Heads-up first-to-act depends on the hand's starting seat
		// count, not the live count (a player folding post-flop must
		// not flip this back to a 3+-handed rule mid-hand).
		if len(g.chairIDNodes) == 2 {
			first = g.bigBlindNode
		} else {
			first = g.smallBlindNode
		}
		node := first.WalkOnce(func(n *PlayerNode) bool {
			return n.Player != nil && !n.Player.Folded() && n.Player.Stack() > 0
		})
		return node, true
	}

	nextNode := g.curNode.Next.WalkOnce(func(n *PlayerNode) bool {
		return n.Player != nil && !n.Player.Folded() && n.Player.Stack() > 0
	})
	if nextNode != nil {
		if nextNode.Player.Bet() >= g.curBet && g.NeedActionCount == 1 && g.activeCount-g.allinCount == 1 {
			return nextNode, true
		}
		return nextNode, false
	}
	return nil, true
}

func (g *Game) checkDirectShowdownLocked() bool {
	return g.allinCount >= g.activeCount-1
}

func (g *Game) advanceToShowdownLocked() error {
	g.phase = PhaseShowdown
	g.dealCommunityCardsLocked()
	return nil
}

func (g *Game) endHandLocked() (*SettlementResult, error) {
	settle, err := g.SettleShowdown()
	if err != nil {
		return nil, err
	}
	g.lastSettlement = settle
	g.ended = true
	if !g.noShowDown {
		g.phase = PhaseHandOver
	}
	return settle, nil
}
