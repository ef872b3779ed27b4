package table

import (
	"fmt"
	"time"

	"holdemserver/holdem"
	"holdemserver/holdem/npc"
)

func (t *Table) handleJoin(playerID, name string) error {
	now := time.Now()
	if pc, ok := t.players[playerID]; ok {
		pc.Online = true
		pc.LastSeen = now
		if name != "" {
			pc.Name = name
		}
		t.sendGameState(playerID)
		return nil
	}
	t.players[playerID] = &PlayerConn{
		PlayerID: playerID,
		Name:     displayName(name, playerID),
		Chair:    holdem.InvalidChair,
		Online:   true,
		LastSeen: now,
	}
	t.sendGameState(playerID)
	return nil
}

func (t *Table) handleSitDown(playerID string, chair uint16, buyIn int64) error {
	pc := t.players[playerID]
	if pc == nil {
		return fmt.Errorf("player not joined")
	}
	if pc.Chair != holdem.InvalidChair {
		return fmt.Errorf("already seated at chair %d", pc.Chair)
	}
	if chair >= t.Config.MaxPlayers {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if _, occupied := t.seats[chair]; occupied {
		return fmt.Errorf("chair %d is occupied", chair)
	}
	if buyIn < t.Config.MinBuyIn || buyIn > t.Config.MaxBuyIn {
		return fmt.Errorf("invalid buy-in %d (range %d-%d)", buyIn, t.Config.MinBuyIn, t.Config.MaxBuyIn)
	}
	if err := t.game.SitDown(chair, playerID, pc.Name, buyIn, false); err != nil {
		return err
	}
	pc.Chair = chair
	pc.Online = true
	pc.LastSeen = time.Now()
	t.seats[chair] = playerID

	t.log.Info().Str("player", playerID).Uint16("chair", chair).Int64("buy_in", buyIn).Msg("player sat down")
	t.broadcastGameState()
	t.maybeStartHand()
	return nil
}

// SeatBot seats a bot-controlled player and records its RuleBrain for
// later decision scheduling.
func (t *Table) SeatBot(playerID, name string, chair uint16, buyIn int64, persona *npc.NPCPersona) error {
	if err := t.SubmitEvent(Event{Type: EventJoin, PlayerID: playerID, Name: name}); err != nil {
		return err
	}
	resp := make(chan error, 1)
	t.events <- Event{
		Type:     EventSitDown,
		PlayerID: playerID,
		Name:     name,
		Chair:    chair,
		BuyIn:    buyIn,
		Response: resp,
	}
	err := <-resp
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.bots[playerID] = npc.NewRuleBrain(persona, t.rng.Int63())
	t.mu.Unlock()
	return nil
}

func (t *Table) handleStandUp(playerID string) error {
	pc := t.players[playerID]
	if pc == nil || pc.Chair == holdem.InvalidChair {
		return nil
	}
	chair := pc.Chair
	if err := t.game.StandUp(chair); err != nil {
		return err
	}
	delete(t.seats, chair)
	delete(t.bots, playerID)
	pc.Chair = holdem.InvalidChair

	t.log.Info().Str("player", playerID).Uint16("chair", chair).Msg("player stood up")
	t.broadcastGameState()
	return nil
}

func (t *Table) handleConnLost(playerID string) error {
	pc := t.players[playerID]
	if pc == nil {
		return nil
	}
	// Disconnect never removes a player from the hand; it only marks
	// the connection offline. The seat is not marked sitting-out, so
	// the player stays dealt into later hands.
	pc.Online = false
	pc.LastSeen = time.Now()
	return nil
}

func (t *Table) handleConnResume(playerID string) error {
	pc := t.players[playerID]
	if pc == nil {
		return nil
	}
	pc.Online = true
	pc.LastSeen = time.Now()
	t.sendGameState(playerID)
	return nil
}

func (t *Table) handleAction(playerID, actionName string, amount int64) error {
	pc := t.players[playerID]
	if pc == nil || pc.Chair == holdem.InvalidChair {
		return fmt.Errorf("player not seated")
	}
	action, ok := actionFromWire(actionName)
	if !ok {
		return fmt.Errorf("%w: unknown action %q", holdem.ErrInvalidAction, actionName)
	}

	before := t.game.Snapshot()
	if before.ActionChair != pc.Chair {
		return fmt.Errorf("not your turn")
	}
	if action == holdem.PlayerActionTypeRaise && before.CurBet == 0 {
		action = holdem.PlayerActionTypeBet // wire "raise" also opens the betting
	}
	if action == holdem.PlayerActionTypeCall {
		amount = before.CurBet
	}

	result, err := t.game.Act(pc.Chair, action, amount)
	if err != nil {
		return err
	}

	t.generation++
	after := t.game.Snapshot()
	t.broadcastActionTaken(pc, actionName, after)
	t.broadcastStreetTransitions(before, after)

	if result != nil {
		t.handleHandEnd(result, after)
		return nil
	}

	if after.ActionChair != holdem.InvalidChair {
		t.promptNextToAct(after.ActionChair)
	}
	return nil
}

func (t *Table) handleStartHand() error {
	if t.closed {
		return ErrTableClosed
	}
	if len(t.seats) < 2 {
		return nil
	}
	t.cancelPendingTimersLocked()

	if err := t.game.StartHand(); err != nil {
		t.log.Warn().Err(err).Msg("start hand failed")
		return err
	}
	t.round++
	t.log.Info().Uint16("round", t.round).Msg("hand started")

	t.broadcastHandStarting()
	snap := t.game.Snapshot()
	if snap.ActionChair != holdem.InvalidChair {
		t.promptNextToAct(snap.ActionChair)
	}
	return nil
}

func (t *Table) handleHandEnd(result *holdem.SettlementResult, snap holdem.Snapshot) {
	t.broadcastWinner(result, snap)
	t.broadcastHandOver()
	t.releaseBustPlayersLocked(snap)

	live := 0
	for chair := range t.seats {
		if p := t.game.Player(chair); p != nil && p.Stack() > 0 {
			live++
		}
	}
	if live < 2 {
		return
	}

	pause := foldPause
	if hadShowdown(result) {
		pause = showdownPause
	}
	gen := t.generation
	t.handTimer = t.clock.AfterFunc(pause, func() {
		t.mu.RLock()
		stale := gen != t.generation
		t.mu.RUnlock()
		if stale {
			return
		}
		_ = t.SubmitEvent(Event{Type: EventStartHand})
	})
}

// releaseBustPlayersLocked marks players with 0 chips sitting-out so
// the next StartHand's active list skips them (spec §4.4 HAND_OVER).
func (t *Table) releaseBustPlayersLocked(snap holdem.Snapshot) {
	for _, ps := range snap.Players {
		if ps.Stack <= 0 {
			_ = t.game.SetSittingOut(ps.Chair, true)
		}
	}
}

func (t *Table) maybeStartHand() {
	if len(t.seats) < 2 {
		return
	}
	snap := t.game.Snapshot()
	if snap.Round == 0 || snap.Ended {
		// Already on the actor goroutine holding t.mu: start the hand
		// directly rather than re-entering through SubmitEvent.
		_ = t.handleStartHand()
	}
}

// promptNextToAct sends your_turn to a human, or schedules a bot
// decision after a randomized delay.
func (t *Table) promptNextToAct(chair uint16) {
	playerID := t.seats[chair]
	if playerID == "" {
		return
	}
	if brain, ok := t.bots[playerID]; ok {
		t.scheduleBotAction(chair, playerID, brain)
		return
	}
	t.sendYourTurn(playerID, chair)
}

func (t *Table) scheduleBotAction(chair uint16, playerID string, brain *npc.RuleBrain) {
	legal, minRaise, err := t.game.LegalActions(chair)
	if err != nil {
		t.log.Warn().Err(err).Str("player", playerID).Msg("bot legal actions failed")
		return
	}
	view := t.buildBotView(chair, legal, minRaise)
	gen := t.generation

	delay := minBotDelay + time.Duration(t.rng.Int63n(int64(maxBotDelay-minBotDelay)))
	t.npcTimer = t.clock.AfterFunc(delay, func() {
		t.mu.RLock()
		stale := gen != t.generation
		t.mu.RUnlock()
		if stale {
			return // hand advanced past this decision's target; discard it
		}
		decision := brain.Decide(view)
		_ = t.SubmitEvent(Event{
			Type:     EventAction,
			PlayerID: playerID,
			Action:   wireActionName(decision.Action),
			Amount:   decision.Amount,
		})
	})
}

func (t *Table) buildBotView(chair uint16, legal []holdem.ActionType, minRaise int64) npc.GameView {
	snap := t.game.Snapshot()
	view := npc.GameView{
		Phase:        snap.Phase,
		Community:    snap.CommunityCards,
		CurrentBet:   snap.CurBet,
		MinRaise:     minRaise,
		LegalActions: legal,
	}
	for _, pot := range snap.Pots {
		view.Pot += pot.Amount
	}
	for _, ps := range snap.Players {
		view.Pot += ps.Bet
		if !ps.Folded {
			view.ActiveCount++
		}
		if ps.Chair == chair {
			view.HoleCards = ps.HandCards
			view.MyBet = ps.Bet
			view.MyStack = ps.Stack
		}
	}
	switch snap.Phase {
	case holdem.PhasePreflop:
		view.Street = 0
	case holdem.PhaseFlop:
		view.Street = 1
	case holdem.PhaseTurn:
		view.Street = 2
	case holdem.PhaseRiver:
		view.Street = 3
	}
	return view
}

func displayName(name, playerID string) string {
	if name != "" {
		return name
	}
	return playerID
}
