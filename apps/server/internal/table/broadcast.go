package table

import (
	"holdemserver/holdem"
)

func (t *Table) sendRaw(playerID, msgType string, payload any) {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		t.log.Error().Err(err).Str("type", msgType).Msg("failed to marshal envelope")
		return
	}
	t.sendFn(playerID, data)
}

func (t *Table) broadcastRaw(msgType string, payloadFor func(playerID string) any) {
	for playerID := range t.players {
		t.sendRaw(playerID, msgType, payloadFor(playerID))
	}
}

func (t *Table) sendGameState(playerID string) {
	snap := t.game.Snapshot()
	t.sendRaw(playerID, "game_state", buildGameStatePayload(snap, t.Config, playerID))
}

func (t *Table) broadcastGameState() {
	snap := t.game.Snapshot()
	t.broadcastRaw("game_state", func(playerID string) any {
		return buildGameStatePayload(snap, t.Config, playerID)
	})
}

func (t *Table) broadcastHandStarting() {
	snap := t.game.Snapshot()
	t.broadcastRaw("hand_starting", func(playerID string) any {
		return buildGameStatePayload(snap, t.Config, playerID)
	})
}

func (t *Table) broadcastStreetTransitions(before, after holdem.Snapshot) {
	beforeCount := len(before.CommunityCards)
	afterCount := len(after.CommunityCards)
	if afterCount <= beforeCount {
		return
	}
	t.broadcastRaw("community_card", func(string) any {
		return CommunityCardPayload{
			Phase:          after.Phase.String(),
			CommunityCards: cardStrings(after.CommunityCards),
		}
	})
}

func (t *Table) sendYourTurn(playerID string, chair uint16) {
	legal, minTotalRaiseTo, err := t.game.LegalActions(chair)
	if err != nil {
		t.log.Error().Err(err).Str("player", playerID).Msg("legal actions failed")
		return
	}
	snap := t.game.Snapshot()
	var playerBet, stack int64
	for _, ps := range snap.Players {
		if ps.Chair == chair {
			playerBet = ps.Bet
			stack = ps.Stack
			break
		}
	}
	callAmount := snap.CurBet - playerBet
	if callAmount < 0 {
		callAmount = 0
	}
	va := ValidActions{
		CanCheck: hasAction(legal, holdem.PlayerActionTypeCheck),
		CallAmount: callAmount,
		CanRaise: hasAction(legal, holdem.PlayerActionTypeRaise) || hasAction(legal, holdem.PlayerActionTypeBet),
		MinRaise: minTotalRaiseTo,
		MaxRaise: stack + playerBet,
	}
	t.sendRaw(playerID, "your_turn", YourTurnPayload{PlayerID: playerID, ValidActions: va})
}

func (t *Table) broadcastActionTaken(pc *PlayerConn, actionName string, after holdem.Snapshot) {
	var amount int64
	for _, ps := range after.Players {
		if ps.Chair == pc.Chair {
			amount = ps.Bet
			break
		}
	}
	pot := int64(0)
	for _, p := range after.Pots {
		pot += p.Amount
	}
	for _, ps := range after.Players {
		pot += ps.Bet
	}
	t.broadcastRaw("action_taken", func(string) any {
		return ActionTakenPayload{
			PlayerID: pc.PlayerID,
			Name:     pc.Name,
			Action:   actionName,
			Amount:   amount,
			Pot:      pot,
		}
	})
}

func (t *Table) broadcastWinner(result *holdem.SettlementResult, snap holdem.Snapshot) {
	payload := WinnerPayload{}
	for _, pr := range result.PlayerResults {
		if !pr.IsWinner {
			continue
		}
		playerID := t.seats[pr.Chair]
		entry := WinnerEntry{PlayerID: playerID, Amount: pr.WinAmount}
		if pr.HandClass != 0 {
			entry.Hand = pr.HandClass.String()
		}
		payload.Winners = append(payload.Winners, entry)
	}

	// all_hands is populated only for a genuine showdown (spec §4.6):
	// all-fold endings never reveal a card that wasn't already folded face up.
	if hadShowdown(result) {
		payload.AllHands = make(map[string]RevealedHand, len(result.PlayerResults))
		for _, pr := range result.PlayerResults {
			playerID := t.seats[pr.Chair]
			if playerID == "" {
				continue
			}
			payload.AllHands[playerID] = RevealedHand{
				HoleCards: cardStrings(pr.HandCards),
				HandName:  pr.HandClass.String(),
				Score:     pr.HandScore,
			}
		}
	}

	t.broadcastRaw("winner", func(string) any { return payload })
}

func (t *Table) broadcastHandOver() {
	round := t.round
	t.broadcastRaw("hand_over", func(string) any { return HandOverPayload{HandNumber: round} })
}

func (t *Table) broadcastChat(fromPlayerID, message string) {
	name := fromPlayerID
	if pc := t.players[fromPlayerID]; pc != nil {
		name = pc.Name
	}
	t.broadcastRaw("chat", func(string) any {
		return map[string]string{"player_id": fromPlayerID, "name": name, "message": message}
	})
}

func hasAction(actions []holdem.ActionType, target holdem.ActionType) bool {
	for _, a := range actions {
		if a == target {
			return true
		}
	}
	return false
}

func hadShowdown(result *holdem.SettlementResult) bool {
	for _, pr := range result.PlayerResults {
		if len(pr.BestFiveCards) > 0 {
			return true
		}
	}
	return false
}

var wireToAction = map[string]holdem.ActionType{
	"fold":   holdem.PlayerActionTypeFold,
	"check":  holdem.PlayerActionTypeCheck,
	"call":   holdem.PlayerActionTypeCall,
	"bet":    holdem.PlayerActionTypeBet,
	"raise":  holdem.PlayerActionTypeRaise,
	"all_in": holdem.PlayerActionTypeAllin,
}

func actionFromWire(name string) (holdem.ActionType, bool) {
	a, ok := wireToAction[name]
	return a, ok
}

func wireActionName(a holdem.ActionType) string {
	switch a {
	case holdem.PlayerActionTypeBet, holdem.PlayerActionTypeRaise:
		return "raise"
	default:
		return holdem.PlayerActionTypeDictionary[a]
	}
}
