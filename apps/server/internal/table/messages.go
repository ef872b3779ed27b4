package table

import (
	"encoding/json"

	"holdemserver/card"
	"holdemserver/holdem"
)

// Envelope is the wire shape for every inbound and outbound message:
// a discriminator plus a type-specific payload (spec §6).
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Inbound payloads ---

type ActionPayload struct {
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

type ChatPayload struct {
	Message string `json:"message"`
}

// --- Outbound payloads ---

// PlayerView is one seat's entry in a game_state/hand_starting snapshot.
// HoleCards is ["??","??"] for every seat but the recipient's own, and
// for showdown losers whose cards were never revealed.
type PlayerView struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Chips    int64    `json:"chips"`
	Bet      int64    `json:"bet"`
	IsFolded bool     `json:"is_folded"`
	IsAllIn  bool     `json:"is_all_in"`
	IsBot    bool     `json:"is_bot"`
	HoleCards []string `json:"hole_cards"`
}

type GameStatePayload struct {
	Phase              string       `json:"phase"`
	Variant            string       `json:"variant"`
	Players            []PlayerView `json:"players"`
	CommunityCards     []string     `json:"community_cards"`
	Pot                int64        `json:"pot"`
	HandNumber         uint16       `json:"hand_number"`
	DealerIndex        uint16       `json:"dealer_index"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	SmallBlind         int64        `json:"small_blind"`
	BigBlind           int64        `json:"big_blind"`
}

type CommunityCardPayload struct {
	Phase          string   `json:"phase"`
	CommunityCards []string `json:"community_cards"`
}

type ValidActions struct {
	CanCheck bool  `json:"can_check"`
	CallAmount int64 `json:"call_amount"`
	CanRaise bool  `json:"can_raise"`
	MinRaise int64 `json:"min_raise"`
	MaxRaise int64 `json:"max_raise"`
}

type YourTurnPayload struct {
	PlayerID     string       `json:"player_id"`
	ValidActions ValidActions `json:"valid_actions"`
}

type ActionTakenPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	Amount   int64  `json:"amount"`
	Pot      int64  `json:"pot"`
}

type WinnerEntry struct {
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
	Hand     string `json:"hand,omitempty"`
}

type RevealedHand struct {
	HoleCards []string `json:"hole_cards"`
	HandName  string   `json:"hand_name"`
	Score     int      `json:"score"`
}

type WinnerPayload struct {
	Winners  []WinnerEntry           `json:"winners"`
	AllHands map[string]RevealedHand `json:"all_hands,omitempty"`
}

type HandOverPayload struct {
	HandNumber uint16 `json:"hand_number"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func cardStrings(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func hiddenHoleCards() []string {
	return []string{card.Hidden, card.Hidden}
}

// buildPlayerView projects one seat, redacting hole cards unless
// forPlayerID is that seat's own occupant (spec §4.6 redaction invariant).
func buildPlayerView(ps holdem.PlayerSnapshot, forPlayerID string) PlayerView {
	view := PlayerView{
		PlayerID: ps.ID,
		Name:     ps.Name,
		Chips:    ps.Stack,
		Bet:      ps.Bet,
		IsFolded: ps.Folded,
		IsAllIn:  ps.AllIn,
		IsBot:    ps.IsBot,
	}
	if ps.ID == forPlayerID && len(ps.HandCards) == 2 {
		view.HoleCards = cardStrings(ps.HandCards)
	} else {
		view.HoleCards = hiddenHoleCards()
	}
	return view
}

func buildGameStatePayload(snap holdem.Snapshot, cfg TableConfig, forPlayerID string) GameStatePayload {
	payload := GameStatePayload{
		Phase:          snap.Phase.String(),
		Variant:        variantName(cfg.Variant),
		CommunityCards: cardStrings(snap.CommunityCards),
		HandNumber:     snap.Round,
		DealerIndex:    snap.DealerChair,
		SmallBlind:     cfg.SmallBlind,
		BigBlind:       cfg.BigBlind,
	}
	if snap.ActionChair != holdem.InvalidChair {
		payload.CurrentPlayerIndex = int(snap.ActionChair)
	} else {
		payload.CurrentPlayerIndex = -1
	}
	for _, pot := range snap.Pots {
		payload.Pot += pot.Amount
	}
	for _, ps := range snap.Players {
		payload.Pot += ps.Bet
		payload.Players = append(payload.Players, buildPlayerView(ps, forPlayerID))
	}
	return payload
}

func variantName(v holdem.Variant) string {
	if v == holdem.FixedLimit {
		return "fixed_limit"
	}
	return "no_limit"
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: data})
}
