package table

import (
	"testing"

	"holdemserver/card"
	"holdemserver/holdem"
)

// spec §4.6's redaction invariant: a game_state snapshot must reveal
// a seat's hole cards only to that seat's own occupant. Every other
// seat's cards collapse to the ["??","??"] sentinel, regardless of
// what the engine actually dealt them.
func TestBuildGameStatePayload_RedactsOtherPlayersHoleCards(t *testing.T) {
	snap := holdem.Snapshot{
		Phase:       holdem.PhaseFlop,
		ActionChair: 0,
		Players: []holdem.PlayerSnapshot{
			{
				ID:        "alice",
				Chair:     0,
				Stack:     900,
				Bet:       100,
				HandCards: []card.Card{card.New(14, card.Spades), card.New(13, card.Hearts)},
			},
			{
				ID:        "bob",
				Chair:     1,
				Stack:     800,
				Bet:       100,
				HandCards: []card.Card{card.New(2, card.Clubs), card.New(3, card.Diamonds)},
			},
		},
	}
	cfg := TableConfig{Variant: holdem.NoLimit, SmallBlind: 50, BigBlind: 100}

	payload := buildGameStatePayload(snap, cfg, "alice")

	var aliceView, bobView PlayerView
	for _, pv := range payload.Players {
		switch pv.PlayerID {
		case "alice":
			aliceView = pv
		case "bob":
			bobView = pv
		}
	}

	if got, want := aliceView.HoleCards, []string{"As", "Kh"}; !equalStrings(got, want) {
		t.Fatalf("alice's own view of her hole cards = %v, want %v", got, want)
	}
	if got, want := bobView.HoleCards, []string{card.Hidden, card.Hidden}; !equalStrings(got, want) {
		t.Fatalf("alice's view of bob's hole cards = %v, want %v (redacted)", got, want)
	}

	// From bob's point of view the redaction flips.
	fromBob := buildGameStatePayload(snap, cfg, "bob")
	for _, pv := range fromBob.Players {
		if pv.PlayerID == "alice" && !equalStrings(pv.HoleCards, []string{card.Hidden, card.Hidden}) {
			t.Fatalf("bob's view of alice's hole cards = %v, want redacted", pv.HoleCards)
		}
		if pv.PlayerID == "bob" && !equalStrings(pv.HoleCards, []string{"2c", "3d"}) {
			t.Fatalf("bob's own view of his hole cards = %v, want [2c 3d]", pv.HoleCards)
		}
	}
}

// A seat that hasn't been dealt in yet (or whose cards the snapshot
// omits) still redacts to the sentinel rather than an empty slice —
// every seat's hole_cards field is exactly two entries on the wire.
func TestBuildPlayerView_NoHandCardsStillRedacted(t *testing.T) {
	ps := holdem.PlayerSnapshot{ID: "carol", Chair: 2}
	view := buildPlayerView(ps, "someone-else")
	if !equalStrings(view.HoleCards, []string{card.Hidden, card.Hidden}) {
		t.Fatalf("HoleCards = %v, want [?? ??]", view.HoleCards)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
