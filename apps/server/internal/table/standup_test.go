package table

import (
	"testing"

	"github.com/coder/quartz"

	"holdemserver/holdem"
)

func newStandUpTestTable(t *testing.T) *Table {
	t.Helper()

	cfg := TableConfig{
		MaxPlayers: 6,
		Variant:    holdem.NoLimit,
		SmallBlind: 50,
		BigBlind:   100,
		MinBuyIn:   100,
		MaxBuyIn:   1000,
	}

	tbl := New("standup_test", cfg, func(string, []byte) {}, quartz.NewMock(t))
	if tbl == nil {
		t.Fatalf("New returned nil table")
	}

	for chair := uint16(0); chair < 3; chair++ {
		playerID := string(rune('a' + chair))
		if err := tbl.SubmitEvent(Event{Type: EventJoin, PlayerID: playerID, Name: playerID}); err != nil {
			t.Fatalf("join chair=%d err: %v", chair, err)
		}
		if err := tbl.SubmitEvent(Event{Type: EventSitDown, PlayerID: playerID, Chair: chair, BuyIn: 1000}); err != nil {
			t.Fatalf("SitDown chair=%d err: %v", chair, err)
		}
	}
	if err := tbl.SubmitEvent(Event{Type: EventStartHand}); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}
	return tbl
}

func foldCurrentActor(t *testing.T, tbl *Table) (uint16, string) {
	t.Helper()

	snap := tbl.Snapshot()
	if snap.ActionChair == holdem.InvalidChair {
		t.Fatalf("expected valid action chair, got invalid")
	}
	chair := snap.ActionChair
	tbl.mu.RLock()
	playerID := tbl.seats[chair]
	tbl.mu.RUnlock()

	if err := tbl.SubmitEvent(Event{Type: EventAction, PlayerID: playerID, Action: "fold"}); err != nil {
		t.Fatalf("fold chair=%d err: %v", chair, err)
	}
	return chair, playerID
}

// Standing up mid-hand is rejected: the seat only frees up between
// hands (holdem.Game.StandUp returns ErrHandInProgress while a hand
// is live, and the table actor surfaces that error unchanged).
func TestHandleStandUp_DuringHand_Rejected(t *testing.T) {
	tbl := newStandUpTestTable(t)

	_, playerID := foldCurrentActor(t, tbl)

	err := tbl.SubmitEvent(Event{Type: EventStandUp, PlayerID: playerID})
	if err == nil {
		t.Fatalf("expected error standing up mid-hand, got nil")
	}

	tbl.mu.RLock()
	chair := tbl.players[playerID].Chair
	tbl.mu.RUnlock()
	if chair == holdem.InvalidChair {
		t.Fatalf("expected player to remain seated after rejected stand-up")
	}
}

// Once a hand ends (here, by folding down to the last player), a
// stand-up request for a seated player succeeds and frees the chair.
func TestHandleStandUp_BetweenHands_Succeeds(t *testing.T) {
	tbl := newStandUpTestTable(t)

	var lastPlayerID string
	for i := 0; i < 8; i++ {
		snap := tbl.Snapshot()
		if snap.Ended {
			break
		}
		_, lastPlayerID = foldCurrentActor(t, tbl)
	}

	tbl.mu.RLock()
	anyPlayerID := ""
	for pid, pc := range tbl.players {
		if pc.Chair != holdem.InvalidChair {
			anyPlayerID = pid
			break
		}
	}
	tbl.mu.RUnlock()
	if anyPlayerID == "" {
		t.Fatalf("expected at least one seated player after hand end")
	}
	_ = lastPlayerID

	if err := tbl.SubmitEvent(Event{Type: EventStandUp, PlayerID: anyPlayerID}); err != nil {
		t.Fatalf("handleStandUp err: %v", err)
	}

	tbl.mu.RLock()
	chair := tbl.players[anyPlayerID].Chair
	_, stillSeated := tbl.seats[chair]
	tbl.mu.RUnlock()
	if chair != holdem.InvalidChair {
		t.Fatalf("expected chair to be freed, got %d", chair)
	}
	if stillSeated {
		t.Fatalf("expected seat map entry removed")
	}
}
