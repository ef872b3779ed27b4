package holdem

import "testing"

// spec.md §8 scenario #4: preflop big_blind=20, four bets total
// (the blind plus three raises) hit the fixed-limit cap; a fifth
// raise attempt must fail and leave the betting state untouched, but
// the actor can still call or fold.
func TestFixedLimit_FourBetCapRejectsFifthRaise(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers: 2,
		MinPlayers: 2,
		Variant:    FixedLimit,
		SmallBlind: 10,
		BigBlind:   20,
		Seed:       1,
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	if err := g.SitDown(0, "p1", "P1", 10000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.SitDown(1, "p2", "P2", 10000, false); err != nil {
		t.Fatal(err)
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	// The big blind is bet #1 (raiseCount == 1). Three more raises at
	// 20/street bring it to 40, 60, 80 — the cap.
	for want := int64(40); want <= 80; want += 20 {
		snap := g.Snapshot()
		if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, want); err != nil {
			t.Fatalf("raise to %d failed: %v", want, err)
		}
		snap = g.Snapshot()
		if snap.CurBet != want {
			t.Fatalf("CurBet = %d, want %d", snap.CurBet, want)
		}
	}

	before := g.Snapshot()
	if before.CurBet != 80 {
		t.Fatalf("expected curBet 80 at the cap, got %d", before.CurBet)
	}

	_, err = g.Act(before.ActionChair, PlayerActionTypeRaise, 100)
	if err != ErrBetCapReached {
		t.Fatalf("expected ErrBetCapReached for the 5th raise, got %v", err)
	}

	after := g.Snapshot()
	if after.CurBet != before.CurBet || after.ActionChair != before.ActionChair {
		t.Fatalf("rejected raise mutated state: before=%+v after=%+v", before, after)
	}

	if _, err := g.Act(after.ActionChair, PlayerActionTypeCall, after.CurBet); err != nil {
		t.Fatalf("actor should still be able to call after the cap rejects a raise: %v", err)
	}
}

// spec.md §8 scenario #5: NLHE. A raises to 30 (last_raise_size=20),
// B calls, C goes all-in for 45 — an increment of only 15, short of
// the 20 needed to reopen. A may only call 45 or fold; re-raising to
// 60 must be rejected.
func TestNoLimit_ShortAllInDoesNotReopenAction(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers: 3,
		MinPlayers: 3,
		SmallBlind: 5,
		BigBlind:   10,
		Seed:       1,
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	for chair := uint16(0); chair < 3; chair++ {
		if err := g.SitDown(chair, name(chair), name(chair), 1000, false); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	snap := g.Snapshot()
	raiser := snap.ActionChair
	if _, err := g.Act(raiser, PlayerActionTypeRaise, 30); err != nil {
		t.Fatalf("open raise to 30 failed: %v", err)
	}

	snap = g.Snapshot()
	caller := snap.ActionChair
	if _, err := g.Act(caller, PlayerActionTypeCall, 30); err != nil {
		t.Fatalf("call to 30 failed: %v", err)
	}

	snap = g.Snapshot()
	shortStack := snap.ActionChair
	p := g.playersByChair[shortStack]
	p.stack = 45 - p.Bet() // leaves exactly 45 committed once all-in

	if _, err := g.Act(shortStack, PlayerActionTypeAllin, 45); err != nil {
		t.Fatalf("short all-in failed: %v", err)
	}

	snap = g.Snapshot()
	if snap.CurrentRaiser != raiser {
		t.Fatalf("short all-in reopened the action: CurrentRaiser = %d, want original raiser %d", snap.CurrentRaiser, raiser)
	}
	if snap.CurBet != 45 {
		t.Fatalf("CurBet = %d, want 45", snap.CurBet)
	}

	// Whoever is up now must not be allowed to re-raise to 60: either
	// the action never reopened for them (ErrInvalidAction) or it did
	// but 60 doesn't meet the still-unchanged MinRaise (ErrInvalidAmount).
	if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, 60); err == nil {
		t.Fatalf("expected re-raising to 60 after a short all-in to be rejected")
	}

	// Calling the all-in amount must still be legal.
	if _, err := g.Act(snap.ActionChair, PlayerActionTypeCall, 45); err != nil {
		t.Fatalf("call of the short all-in should be legal: %v", err)
	}
}

// Same rule as above, but under FLHE: a short all-in must not reset
// CurrentRaiser, and the re-raise is blocked because the action was
// never reopened (ErrInvalidAction), not by ErrBetCapReached.
func TestFixedLimit_ShortAllInDoesNotReopenAction(t *testing.T) {
	g, err := NewGame(Config{
		MaxPlayers: 3,
		MinPlayers: 3,
		Variant:    FixedLimit,
		SmallBlind: 5,
		BigBlind:   10,
		Seed:       1,
	})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	for chair := uint16(0); chair < 3; chair++ {
		if err := g.SitDown(chair, name(chair), name(chair), 1000, false); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.StartHand(); err != nil {
		t.Fatalf("StartHand err: %v", err)
	}

	snap := g.Snapshot()
	raiser := snap.ActionChair
	if _, err := g.Act(raiser, PlayerActionTypeRaise, 20); err != nil {
		t.Fatalf("open raise to 20 failed: %v", err)
	}

	snap = g.Snapshot()
	caller := snap.ActionChair
	if _, err := g.Act(caller, PlayerActionTypeCall, 20); err != nil {
		t.Fatalf("call to 20 failed: %v", err)
	}

	snap = g.Snapshot()
	shortStack := snap.ActionChair
	p := g.playersByChair[shortStack]
	// Fixed bet size preflop is BigBlind (10); an all-in increment of
	// 5 over curBet=20 is short of that, so it must not reopen.
	p.stack = 25 - p.Bet()

	if _, err := g.Act(shortStack, PlayerActionTypeAllin, 25); err != nil {
		t.Fatalf("short all-in failed: %v", err)
	}

	snap = g.Snapshot()
	if snap.CurrentRaiser != raiser {
		t.Fatalf("short FLHE all-in reopened the action: CurrentRaiser = %d, want original raiser %d", snap.CurrentRaiser, raiser)
	}

	if _, err := g.Act(snap.ActionChair, PlayerActionTypeRaise, 30); err == nil {
		t.Fatalf("expected the short all-in to block a further raise")
	}

	if _, err := g.Act(snap.ActionChair, PlayerActionTypeCall, 25); err != nil {
		t.Fatalf("call of the short all-in should be legal: %v", err)
	}
}

func name(chair uint16) string {
	return []string{"p1", "p2", "p3"}[chair]
}
