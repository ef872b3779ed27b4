package holdem

import "testing"

func sumBets(players []*Player) int64 {
	var sum int64
	for _, p := range players {
		sum += p.Bet()
	}
	return sum
}

// Classic three-way side pot: two live all-ins at different stack
// depths plus a folded player who contributed at the top level.
// Chair 1 (short all-in) can only contest the level it covered; chair
// 0 is sole eligible contestant for the level above it since chair 2
// folded there.
func TestPotManager_MultiWaySidePots(t *testing.T) {
	players := []*Player{
		{Chair: 0, bet: 100, folded: false},
		{Chair: 1, bet: 50, folded: false},
		{Chair: 2, bet: 100, folded: true},
	}

	var pm potManager
	pm.resetPots()
	pm.calcPotsByPlayerBets(players)

	if got, want := pm.total(), sumBets(players); got != want {
		t.Fatalf("pot total %d does not account for all contributed chips %d", got, want)
	}
	if pm.excessAmount != 0 {
		t.Fatalf("expected no uncalled excess, got %d to chair %d", pm.excessAmount, pm.excessChair)
	}

	if len(pm.pots) != 2 {
		t.Fatalf("expected 2 pots, got %d", len(pm.pots))
	}

	mainPot := pm.pots[0]
	if mainPot.amount != 150 {
		t.Fatalf("main pot amount = %d, want 150", mainPot.amount)
	}
	if !mainPot.eligiblePlayers[0] || !mainPot.eligiblePlayers[1] || mainPot.eligiblePlayers[2] {
		t.Fatalf("main pot eligible set wrong: %v", mainPot.eligiblePlayers)
	}

	sidePot := pm.pots[1]
	if sidePot.amount != 100 {
		t.Fatalf("side pot amount = %d, want 100", sidePot.amount)
	}
	if !sidePot.eligiblePlayers[0] || sidePot.eligiblePlayers[1] || sidePot.eligiblePlayers[2] {
		t.Fatalf("side pot eligible set wrong: %v", sidePot.eligiblePlayers)
	}
}

// If every contributor at some cap level has folded, that level's
// chips must not vanish — they carry forward onto the next level's
// pot, or onto the last pot when no later level has a live
// contestant, instead of being silently dropped.
func TestPotManager_CarryForwardWhenLevelHasNoEligiblePlayers(t *testing.T) {
	players := []*Player{
		{Chair: 0, bet: 20, folded: false},
		{Chair: 1, bet: 100, folded: true},
		{Chair: 2, bet: 100, folded: true},
	}

	var pm potManager
	pm.resetPots()
	pm.calcPotsByPlayerBets(players)

	if got, want := pm.total(), sumBets(players); got != want {
		t.Fatalf("pot total %d dropped chips from an all-folded level: want %d", got, want)
	}

	if len(pm.pots) != 1 {
		t.Fatalf("expected every level to merge into 1 pot (only chair 0 is ever eligible), got %d", len(pm.pots))
	}
	if pm.pots[0].amount != 220 {
		t.Fatalf("pot amount = %d, want 220 (20 + the two folded players' 100 each)", pm.pots[0].amount)
	}
	if !pm.pots[0].eligiblePlayers[0] || len(pm.pots[0].eligiblePlayers) != 1 {
		t.Fatalf("expected only chair 0 eligible, got %v", pm.pots[0].eligiblePlayers)
	}
}

// An uncalled portion of the top bettor's bet is returned to them
// rather than entering any pot.
func TestPotManager_UncalledExcessReturnedToTopBettor(t *testing.T) {
	players := []*Player{
		{Chair: 0, bet: 200, folded: false, stack: 0},
		{Chair: 1, bet: 50, folded: false, stack: 0},
	}

	var pm potManager
	pm.resetPots()
	pm.calcPotsByPlayerBets(players)

	if pm.excessChair != 0 || pm.excessAmount != 150 {
		t.Fatalf("expected 150 excess returned to chair 0, got chair=%d amount=%d", pm.excessChair, pm.excessAmount)
	}
	for _, p := range players {
		if p.Chair == 0 && p.Bet() != 50 {
			t.Fatalf("expected chair 0's bet reduced to 50 after excess return, got %d", p.Bet())
		}
		if p.Chair == 0 && p.Stack() != 150 {
			t.Fatalf("expected chair 0's stack credited with the 150 excess, got %d", p.Stack())
		}
	}
}
