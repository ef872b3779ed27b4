package npc

import (
	"testing"

	"holdemserver/card"
	"holdemserver/holdem"
)

func TestRuleBrainPassivePreflopRaiseRateCapped(t *testing.T) {
	persona := &NPCPersona{
		ID:   "passive_test",
		Name: "PASSIVE_TEST",
		Brain: PersonalityProfile{
			Aggression: 0.20,
			Tightness:  0.20,
			Bluffing:   0.10,
			Positional: 0.30,
			Randomness: 0.0,
		},
	}
	brain := NewRuleBrain(persona, 42)

	view := GameView{
		Street:       0,
		HoleCards:    []card.Card{card.MustParse("Ts"), card.MustParse("9h")},
		Pot:          450,
		CurrentBet:   200,
		MyBet:        100,
		MyStack:      20000,
		MinRaise:     400,
		LegalActions: []holdem.ActionType{holdem.PlayerActionTypeFold, holdem.PlayerActionTypeCall, holdem.PlayerActionTypeRaise},
	}

	const rounds = 4000
	raises := 0
	for i := 0; i < rounds; i++ {
		decision := brain.Decide(view)
		if decision.Action == holdem.PlayerActionTypeRaise {
			raises++
		}
	}

	rate := float64(raises) / float64(rounds)
	if rate > 0.20 {
		t.Fatalf("passive profile raise rate too high: got %.3f, want <= 0.20", rate)
	}
}

func TestRuleBrainLAGPreflopRaiseRateModerated(t *testing.T) {
	persona := &NPCPersona{
		ID:   "lag_test",
		Name: "LAG_TEST",
		Brain: PersonalityProfile{
			Aggression: 0.75,
			Tightness:  0.30,
			Bluffing:   0.55,
			Positional: 0.50,
			Randomness: 0.0,
		},
	}
	brain := NewRuleBrain(persona, 99)

	view := GameView{
		Street:       0,
		HoleCards:    []card.Card{card.MustParse("Ts"), card.MustParse("9h")},
		Pot:          450,
		CurrentBet:   200,
		MyBet:        100,
		MyStack:      20000,
		MinRaise:     400,
		LegalActions: []holdem.ActionType{holdem.PlayerActionTypeFold, holdem.PlayerActionTypeCall, holdem.PlayerActionTypeRaise},
	}

	const rounds = 4000
	raises := 0
	calls := 0
	for i := 0; i < rounds; i++ {
		decision := brain.Decide(view)
		switch decision.Action {
		case holdem.PlayerActionTypeRaise:
			raises++
		case holdem.PlayerActionTypeCall:
			calls++
		}
	}

	rate := float64(raises) / float64(rounds)
	if rate < 0.10 || rate > 0.45 {
		t.Fatalf("LAG profile raise rate out of expected range: got %.3f, want [0.10, 0.45]", rate)
	}
	if raises >= calls {
		t.Fatalf("LAG profile still too raise-heavy: raises=%d calls=%d", raises, calls)
	}
}

// Postflop hand strength must come from holdem.EvalBest scoring the
// hole cards against the board, not a coin flip: a flopped set of
// aces should play far more aggressively than a busted, unpaired,
// unconnected holding on the same board.
func TestRuleBrain_PostflopStrengthDrivenByEvaluator(t *testing.T) {
	persona := &NPCPersona{
		ID:   "evaluator_test",
		Name: "EVALUATOR_TEST",
		Brain: PersonalityProfile{
			Aggression: 0.5,
			Tightness:  0.3,
			Bluffing:   0.0,
			Positional: 0.3,
			Randomness: 0.0,
		},
	}

	board := []card.Card{card.MustParse("Ah"), card.MustParse("7d"), card.MustParse("2c")}
	legal := []holdem.ActionType{
		holdem.PlayerActionTypeFold,
		holdem.PlayerActionTypeCheck,
		holdem.PlayerActionTypeBet,
	}

	strongView := GameView{
		Street:       1,
		HoleCards:    []card.Card{card.MustParse("As"), card.MustParse("Ac")},
		Community:    board,
		Pot:          200,
		MyStack:      20000,
		MinRaise:     20,
		LegalActions: legal,
	}
	weakView := GameView{
		Street:       1,
		HoleCards:    []card.Card{card.MustParse("9s"), card.MustParse("4c")},
		Community:    board,
		Pot:          200,
		MyStack:      20000,
		MinRaise:     20,
		LegalActions: legal,
	}

	strongBrain := NewRuleBrain(persona, 7)
	weakBrain := NewRuleBrain(persona, 7)

	// Trip aces lands in the evaluator's ThreeOfAKind band (scores
	// 1610-2467 of 7462); ace-high with no pair lands in its worst
	// HighCard band (scores above 6185). The gap between the two
	// normalized strengths should be large and unambiguous.
	strongStrength := strongBrain.estimateHandStrength(strongView)
	weakStrength := weakBrain.estimateHandStrength(weakView)
	if strongStrength < 0.55 {
		t.Fatalf("flopped trip aces strength = %.3f, want >= 0.55", strongStrength)
	}
	if weakStrength > 0.35 {
		t.Fatalf("unpaired, unconnected high-card strength = %.3f, want <= 0.35", weakStrength)
	}
	if strongStrength <= weakStrength {
		t.Fatalf("trip aces (%.3f) should score well above ace-high air (%.3f)", strongStrength, weakStrength)
	}

	const rounds = 2000
	betsWithNuts, betsWithAir := 0, 0
	for i := 0; i < rounds; i++ {
		if d := strongBrain.Decide(strongView); d.Action == holdem.PlayerActionTypeBet {
			betsWithNuts++
		}
		if d := weakBrain.Decide(weakView); d.Action == holdem.PlayerActionTypeBet {
			betsWithAir++
		}
	}
	if betsWithNuts <= betsWithAir {
		t.Fatalf("expected trip aces to bet more often than air on the same board: nuts=%d air=%d", betsWithNuts, betsWithAir)
	}
}
