package holdem

const InvalidChair uint16 = 65535

// Phase is the hand's position in the orchestrator's state machine.
type Phase byte

const (
	PhaseWaiting  Phase = 0
	PhaseStarting Phase = 1
	PhasePreflop  Phase = 2
	PhaseFlop     Phase = 3
	PhaseTurn     Phase = 4
	PhaseRiver    Phase = 5
	PhaseShowdown Phase = 6
	PhaseAllFold  Phase = 7
	PhaseHandOver Phase = 8
)

var phaseNames = map[Phase]string{
	PhaseWaiting:  "WAITING",
	PhaseStarting: "STARTING",
	PhasePreflop:  "PREFLOP",
	PhaseFlop:     "FLOP",
	PhaseTurn:     "TURN",
	PhaseRiver:    "RIVER",
	PhaseShowdown: "SHOWDOWN",
	PhaseAllFold:  "ALL_FOLDED",
	PhaseHandOver: "HAND_OVER",
}

func (p Phase) String() string { return phaseNames[p] }

// Variant selects the betting rule set a Game enforces.
type Variant byte

const (
	NoLimit    Variant = 0
	FixedLimit Variant = 1
)

// ActionType enumerates the actions a player may submit. Bet is kept
// distinct from Raise internally (bet = opening wager when current_bet
// is 0) even though the wire protocol exposes only "raise"; the
// table actor maps an inbound "raise" to Bet when no bet is open.
type ActionType byte

const (
	PlayerActionTypeNone  ActionType = 0
	PlayerActionTypeCheck ActionType = 1
	PlayerActionTypeBet   ActionType = 2
	PlayerActionTypeCall  ActionType = 3
	PlayerActionTypeRaise ActionType = 4
	PlayerActionTypeFold  ActionType = 5
	PlayerActionTypeAllin ActionType = 6
)

var PlayerActionTypeDictionary = map[ActionType]string{
	PlayerActionTypeNone:  "none",
	PlayerActionTypeCheck: "check",
	PlayerActionTypeBet:   "bet",
	PlayerActionTypeCall:  "call",
	PlayerActionTypeRaise: "raise",
	PlayerActionTypeFold:  "fold",
	PlayerActionTypeAllin: "all_in",
}
