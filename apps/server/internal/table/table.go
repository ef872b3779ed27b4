package table

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"holdemserver/holdem"
	"holdemserver/holdem/npc"
)

// Table is one poker table: an actor goroutine owning a *holdem.Game
// plus the seat/connection bookkeeping and personalized broadcast
// layer around it. All mutation is serialized through the events
// channel — this is the single-threaded-cooperative-per-table model.
type Table struct {
	ID     string
	Config TableConfig

	mu      sync.RWMutex
	game    *holdem.Game
	players map[string]*PlayerConn // player_id -> connection
	seats   map[uint16]string      // chair -> player_id
	bots    map[string]*npc.RuleBrain
	closed  bool

	round uint16

	events chan Event
	done   chan struct{}

	clock      quartz.Clock
	npcTimer   *quartz.Timer
	handTimer  *quartz.Timer
	generation uint64 // bumped every StartHand/hand-end; cancels stale timers

	rng    *rand.Rand
	log    zerolog.Logger
	sendFn Broadcast
}

// TableConfig holds the table's stakes and seating limits.
type TableConfig struct {
	MaxPlayers uint16
	Variant    holdem.Variant
	SmallBlind int64
	BigBlind   int64
	MinBuyIn   int64
	MaxBuyIn   int64
}

// PlayerConn tracks one seated (or just-joined) connection.
type PlayerConn struct {
	PlayerID string
	Name     string
	Chair    uint16
	Online   bool
	LastSeen time.Time
}

type EventType int

const (
	EventJoin EventType = iota
	EventSitDown
	EventStandUp
	EventAction
	EventChat
	EventStartHand
	EventConnLost
	EventConnResume
	EventClose
)

// Event is a message delivered to the table actor's event loop.
type Event struct {
	Type     EventType
	PlayerID string
	Name     string
	Chair    uint16
	BuyIn    int64
	Action   string
	Amount   int64
	Message  string
	Response chan error
}

var ErrTableClosed = errors.New("table closed")

const (
	minBotDelay = 500 * time.Millisecond
	maxBotDelay = 2000 * time.Millisecond
	foldPause   = 2 * time.Second
	showdownPause = 4 * time.Second
)

// Broadcast sends one player's personalized payload over its connection.
type Broadcast func(playerID string, data []byte)

// New creates a table and starts its actor goroutine.
func New(id string, cfg TableConfig, broadcast Broadcast, clock quartz.Clock) *Table {
	if clock == nil {
		clock = quartz.NewReal()
	}
	t := &Table{
		ID:      id,
		Config:  cfg,
		players: make(map[string]*PlayerConn),
		seats:   make(map[uint16]string),
		bots:    make(map[string]*npc.RuleBrain),
		events:  make(chan Event, 256),
		done:    make(chan struct{}),
		clock:   clock,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log.With().Str("table", id).Logger(),
		sendFn:  broadcast,
	}

	game, err := holdem.NewGame(holdem.Config{
		MaxPlayers: int(cfg.MaxPlayers),
		MinPlayers: 2,
		Variant:    cfg.Variant,
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
	})
	if err != nil {
		t.log.Error().Err(err).Msg("failed to create game engine")
		return nil
	}
	t.game = game

	go t.run()
	t.log.Info().Uint16("max_players", cfg.MaxPlayers).Int64("sb", cfg.SmallBlind).Int64("bb", cfg.BigBlind).Msg("table created")
	return t
}

func (t *Table) run() {
	for {
		select {
		case e := <-t.events:
			err := t.handleEvent(e)
			var inv *holdem.InvariantError
			if errors.As(err, &inv) {
				t.handleInvariantViolation(inv)
			}
			if e.Response != nil {
				e.Response <- err
			}
		case <-t.done:
			t.log.Info().Msg("table actor stopped")
			return
		}
	}
}

// handleInvariantViolation implements the §7 fatal-invariant path: a
// pot-total mismatch or an unknown player reference means the hand's
// state can no longer be trusted, so rather than crash (or silently
// pay out a broken settlement), the hand is aborted and every seated
// player is told why.
func (t *Table) handleInvariantViolation(err *holdem.InvariantError) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.log.Error().Str("invariant", err.Msg).Msg("invariant violation, aborting hand")
	t.game.ForceEndHand()
	t.generation++
	t.cancelPendingTimersLocked()
	t.broadcastRaw("error", func(string) any {
		return ErrorPayload{Message: "internal error: hand aborted"}
	})
	t.broadcastGameState()
}

func (t *Table) handleEvent(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed && e.Type != EventClose {
		return ErrTableClosed
	}

	switch e.Type {
	case EventJoin:
		return t.handleJoin(e.PlayerID, e.Name)
	case EventSitDown:
		return t.handleSitDown(e.PlayerID, e.Chair, e.BuyIn)
	case EventStandUp:
		return t.handleStandUp(e.PlayerID)
	case EventAction:
		return t.handleAction(e.PlayerID, e.Action, e.Amount)
	case EventChat:
		t.broadcastChat(e.PlayerID, e.Message)
		return nil
	case EventStartHand:
		return t.handleStartHand()
	case EventConnLost:
		return t.handleConnLost(e.PlayerID)
	case EventConnResume:
		return t.handleConnResume(e.PlayerID)
	case EventClose:
		t.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type %d", e.Type)
	}
}

// SubmitEvent delivers an event to the actor and waits for it to be
// processed, returning whatever error the handler produced.
func (t *Table) SubmitEvent(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrTableClosed
	}
	select {
	case t.events <- e:
	case <-t.done:
		return ErrTableClosed
	}
	select {
	case err := <-e.Response:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Table) stopLocked() {
	if t.closed {
		return
	}
	t.closed = true
	t.cancelPendingTimersLocked()
	close(t.done)
}

func (t *Table) cancelPendingTimersLocked() {
	t.generation++
	if t.npcTimer != nil {
		t.npcTimer.Stop()
		t.npcTimer = nil
	}
	if t.handTimer != nil {
		t.handTimer.Stop()
		t.handTimer = nil
	}
}

func (t *Table) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

func (t *Table) Snapshot() holdem.Snapshot {
	return t.game.Snapshot()
}
