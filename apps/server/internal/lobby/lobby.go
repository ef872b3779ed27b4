package lobby

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"holdemserver/apps/server/internal/table"
)

// Lobby manages all tables and finds a seat for newly joined players.
type Lobby struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
	nextID uint64

	defaultConfig table.TableConfig
	log           zerolog.Logger
}

// New creates a lobby that opens tables with the given default stakes.
func New(defaultConfig table.TableConfig, log zerolog.Logger) *Lobby {
	return &Lobby{
		tables:        make(map[string]*table.Table),
		defaultConfig: defaultConfig,
		log:           log,
	}
}

// QuickStart finds a table with an open seat for playerID, or opens a
// new one using the lobby's default stakes.
func (l *Lobby) QuickStart(playerID string, broadcast table.Broadcast) (*table.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.tables {
		if t.IsClosed() {
			continue
		}
		snap := t.Snapshot()
		if len(snap.Players) < int(l.defaultConfig.MaxPlayers) {
			l.log.Info().Str("player", playerID).Str("table", t.ID).Msg("quick-start: joining existing table")
			return t, nil
		}
	}

	l.nextID++
	tableID := fmt.Sprintf("table_%d", l.nextID)
	t := table.New(tableID, l.defaultConfig, broadcast, nil)
	if t == nil {
		return nil, fmt.Errorf("failed to create table %s", tableID)
	}
	l.tables[tableID] = t

	l.log.Info().Str("player", playerID).Str("table", tableID).
		Int64("small_blind", l.defaultConfig.SmallBlind).
		Int64("big_blind", l.defaultConfig.BigBlind).
		Msg("quick-start: opened new table")
	return t, nil
}

// FindPlayerTable returns the table playerID is currently seated at, if
// any — used on reconnect so a returning player resumes their seat
// instead of being quick-started into a fresh one.
func (l *Lobby) FindPlayerTable(playerID string) *table.Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.tables {
		snap := t.Snapshot()
		for _, ps := range snap.Players {
			if ps.ID == playerID {
				return t
			}
		}
	}
	return nil
}

// GetTable returns a table by ID, or nil if it doesn't exist.
func (l *Lobby) GetTable(tableID string) *table.Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables[tableID]
}

// ListTables returns every open table's ID.
func (l *Lobby) ListTables() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.tables))
	for id := range l.tables {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll stops every table actor; used during graceful shutdown.
func (l *Lobby) CloseAll() {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.tables {
		t.Stop()
	}
}
