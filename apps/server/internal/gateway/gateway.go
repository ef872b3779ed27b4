package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"holdemserver/apps/server/internal/lobby"
	"holdemserver/apps/server/internal/table"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // no origin restriction: a player identifier suffices, there is no session to protect
	},
}

// Connection is one player's WebSocket session. A player_id query
// parameter stands in for authentication (spec §1 Non-goal).
type Connection struct {
	ID       string
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	TableID string
	Table   *table.Table
}

// Gateway owns every live WebSocket connection and routes inbound
// envelopes to the lobby/table layer.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	playerConns map[string]*Connection
	nextConnID  uint64
	lobby       *lobby.Lobby
	log         zerolog.Logger

	defaultBuyIn int64
}

// New creates a Gateway backed by the given lobby. defaultBuyIn seats a
// connection that omits the buy_in query parameter.
func New(lby *lobby.Lobby, log zerolog.Logger, defaultBuyIn int64) *Gateway {
	return &Gateway{
		connections:  make(map[string]*Connection),
		playerConns:  make(map[string]*Connection),
		lobby:        lby,
		log:          log,
		defaultBuyIn: defaultBuyIn,
	}
}

// HandleWebSocket upgrades the HTTP request and starts the connection's
// read/write pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	g.mu.Lock()
	connID := fmt.Sprintf("conn_%d", atomic.AddUint64(&g.nextConnID, 1))
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		playerID = connID
	}

	c := &Connection{
		ID:       connID,
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[connID] = c
	g.playerConns[playerID] = c
	g.mu.Unlock()

	g.log.Info().Str("conn", connID).Str("player", playerID).Int("total", len(g.connections)).Msg("client connected")

	go c.writePump()
	go c.readPump()

	buyIn := g.defaultBuyIn
	if raw := r.URL.Query().Get("buy_in"); raw != "" {
		if parsed, err := parseBuyIn(raw); err == nil {
			buyIn = parsed
		}
	}
	g.seatPlayer(c, buyIn)
}

// seatPlayer implements the "join a table" flow described in spec §1:
// there is no inbound wire event for it (§6 lists only action/chat), so
// a fresh connection is quick-started into a table and auto-seated at
// its first open chair.
func (g *Gateway) seatPlayer(c *Connection, buyIn int64) {
	if t := g.lobby.FindPlayerTable(c.PlayerID); t != nil {
		c.TableID = t.ID
		c.Table = t
		if err := t.SubmitEvent(table.Event{Type: table.EventConnResume, PlayerID: c.PlayerID}); err != nil {
			c.sendError(err.Error())
		}
		g.log.Info().Str("player", c.PlayerID).Str("table", t.ID).Msg("player resumed seat")
		return
	}

	t, err := g.lobby.QuickStart(c.PlayerID, g.broadcastToPlayer)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.TableID = t.ID
	c.Table = t

	if err := t.SubmitEvent(table.Event{Type: table.EventJoin, PlayerID: c.PlayerID}); err != nil {
		c.sendError(err.Error())
		return
	}

	chair, ok := firstOpenChair(t)
	if !ok {
		c.sendError("table full")
		return
	}
	if err := t.SubmitEvent(table.Event{Type: table.EventSitDown, PlayerID: c.PlayerID, Chair: chair, BuyIn: buyIn}); err != nil {
		c.sendError(err.Error())
		return
	}
	g.log.Info().Str("player", c.PlayerID).Str("table", t.ID).Uint16("chair", chair).Int64("buy_in", buyIn).Msg("player seated")
}

func firstOpenChair(t *table.Table) (uint16, bool) {
	snap := t.Snapshot()
	occupied := make(map[uint16]bool, len(snap.Players))
	for _, ps := range snap.Players {
		occupied[ps.Chair] = true
	}
	for chair := uint16(0); chair < t.Config.MaxPlayers; chair++ {
		if !occupied[chair] {
			return chair, true
		}
	}
	return 0, false
}

func parseBuyIn(raw string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(raw, "%d", &n)
	return n, err
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Gateway.log.Warn().Err(err).Str("conn", c.ID).Msg("websocket read error")
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

// handleMessage dispatches one inbound JSON envelope (spec §6). A
// malformed envelope or unknown type is logged and dropped; the
// connection stays open (spec §7: "protocol violation").
func (c *Connection) handleMessage(data []byte) {
	var env table.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.Gateway.log.Warn().Err(err).Str("conn", c.ID).Msg("dropping malformed envelope")
		return
	}

	switch env.Type {
	case "action":
		c.handleAction(env.Payload)
	case "chat":
		c.handleChat(env.Payload)
	default:
		c.Gateway.log.Warn().Str("conn", c.ID).Str("type", env.Type).Msg("dropping unknown envelope type")
	}
}

func (c *Connection) handleAction(raw json.RawMessage) {
	if c.Table == nil {
		c.sendError("not in a table")
		return
	}
	var payload table.ActionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.Gateway.log.Warn().Err(err).Str("conn", c.ID).Msg("dropping malformed action payload")
		return
	}
	if err := c.Table.SubmitEvent(table.Event{
		Type:     table.EventAction,
		PlayerID: c.PlayerID,
		Action:   payload.Action,
		Amount:   payload.Amount,
	}); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Connection) handleChat(raw json.RawMessage) {
	if c.Table == nil {
		return
	}
	var payload table.ChatPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.Gateway.log.Warn().Err(err).Str("conn", c.ID).Msg("dropping malformed chat payload")
		return
	}
	_ = c.Table.SubmitEvent(table.Event{Type: table.EventChat, PlayerID: c.PlayerID, Message: payload.Message})
}

func (c *Connection) sendError(msg string) {
	payload, err := json.Marshal(table.ErrorPayload{Message: msg})
	if err != nil {
		return
	}
	env, err := json.Marshal(table.Envelope{Type: "error", Payload: payload})
	if err != nil {
		return
	}
	select {
	case c.Send <- env:
	default:
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	delete(g.playerConns, c.PlayerID)
	if c.Table != nil {
		_ = c.Table.SubmitEvent(table.Event{Type: table.EventConnLost, PlayerID: c.PlayerID})
	}
	g.log.Info().Str("conn", c.ID).Str("player", c.PlayerID).Int("total", len(g.connections)).Msg("client disconnected")
}

// broadcastToPlayer is the table.Broadcast implementation wired into
// every table this gateway creates: it routes a personalized payload
// to whichever connection currently belongs to playerID, if any.
func (g *Gateway) broadcastToPlayer(playerID string, data []byte) {
	g.mu.RLock()
	c := g.playerConns[playerID]
	g.mu.RUnlock()

	if c == nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		g.log.Warn().Str("player", playerID).Msg("dropping message: send buffer full")
	}
}
