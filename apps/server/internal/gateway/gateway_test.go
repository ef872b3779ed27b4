package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"holdemserver/apps/server/internal/lobby"
	"holdemserver/apps/server/internal/table"
	"holdemserver/holdem"
)

func newTestServer(t *testing.T) (*httptest.Server, *Gateway) {
	t.Helper()
	log := zerolog.New(io.Discard)
	lby := lobby.New(table.TableConfig{
		MaxPlayers: 6,
		Variant:    holdem.NoLimit,
		SmallBlind: 50,
		BigBlind:   100,
		MinBuyIn:   1000,
		MaxBuyIn:   20000,
	}, log)
	gw := New(lby, log, 5000)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, gw
}

func dial(t *testing.T, srv *httptest.Server, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?player_id=" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn, timeout time.Duration) table.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(timeout))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env table.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

// A fresh connection with no prior seat is auto-joined and auto-seated
// at the first open chair (spec §6 has no inbound join/sit_down event).
func TestHandleWebSocket_FreshConnectionAutoSeated(t *testing.T) {
	srv, gw := newTestServer(t)
	_ = dial(t, srv, "alice")

	require.Eventually(t, func() bool {
		return gw.lobby.FindPlayerTable("alice") != nil
	}, time.Second, 10*time.Millisecond, "alice should be seated at a table shortly after connecting")

	tbl := gw.lobby.FindPlayerTable("alice")
	require.NotNil(t, tbl)
	snap := tbl.Snapshot()
	require.Len(t, snap.Players, 1)
	require.Equal(t, "alice", snap.Players[0].ID)
}

// A second connection under the same player_id as an existing seat
// resumes that seat instead of being quick-started into a new table.
func TestHandleWebSocket_ReconnectResumesSameTable(t *testing.T) {
	srv, gw := newTestServer(t)

	first := dial(t, srv, "bob")
	require.Eventually(t, func() bool {
		return gw.lobby.FindPlayerTable("bob") != nil
	}, time.Second, 10*time.Millisecond)
	firstTable := gw.lobby.FindPlayerTable("bob")
	first.Close()

	second := dial(t, srv, "bob")
	defer second.Close()
	require.Eventually(t, func() bool {
		return gw.lobby.FindPlayerTable("bob") != nil
	}, time.Second, 10*time.Millisecond)

	require.Equal(t, firstTable.ID, gw.lobby.FindPlayerTable("bob").ID)
}

// A lone seated player (no hand can start below the table's 2-player
// minimum) who submits an action anyway is out of turn and gets back a
// real error envelope over the wire, round-tripped through the table
// actor rather than short-circuited in the gateway.
func TestHandleAction_OutOfTurn_SendsErrorEnvelope(t *testing.T) {
	srv, gw := newTestServer(t)
	conn := dial(t, srv, "carol")

	require.Eventually(t, func() bool {
		return gw.lobby.FindPlayerTable("carol") != nil
	}, time.Second, 10*time.Millisecond)

	action := table.Envelope{Type: "action", Payload: json.RawMessage(`{"action":"check","amount":0}`)}
	data, err := json.Marshal(action)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))

	// Skip the game_state broadcasts queued from being auto-seated; the
	// reply to the action is the first error envelope after them. (A
	// read that times out leaves a gorilla connection unusable, so they
	// are not drained with a deadline.)
	env := readEnvelope(t, conn, time.Second)
	for env.Type == "game_state" {
		env = readEnvelope(t, conn, time.Second)
	}
	require.Equal(t, "error", env.Type)

	var payload table.ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	require.Contains(t, payload.Message, "turn")

	// A rejected action is reported, not fatal (spec §7): carol is
	// still seated at a table the lobby lists.
	require.Contains(t, gw.lobby.ListTables(), gw.lobby.FindPlayerTable("carol").ID)
}
