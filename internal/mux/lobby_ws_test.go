package mux

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liars-server/pkg/ledger"
	"liars-server/pkg/playable"
)

func dialLobby(t *testing.T, ts *testServer, lobbyUUID string, playerID int64) *websocket.Conn {
	t.Helper()

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/lobby/" + lobbyUUID + "/ws?access_token=" + url.QueryEscape(token(t, playerID))
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

// readUntil reads messages until one has the key, failing after a second
func readUntil(t *testing.T, conn *websocket.Conn, key string) *playable.Response {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	for {
		var res playable.Response
		if err := conn.ReadJSON(&res); err != nil {
			t.Fatalf("did not receive %s: %v", key, err)
		}

		if res.Key == key {
			return &res
		}
	}
}

func TestMux_getLobbyUUIDWS(t *testing.T) {
	ts := newTestServer(t)
	created := createLobby(t, ts, "Websocket Lobby")
	assert.NoError(t, ts.ledger.Credit(context.Background(), ledger.PlayerAccount(1), 500))

	conn := dialLobby(t, ts, created.UUID, 1)

	// the dealer greets a new client with its view of the lobby
	state := readUntil(t, conn, "game")
	assert.Equal(t, "liars", state.Value)

	require.NoError(t, conn.WriteJSON(playable.PayloadIn{Action: "join", Context: "join-1"}))
	res := readUntil(t, conn, "status")
	assert.Equal(t, "OK", res.Value)
	assert.Equal(t, "join-1", res.Context)

	event := readUntil(t, conn, "event")
	assert.Equal(t, "playerJoined", event.Value)

	require.NoError(t, conn.WriteJSON(playable.PayloadIn{Action: "join", Context: "join-2"}))
	res = readUntil(t, conn, "error")
	assert.Equal(t, "player already in lobby", res.Value)
	assert.Equal(t, "join-2", res.Context)
}
