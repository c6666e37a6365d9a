package mux

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liars-server/pkg/audit"
	"liars-server/pkg/commit"
	"liars-server/pkg/deck"
)

func TestMux_getAuditID(t *testing.T) {
	ts := newTestServer(t)

	content := []byte(`{"kind":"note"}`)
	id, err := ts.store.Put(context.Background(), content)
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/audit/" + string(id))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	b, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, content, b)

	var errObj errorResponse
	assertGet(t, ts.Server, "/audit/"+string(audit.ContentID([]byte("missing"))), &errObj, 404)
	assertGet(t, ts.Server, "/audit/0x1234", nil, 404)
}

func TestMux_getAuditIDVerify(t *testing.T) {
	ts := newTestServer(t)

	cards := []deck.Card{deck.King, deck.Joker}
	id, err := audit.PublishMove(context.Background(), ts.store, &audit.MoveRecord{
		LobbyUUID: "lobby",
		Turn:      3,
		PlayerID:  1,
		MoveHash:  commit.MoveHash(cards, "2 kings"),
		Cards:     cards,
		Claim:     "2 kings",
		Time:      time.Now(),
	})
	require.NoError(t, err)

	var v audit.Verification
	assertGet(t, ts.Server, "/audit/"+string(id)+"/verify", &v, 200)
	assert.Equal(t, id, v.ID)
	assert.True(t, v.HashValid)
	assert.True(t, v.IsLying)
	assert.Equal(t, cards, v.ActualCards)

	summary, err := audit.PublishSummary(context.Background(), ts.store, &audit.GameSummary{LobbyUUID: "lobby"})
	require.NoError(t, err)

	var errObj errorResponse
	assertGet(t, ts.Server, "/audit/"+string(summary)+"/verify", &errObj, 400)
	assert.Equal(t, audit.ErrInvalidRecord.Error(), errObj.Message)
}
