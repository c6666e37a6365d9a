package lobby

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Text(t *testing.T) {
	type wrapper struct {
		State  State      `json:"state"`
		Phase  RoundPhase `json:"phase"`
		Status Status     `json:"status"`
	}

	b, err := json.Marshal(wrapper{StateInGame, PhaseGameplay, StatusEliminated})
	assert.NoError(t, err)
	assert.Equal(t, `{"state":"inGame","phase":"gameplay","status":"eliminated"}`, string(b))

	var w wrapper
	assert.NoError(t, json.Unmarshal(b, &w))
	assert.Equal(t, StateInGame, w.State)
	assert.Equal(t, PhaseGameplay, w.Phase)
	assert.Equal(t, StatusEliminated, w.Status)

	assert.EqualError(t, json.Unmarshal([]byte(`{"state":"paused"}`), &w), "unknown lobby state: paused")
	assert.Error(t, json.Unmarshal([]byte(`{"phase":"bidding"}`), &w))
	assert.Error(t, json.Unmarshal([]byte(`{"status":"asleep"}`), &w))
}
