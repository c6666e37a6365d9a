package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liars-server/internal/config"
)

func Test_lobbyOptions(t *testing.T) {
	opts := lobbyOptions(config.DefaultConfig().Lobby)
	assert.NoError(t, opts.Validate())
	assert.Equal(t, 2, opts.MinPlayers)
	assert.Equal(t, 4, opts.MaxPlayers)
	assert.Equal(t, 1000, opts.MaxStake)
	assert.Equal(t, 6, opts.PenaltyThreshold)
	assert.False(t, opts.JokersWild)
}
