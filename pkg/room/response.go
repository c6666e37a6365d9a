package room

import (
	"liars-server/pkg/lobby"
	"liars-server/pkg/playable"
)

// UserError is an error whose message is safe to show to a player
type UserError string

func (u UserError) Error() string {
	return string(u)
}

type clientStatePlayer struct {
	PlayerID    int64 `json:"playerId"`
	IsConnected bool  `json:"isConnected"`
	IsSeated    bool  `json:"isSeated"`
}

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

func newEventResponse(event *lobby.Event) *playable.Response {
	return &playable.Response{
		Key:   "event",
		Value: string(event.Type),
		Data:  event,
	}
}
