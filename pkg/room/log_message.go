package room

import (
	"liars-server/pkg/lobby"
	"liars-server/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages keeps the most recent log messages for clients that connect late
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

func logMessageForEvent(event *lobby.Event) *playable.LogMessage {
	msg := playable.SimpleLogMessage(event.PlayerID, "%s", event.Message)
	msg.UUID = event.UUID
	msg.Time = event.Time

	if result, ok := event.Data.(*lobby.RevealResult); ok {
		msg.Cards = result.Cards
	}

	return msg
}
