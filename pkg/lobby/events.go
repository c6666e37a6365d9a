package lobby

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"liars-server/pkg/commit"
)

// EventType names something that happened in a lobby
type EventType string

// event types
const (
	EventPlayerJoined        EventType = "playerJoined"
	EventPlayerLeft          EventType = "playerLeft"
	EventPlayerDefeated      EventType = "playerDefeated"
	EventPlayerEliminated    EventType = "playerEliminated"
	EventGameStarted         EventType = "gameStarted"
	EventStakeDeposited      EventType = "stakeDeposited"
	EventKeyRegistered       EventType = "keyRegistered"
	EventHandDealt           EventType = "handDealt"
	EventRoundPhaseAdvanced  EventType = "roundPhaseAdvanced"
	EventMoveSubmitted       EventType = "moveSubmitted"
	EventMoveAccepted        EventType = "moveAccepted"
	EventMoveChallenged      EventType = "moveChallenged"
	EventMoveRevealed        EventType = "moveRevealed"
	EventPenaltyApplied      EventType = "penaltyApplied"
	EventRewardsDistributed  EventType = "rewardsDistributed"
	EventEmergencyWithdrawal EventType = "emergencyWithdrawal"
	EventForfeitsSwept       EventType = "forfeitsSwept"
	EventGameStateUpdated    EventType = "gameStateUpdated"
)

// Event is emitted after a command changed the lobby
// Message uses {} as a placeholder for the player's name, like playable log messages.
type Event struct {
	UUID      string      `json:"uuid"`
	LobbyUUID string      `json:"lobbyUuid"`
	Type      EventType   `json:"type"`
	PlayerID  int64       `json:"playerId,omitempty"`
	Amount    int         `json:"amount,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message"`
	Time      time.Time   `json:"time"`
}

// GameStartedData is the payload of EventGameStarted
type GameStartedData struct {
	GameReference   string          `json:"gameReference"`
	DealCommitment  commit.Digest   `json:"dealCommitment"`
	HandCommitments []commit.Digest `json:"handCommitments"`
	Seats           []int64         `json:"seats"`
}

// MoveData is the payload of EventMoveSubmitted, EventMoveAccepted and EventMoveChallenged
type MoveData struct {
	Turn         int           `json:"turn"`
	Mover        int64         `json:"mover"`
	MoveHash     commit.Digest `json:"moveHash"`
	ChallengerID int64         `json:"challengerId,omitempty"`
}

// PenaltyData is the payload of EventPenaltyApplied
type PenaltyData struct {
	RoundsLost int `json:"roundsLost"`
	Threshold  int `json:"threshold"`
}

// PhaseData is the payload of EventRoundPhaseAdvanced
type PhaseData struct {
	Phase       RoundPhase `json:"phase"`
	CurrentTurn int64      `json:"currentTurn"`
}

// Refund is one stake returned by an emergency withdrawal
type Refund struct {
	PlayerID int64 `json:"playerId"`
	Amount   int   `json:"amount"`
}

// Emitter receives the events of a lobby
// Emit is called while the lobby is locked and must not call back into the lobby.
type Emitter interface {
	Emit(events ...*Event)
}

// EmitterFunc adapts a func to an Emitter
type EmitterFunc func(events ...*Event)

// Emit calls f
func (f EmitterFunc) Emit(events ...*Event) {
	f(events...)
}

type nopEmitter struct{}

func (nopEmitter) Emit(...*Event) {}

// Recorder is an Emitter that keeps every event
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

// Emit records the events
func (r *Recorder) Emit(events ...*Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, events...)
}

// Events returns the recorded events
func (r *Recorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]*Event, len(r.events))
	copy(events, r.events)
	return events
}

// Types returns the type of every recorded event in order
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}

	return types
}

// Last returns the most recent event of the type, or nil
func (r *Recorder) Last(eventType EventType) *Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == eventType {
			return r.events[i]
		}
	}

	return nil
}

// Reset forgets the recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
}

func (l *Lobby) emit(eventType EventType, playerID int64, amount int, data interface{}, format string, a ...interface{}) {
	l.outbox = append(l.outbox, &Event{
		UUID:      uuid.New().String(),
		LobbyUUID: l.uuid,
		Type:      eventType,
		PlayerID:  playerID,
		Amount:    amount,
		Data:      data,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	})
}

// flush hands the queued events to the emitter
// Called with the lock held, after the command has fully applied.
func (l *Lobby) flush() {
	if len(l.outbox) == 0 {
		return
	}

	events := l.outbox
	l.outbox = nil
	l.emitter.Emit(events...)
}
