package lobby

import (
	"fmt"

	"liars-server/pkg/commit"
	"liars-server/pkg/deck"
)

// Status is where a participant stands in the game
type Status int

// Status constants
const (
	StatusActive Status = iota
	StatusEliminated
	StatusLeft
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusEliminated:
		return "eliminated"
	case StatusLeft:
		return "left"
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "active":
		*s = StatusActive
	case "eliminated":
		*s = StatusEliminated
	case "left":
		*s = StatusLeft
	default:
		return fmt.Errorf("unknown player status: %s", text)
	}

	return nil
}

// Participant is a player in the lobby
type Participant struct {
	PlayerID int64

	// seat is the join order position, fixed when the game starts
	seat       int
	stake      int
	roundsLost int
	status     Status

	keyHash       commit.Digest
	handRequested bool
	hand          deck.Hand
}

// NewParticipant returns a new participant
func NewParticipant(playerID int64, seat int) *Participant {
	return &Participant{
		PlayerID: playerID,
		seat:     seat,
		status:   StatusActive,
	}
}

// IsActive returns true if the participant has neither been eliminated nor left
func (p *Participant) IsActive() bool {
	return p.status == StatusActive
}

// Hand returns a copy of the dealt hand
func (p *Participant) Hand() deck.Hand {
	return p.hand.Clone()
}

func (p *Participant) hasKey() bool {
	return !p.keyHash.IsZero()
}
