package lobby

import "fmt"

// maxSeats is the most players a 20 card deck can be split between with two cards each
const maxSeats = 10

// Options are options for creating a new lobby
type Options struct {
	MinPlayers       int  // Default: 2
	MaxPlayers       int  // Default: 4
	MaxStake         int  // Default: 1000, per player
	PenaltyThreshold int  // Default: 6, rounds lost before elimination
	JokersWild       bool // Default: false
}

// DefaultOptions returns the default options for a lobby
func DefaultOptions() Options {
	return Options{
		MinPlayers:       2,
		MaxPlayers:       4,
		MaxStake:         1000,
		PenaltyThreshold: 6,
	}
}

// Validate returns an error if the options cannot be used
func (o Options) Validate() error {
	if o.MinPlayers < 2 || o.MaxPlayers > maxSeats || o.MinPlayers > o.MaxPlayers {
		return fmt.Errorf("%w: players must be between 2 and %d, got %d–%d", ErrInvalidOptions, maxSeats, o.MinPlayers, o.MaxPlayers)
	}

	if o.MaxStake <= 0 {
		return fmt.Errorf("%w: max stake must be greater than zero", ErrInvalidOptions)
	}

	if o.PenaltyThreshold <= 0 {
		return fmt.Errorf("%w: penalty threshold must be greater than zero", ErrInvalidOptions)
	}

	return nil
}
