package lobby

import (
	"errors"
	"fmt"
)

// ErrLobbyFull is returned when a player joins a lobby that has no seats left
var ErrLobbyFull = errors.New("lobby is full")

// ErrAlreadyJoined is returned when a player joins a lobby twice
var ErrAlreadyJoined = errors.New("player already in lobby")

// ErrGameStarted is returned when an action is only allowed before the game starts
var ErrGameStarted = errors.New("game already started")

// ErrGameNotStarted is returned when an action requires a game in progress
var ErrGameNotStarted = errors.New("game has not started")

// ErrGameOver is returned when an action is attempted on an ended game
var ErrGameOver = errors.New("game is over")

// ErrGameNotActive is returned when stakes are moved after the game ended
var ErrGameNotActive = errors.New("game is not active")

// ErrPlayerNotFound is returned when a player is not in the lobby
var ErrPlayerNotFound = errors.New("player not found")

// ErrPlayerNotActive is returned when an eliminated player or one who left tries to act
var ErrPlayerNotActive = errors.New("player is no longer in the game")

// ErrNotAuthorized is returned when a player calls a referee-only action
var ErrNotAuthorized = errors.New("only the referee can do that")

// ErrWrongPhase is returned when an action is attempted in the wrong round phase
var ErrWrongPhase = errors.New("not allowed in the current phase")

// ErrNotYourTurn is returned when a player submits a move out of turn
var ErrNotYourTurn = errors.New("it is not your turn")

// ErrKeyAlreadyRegistered is returned when a player registers a second key
var ErrKeyAlreadyRegistered = errors.New("key already registered")

// ErrNotRegistered is returned when a player requests a hand without a registered key
var ErrNotRegistered = errors.New("no key registered")

// ErrAlreadyRequested is returned when a player requests their hand twice
var ErrAlreadyRequested = errors.New("hand already requested")

// ErrHandNotRequested is returned when a player reads a hand they have not requested
var ErrHandNotRequested = errors.New("hand has not been requested")

// ErrSecretMismatch is returned when a secret does not match the registered key
var ErrSecretMismatch = errors.New("secret does not match the registered key")

// ErrInvalidKeyHash is returned when an empty key hash is registered
var ErrInvalidKeyHash = errors.New("invalid key hash")

// ErrInvalidMoveHash is returned when an empty move hash is submitted
var ErrInvalidMoveHash = errors.New("invalid move hash")

// ErrChallengeUnresolved is returned when a move is submitted before a challenged move is revealed
var ErrChallengeUnresolved = errors.New("the challenged move must be revealed first")

// ErrNoPendingMove is returned when there is no move to challenge or reveal
var ErrNoPendingMove = errors.New("no pending move")

// ErrSelfChallenge is returned when a player challenges their own move
var ErrSelfChallenge = errors.New("cannot challenge your own move")

// ErrAlreadyChallenged is returned when a move is challenged twice
var ErrAlreadyChallenged = errors.New("move already challenged")

// ErrHashMismatch is returned when revealed cards and claim do not match the committed move
var ErrHashMismatch = errors.New("revealed move does not match the submitted hash")

// ErrGameNotDecided is returned when a non-referee settles while several players remain
var ErrGameNotDecided = errors.New("more than one player remains")

// ErrNoEligibleWinner is returned when nobody is left to receive the pot
var ErrNoEligibleWinner = errors.New("no active player can receive the pot")

// ErrInvalidAmount is returned when a deposit is not positive
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ErrExceedsMaxStake is returned when a deposit would take a stake over the limit
var ErrExceedsMaxStake = errors.New("stake exceeds maximum limit")

// ErrInvalidOptions is returned when lobby options are out of range
var ErrInvalidOptions = errors.New("invalid lobby options")

// PlayerCountError is an error on the number of players in the lobby
type PlayerCountError struct {
	Min int
	Max int
	Got int
}

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected %d–%d players, got %d", p.Min, p.Max, p.Got)
}

// StakeLimitError is returned when a deposit would take a stake over the limit
type StakeLimitError struct {
	Max     int
	Current int
	Amount  int
}

func (s StakeLimitError) Error() string {
	return fmt.Sprintf("%v: %d + %d > %d", ErrExceedsMaxStake, s.Current, s.Amount, s.Max)
}

// Is allows errors.Is(err, ErrExceedsMaxStake)
func (s StakeLimitError) Is(target error) bool {
	return target == ErrExceedsMaxStake
}
