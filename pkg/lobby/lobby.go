// Package lobby is the game engine of a single Liars lobby: admission, private card
// distribution, turn order, move commitment, challenges, penalties and settlement.
package lobby

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"liars-server/pkg/commit"
	"liars-server/pkg/deck"
	"liars-server/pkg/ledger"
	"liars-server/pkg/token"
)

// dealSecretSize is the number of random bytes the deal is shuffled from
const dealSecretSize = 32

// Lobby is a single game session
// Every exported method takes the lock, so commands are applied one at a time.
type Lobby struct {
	mu sync.Mutex

	uuid    string
	name    string
	owner   int64
	options Options
	created time.Time
	ended   time.Time

	ledger ledger.Ledger
	escrow ledger.Account

	logger  logrus.FieldLogger
	emitter Emitter
	outbox  []*Event

	// secretSource returns n random bytes
	secretSource func(n int) ([]byte, error)

	state State
	phase RoundPhase

	participants    []*Participant
	idToParticipant map[int64]*Participant
	currentTurn     int

	gameReference   string
	dealSecret      []byte
	dealCommitment  commit.Digest
	slots           []deck.Hand
	handNonces      []commit.Digest
	handCommitments []commit.Digest

	turn      int
	pending   *pendingMove
	lastMover int64

	forfeited   int
	winner      int64
	payout      int
	emergency   bool
	gameStateID string
}

// New returns a new lobby in the waiting state
// The owner is the lobby's referee. They do not take a seat unless they also join.
func New(logger logrus.FieldLogger, owner int64, name string, l ledger.Ledger, opts Options) (*Lobby, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if l == nil {
		return nil, errors.New("a ledger is required")
	}

	id := uuid.New().String()
	return &Lobby{
		uuid:            id,
		name:            name,
		owner:           owner,
		options:         opts,
		created:         time.Now(),
		ledger:          l,
		escrow:          ledger.EscrowAccount(id),
		logger:          logger.WithField("lobby", id),
		emitter:         nopEmitter{},
		secretSource:    token.Bytes,
		state:           StateWaiting,
		phase:           PhaseNone,
		participants:    make([]*Participant, 0, opts.MaxPlayers),
		idToParticipant: make(map[int64]*Participant),
	}, nil
}

// SetEmitter sets where events are sent
func (l *Lobby) SetEmitter(e Emitter) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e == nil {
		e = nopEmitter{}
	}

	l.emitter = e
}

// UUID returns the lobby's UUID
func (l *Lobby) UUID() string {
	return l.uuid
}

// Title returns the name the lobby was created with
func (l *Lobby) Title() string {
	return l.name
}

// Owner returns the player ID of the referee
func (l *Lobby) Owner() int64 {
	return l.owner
}

// Escrow returns the ledger account that holds the lobby's stakes
func (l *Lobby) Escrow() ledger.Account {
	return l.escrow
}

// State returns the lifecycle state
func (l *Lobby) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state
}

// Phase returns the round phase
func (l *Lobby) Phase() RoundPhase {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.phase
}

// IsDecided returns true if a game is in progress and a single active player remains
func (l *Lobby) IsDecided() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state == StateInGame && len(l.activeParticipants()) == 1
}

// Join adds a player to the lobby
func (l *Lobby) Join(playerID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if err := l.requireWaiting(); err != nil {
		return err
	}

	if _, found := l.idToParticipant[playerID]; found {
		return ErrAlreadyJoined
	}

	if len(l.participants) >= l.options.MaxPlayers {
		return ErrLobbyFull
	}

	p := NewParticipant(playerID, len(l.participants))
	l.participants = append(l.participants, p)
	l.idToParticipant[playerID] = p

	l.logger.WithField("player", playerID).Debug("player joined")
	l.emit(EventPlayerJoined, playerID, 0, nil, "{} joined the lobby")
	return nil
}

// Start deals the cards and moves the lobby into the distribution phase
// Only the referee may start the game.
func (l *Lobby) Start(caller int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if caller != l.owner {
		return ErrNotAuthorized
	}

	if err := l.requireWaiting(); err != nil {
		return err
	}

	n := len(l.participants)
	if n < l.options.MinPlayers {
		return PlayerCountError{
			Min: l.options.MinPlayers,
			Max: l.options.MaxPlayers,
			Got: n,
		}
	}

	gameReference, err := token.Generate(22)
	if err != nil {
		return err
	}

	secret, err := l.secretSource(dealSecretSize)
	if err != nil {
		return err
	}

	slots, err := commit.Deal(secret, n)
	if err != nil {
		return err
	}

	seats := make([]int64, n)
	for i, p := range l.participants {
		p.seat = i
		seats[i] = p.PlayerID
	}

	l.gameReference = gameReference
	l.dealSecret = secret
	l.dealCommitment = commit.DealCommitment(secret)
	l.slots = slots
	l.handNonces = commit.SlotNonces(secret, n)
	l.handCommitments = commit.HandCommitments(gameReference, l.handNonces, slots)
	l.state = StateInGame
	l.phase = PhaseDistribution
	l.currentTurn = 0

	l.logger.WithField("players", n).Debug("game started")
	l.emit(EventGameStarted, 0, 0, &GameStartedData{
		GameReference:   l.gameReference,
		DealCommitment:  l.dealCommitment,
		HandCommitments: append([]commit.Digest(nil), l.handCommitments...),
		Seats:           seats,
	}, "The game has started with %d players", n)

	return nil
}

// SetGameStateID records where the published summary of the game can be found
func (l *Lobby) SetGameStateID(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	l.gameStateID = id
	l.emit(EventGameStateUpdated, 0, 0, id, "The game record was published")
}

func (l *Lobby) requireWaiting() error {
	switch l.state {
	case StateInGame:
		return ErrGameStarted
	case StateEnded:
		return ErrGameOver
	}

	return nil
}

func (l *Lobby) requireInGame() error {
	switch l.state {
	case StateWaiting:
		return ErrGameNotStarted
	case StateEnded:
		return ErrGameOver
	}

	return nil
}

func (l *Lobby) requireGameplay() error {
	if err := l.requireInGame(); err != nil {
		return err
	}

	if l.phase != PhaseGameplay {
		return ErrWrongPhase
	}

	return nil
}

// activeParticipant returns the participant if they are still playing
func (l *Lobby) activeParticipant(playerID int64) (*Participant, error) {
	p, found := l.idToParticipant[playerID]
	if !found {
		return nil, ErrPlayerNotFound
	}

	if !p.IsActive() {
		return nil, ErrPlayerNotActive
	}

	return p, nil
}

// activeParticipants returns every active participant in join order
func (l *Lobby) activeParticipants() []*Participant {
	active := make([]*Participant, 0, len(l.participants))
	for _, p := range l.participants {
		if p.IsActive() {
			active = append(active, p)
		}
	}

	return active
}

// nextActive returns the seat of the next active participant after from
func (l *Lobby) nextActive(from int) (int, bool) {
	n := len(l.participants)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if l.participants[idx].IsActive() {
			return idx, true
		}
	}

	return from, false
}

// fixTurn moves the turn off a participant who is no longer active
func (l *Lobby) fixTurn() {
	if len(l.participants) == 0 || l.participants[l.currentTurn].IsActive() {
		return
	}

	if next, ok := l.nextActive(l.currentTurn); ok {
		l.currentTurn = next
	}
}

func (l *Lobby) currentPlayerID() int64 {
	if l.state != StateInGame || len(l.participants) == 0 {
		return 0
	}

	p := l.participants[l.currentTurn]
	if !p.IsActive() {
		return 0
	}

	return p.PlayerID
}

func (l *Lobby) removeParticipant(playerID int64) {
	participants := make([]*Participant, 0, len(l.participants))
	for _, p := range l.participants {
		if p.PlayerID != playerID {
			p.seat = len(participants)
			participants = append(participants, p)
		}
	}

	l.participants = participants
	delete(l.idToParticipant, playerID)
}
