package lobby

import (
	"liars-server/pkg/commit"
	"liars-server/pkg/deck"
)

// RegisterKey records the hash of the secret that will unlock the player's hand
func (l *Lobby) RegisterKey(playerID int64, keyHash commit.Digest) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if err := l.requireInGame(); err != nil {
		return err
	}

	p, err := l.activeParticipant(playerID)
	if err != nil {
		return err
	}

	if keyHash.IsZero() {
		return ErrInvalidKeyHash
	}

	if p.hasKey() {
		return ErrKeyAlreadyRegistered
	}

	p.keyHash = keyHash

	l.logger.WithField("player", playerID).Debug("key registered")
	l.emit(EventKeyRegistered, playerID, 0, nil, "{} registered a key")
	return nil
}

// RequestHand unlocks the player's seat with their secret
// The request that completes distribution for every active player moves the game into gameplay.
func (l *Lobby) RequestHand(playerID int64, secret []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if err := l.requireInGame(); err != nil {
		return err
	}

	p, err := l.activeParticipant(playerID)
	if err != nil {
		return err
	}

	if !p.hasKey() {
		return ErrNotRegistered
	}

	if p.handRequested {
		return ErrAlreadyRequested
	}

	if !p.keyHash.Matches(secret) {
		return ErrSecretMismatch
	}

	p.hand = l.slots[p.seat].Clone()
	p.handRequested = true

	l.logger.WithField("player", playerID).Debug("hand requested")
	l.emit(EventHandDealt, playerID, 0, nil, "{} was dealt %d cards", len(p.hand))
	l.checkDistributionComplete()
	return nil
}

// OpenedHand is a player's hand along with what they need to check it against the
// commitment published when the game started
type OpenedHand struct {
	Cards      deck.Hand     `json:"cards"`
	Seat       int           `json:"seat"`
	Nonce      commit.Digest `json:"nonce"`
	Commitment commit.Digest `json:"commitment"`
}

// ReadHand returns a player's hand
// Only the player themselves can read it, and only with the secret behind their registered key.
// Any other caller gets ErrSecretMismatch, whatever the state of the player's seat.
func (l *Lobby) ReadHand(callerID, playerID int64, secret []byte) (*OpenedHand, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateWaiting {
		return nil, ErrGameNotStarted
	}

	if callerID != playerID {
		return nil, ErrSecretMismatch
	}

	p, found := l.idToParticipant[playerID]
	if !found {
		return nil, ErrPlayerNotFound
	}

	if !p.hasKey() {
		return nil, ErrNotRegistered
	}

	if !p.keyHash.Matches(secret) {
		return nil, ErrSecretMismatch
	}

	if !p.handRequested {
		return nil, ErrHandNotRequested
	}

	return &OpenedHand{
		Cards:      p.Hand(),
		Seat:       p.seat,
		Nonce:      l.handNonces[p.seat],
		Commitment: l.handCommitments[p.seat],
	}, nil
}

// checkDistributionComplete advances to gameplay once every active player holds a hand
func (l *Lobby) checkDistributionComplete() {
	if l.state != StateInGame || l.phase != PhaseDistribution {
		return
	}

	for _, p := range l.activeParticipants() {
		if !p.handRequested {
			return
		}
	}

	l.phase = PhaseGameplay
	l.fixTurn()

	l.logger.Debug("distribution complete")
	l.emit(EventRoundPhaseAdvanced, 0, 0, &PhaseData{
		Phase:       l.phase,
		CurrentTurn: l.currentPlayerID(),
	}, "Every player has their cards")
}
