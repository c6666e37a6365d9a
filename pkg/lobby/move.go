package lobby

import (
	"liars-server/pkg/commit"
	"liars-server/pkg/deck"
)

// pendingMove is the last submitted move that has not been revealed or accepted
type pendingMove struct {
	Turn       int
	Mover      int64
	Hash       commit.Digest
	Challenged bool
	Challenger int64
}

func (p *pendingMove) data() *MoveData {
	return &MoveData{
		Turn:         p.Turn,
		Mover:        p.Mover,
		MoveHash:     p.Hash,
		ChallengerID: p.Challenger,
	}
}

// RevealResult is the outcome of a revealed move
type RevealResult struct {
	Turn         int           `json:"turn"`
	Mover        int64         `json:"mover"`
	MoveHash     commit.Digest `json:"moveHash"`
	Cards        []deck.Card   `json:"cards"`
	Claim        string        `json:"claim"`
	Salt         string        `json:"salt,omitempty"`
	JokersWild   bool          `json:"jokersWild"`
	Challenged   bool          `json:"challenged"`
	ChallengerID int64         `json:"challengerId,omitempty"`
	// InvalidClaim is set when the committed claim could not be parsed; it counts as a lie
	InvalidClaim bool  `json:"invalidClaim"`
	Lying        bool  `json:"lying"`
	PenalizedID  int64 `json:"penalizedId,omitempty"`
	Eliminated   bool  `json:"eliminated"`
}

// SubmitMove commits the current player to the cards they played and their claim
// A previous move that nobody challenged is accepted as is.
func (l *Lobby) SubmitMove(playerID int64, moveHash commit.Digest) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if err := l.requireGameplay(); err != nil {
		return err
	}

	if _, err := l.activeParticipant(playerID); err != nil {
		return err
	}

	if l.currentPlayerID() != playerID {
		return ErrNotYourTurn
	}

	if moveHash.IsZero() {
		return ErrInvalidMoveHash
	}

	if l.pending != nil {
		if l.pending.Challenged {
			return ErrChallengeUnresolved
		}

		l.emit(EventMoveAccepted, l.pending.Mover, 0, l.pending.data(), "{}'s move stands")
	}

	l.turn++
	l.pending = &pendingMove{
		Turn:  l.turn,
		Mover: playerID,
		Hash:  moveHash,
	}
	l.lastMover = playerID

	if next, ok := l.nextActive(l.currentTurn); ok {
		l.currentTurn = next
	}

	l.logger.WithField("player", playerID).WithField("turn", l.turn).Debug("move submitted")
	l.emit(EventMoveSubmitted, playerID, 0, l.pending.data(), "{} played their cards")
	return nil
}

// Challenge calls the pending move a lie
func (l *Lobby) Challenge(playerID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if err := l.requireGameplay(); err != nil {
		return err
	}

	if _, err := l.activeParticipant(playerID); err != nil {
		return err
	}

	if l.pending == nil {
		return ErrNoPendingMove
	}

	if l.pending.Mover == playerID {
		return ErrSelfChallenge
	}

	if l.pending.Challenged {
		return ErrAlreadyChallenged
	}

	l.pending.Challenged = true
	l.pending.Challenger = playerID

	l.logger.WithField("player", playerID).WithField("turn", l.pending.Turn).Debug("move challenged")
	l.emit(EventMoveChallenged, playerID, 0, l.pending.data(), "{} called the last move a lie")
	return nil
}

// Reveal opens the pending move and settles any challenge against it
// The mover or the referee may reveal. A truthful move penalizes its challenger;
// a lie penalizes the mover only when challenged.
func (l *Lobby) Reveal(callerID int64, cards []deck.Card, claim string) (*RevealResult, error) {
	return l.RevealSalted(callerID, cards, claim, "")
}

// RevealSalted opens a pending move that was committed with commit.SaltedMoveHash
func (l *Lobby) RevealSalted(callerID int64, cards []deck.Card, claim, salt string) (*RevealResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if err := l.requireGameplay(); err != nil {
		return nil, err
	}

	if l.pending == nil {
		return nil, ErrNoPendingMove
	}

	if callerID != l.pending.Mover && callerID != l.owner {
		return nil, ErrNotAuthorized
	}

	if !commit.SaltedMoveHash(cards, claim, salt).Equal(l.pending.Hash) {
		return nil, ErrHashMismatch
	}

	move := l.pending
	result := &RevealResult{
		Turn:         move.Turn,
		Mover:        move.Mover,
		MoveHash:     move.Hash,
		Cards:        append([]deck.Card(nil), cards...),
		Claim:        claim,
		Salt:         salt,
		JokersWild:   l.options.JokersWild,
		Challenged:   move.Challenged,
		ChallengerID: move.Challenger,
	}

	parsed, err := deck.ParseClaim(claim)
	if err != nil {
		result.InvalidClaim = true
		result.Lying = true
	} else {
		result.Lying = !parsed.Matches(cards, l.options.JokersWild)
	}

	if move.Challenged {
		if result.Lying {
			result.PenalizedID = move.Mover
		} else {
			result.PenalizedID = move.Challenger
		}
	}

	l.pending = nil

	l.logger.WithField("turn", move.Turn).WithField("lying", result.Lying).Debug("move revealed")
	if result.Lying {
		l.emit(EventMoveRevealed, move.Mover, 0, result, "{} revealed %s: it was a lie", deck.CardsToString(cards))
	} else {
		l.emit(EventMoveRevealed, move.Mover, 0, result, "{} revealed %s: it was the truth", deck.CardsToString(cards))
	}

	if result.PenalizedID != 0 {
		result.Eliminated = l.penalize(result.PenalizedID)
	}

	return result, nil
}
