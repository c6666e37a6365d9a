package lobby

import (
	"encoding/hex"
	"time"

	"liars-server/pkg/commit"
)

// PlayerDetails is the public view of a participant
type PlayerDetails struct {
	PlayerID      int64  `json:"playerId"`
	Seat          int    `json:"seat"`
	Stake         int    `json:"stake"`
	RoundsLost    int    `json:"roundsLost"`
	Status        Status `json:"status"`
	KeyRegistered bool   `json:"keyRegistered"`
	HandRequested bool   `json:"handRequested"`
	CardCount     int    `json:"cardCount"`
}

// PendingMoveDetails is the public view of the move waiting to be revealed or accepted
type PendingMoveDetails struct {
	Turn         int           `json:"turn"`
	Mover        int64         `json:"mover"`
	MoveHash     commit.Digest `json:"moveHash"`
	Challenged   bool          `json:"challenged"`
	ChallengerID int64         `json:"challengerId,omitempty"`
}

// Details is the public state of a lobby
// Hands are never part of it.
type Details struct {
	UUID             string              `json:"uuid"`
	Name             string              `json:"name"`
	Owner            int64               `json:"owner"`
	State            State               `json:"state"`
	Phase            RoundPhase          `json:"phase"`
	MinPlayers       int                 `json:"minPlayers"`
	MaxPlayers       int                 `json:"maxPlayers"`
	MaxStake         int                 `json:"maxStake"`
	PenaltyThreshold int                 `json:"penaltyThreshold"`
	JokersWild       bool                `json:"jokersWild"`
	Players          []*PlayerDetails    `json:"players"`
	CurrentTurn      int64               `json:"currentTurn,omitempty"`
	Turn             int                 `json:"turn"`
	LastMover        int64               `json:"lastMover,omitempty"`
	PendingMove      *PendingMoveDetails `json:"pendingMove,omitempty"`
	GameReference    string              `json:"gameReference,omitempty"`
	DealCommitment   *commit.Digest      `json:"dealCommitment,omitempty"`
	HandCommitments  []commit.Digest     `json:"handCommitments,omitempty"`
	Pot              int                 `json:"pot"`
	Winner           int64               `json:"winner,omitempty"`
	Payout           int                 `json:"payout,omitempty"`
	Emergency        bool                `json:"emergency,omitempty"`
	GameStateID      string              `json:"gameStateId,omitempty"`
	Created          time.Time           `json:"created"`
	Ended            *time.Time          `json:"ended,omitempty"`
}

// PlayerState is the state sent to a single client
type PlayerState struct {
	Lobby        *Details `json:"lobby"`
	PlayerID     int64    `json:"playerId"`
	IsReferee    bool     `json:"isReferee"`
	YourTurn     bool     `json:"yourTurn"`
	CanChallenge bool     `json:"canChallenge"`
}

// Summary is the final record of a game, including the deal secret
type Summary struct {
	LobbyUUID       string
	GameReference   string
	WinnerID        int64
	Pot             int
	Emergency       bool
	Players         []*PlayerDetails
	DealSecret      string
	DealCommitment  commit.Digest
	HandNonces      []commit.Digest
	HandCommitments []commit.Digest
	Ended           time.Time
}

// GetDetails returns the public state of the lobby
func (l *Lobby) GetDetails() *Details {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.details()
}

func (l *Lobby) details() *Details {
	d := &Details{
		UUID:             l.uuid,
		Name:             l.name,
		Owner:            l.owner,
		State:            l.state,
		Phase:            l.phase,
		MinPlayers:       l.options.MinPlayers,
		MaxPlayers:       l.options.MaxPlayers,
		MaxStake:         l.options.MaxStake,
		PenaltyThreshold: l.options.PenaltyThreshold,
		JokersWild:       l.options.JokersWild,
		Players:          l.playerDetails(),
		CurrentTurn:      l.currentPlayerID(),
		Turn:             l.turn,
		LastMover:        l.lastMover,
		GameReference:    l.gameReference,
		Pot:              l.pot(),
		Winner:           l.winner,
		Payout:           l.payout,
		Emergency:        l.emergency,
		GameStateID:      l.gameStateID,
		Created:          l.created,
	}

	if l.pending != nil {
		d.PendingMove = &PendingMoveDetails{
			Turn:         l.pending.Turn,
			Mover:        l.pending.Mover,
			MoveHash:     l.pending.Hash,
			Challenged:   l.pending.Challenged,
			ChallengerID: l.pending.Challenger,
		}
	}

	if l.state != StateWaiting {
		dealCommitment := l.dealCommitment
		d.DealCommitment = &dealCommitment
		d.HandCommitments = append([]commit.Digest(nil), l.handCommitments...)
	}

	if !l.ended.IsZero() {
		ended := l.ended
		d.Ended = &ended
	}

	return d
}

func (l *Lobby) playerDetails() []*PlayerDetails {
	players := make([]*PlayerDetails, len(l.participants))
	for i, p := range l.participants {
		players[i] = &PlayerDetails{
			PlayerID:      p.PlayerID,
			Seat:          p.seat,
			Stake:         p.stake,
			RoundsLost:    p.roundsLost,
			Status:        p.status,
			KeyRegistered: p.hasKey(),
			HandRequested: p.handRequested,
			CardCount:     len(p.hand),
		}
	}

	return players
}

// Summary returns the final record of the game
// The second value is false until the game has ended.
func (l *Lobby) Summary() (*Summary, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateEnded {
		return nil, false
	}

	s := &Summary{
		LobbyUUID:       l.uuid,
		GameReference:   l.gameReference,
		WinnerID:        l.winner,
		Pot:             l.payout,
		Emergency:       l.emergency,
		Players:         l.playerDetails(),
		DealCommitment:  l.dealCommitment,
		HandNonces:      append([]commit.Digest(nil), l.handNonces...),
		HandCommitments: append([]commit.Digest(nil), l.handCommitments...),
		Ended:           l.ended,
	}

	if l.dealSecret != nil {
		s.DealSecret = hex.EncodeToString(l.dealSecret)
	}

	return s, true
}
