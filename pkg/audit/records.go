package audit

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"liars-server/pkg/commit"
	"liars-server/pkg/deck"
)

// ErrInvalidRecord is returned when a stored record does not decode to the expected kind
var ErrInvalidRecord = errors.New("audit record is not of the expected kind")

// record kinds
const (
	KindMove    = "move"
	KindSummary = "summary"
)

// MoveRecord is the public record of a revealed move
type MoveRecord struct {
	Kind          string        `json:"kind"`
	LobbyUUID     string        `json:"lobbyUuid"`
	GameReference string        `json:"gameReference"`
	Turn          int           `json:"turn"`
	PlayerID      int64         `json:"playerId"`
	MoveHash      commit.Digest `json:"moveHash"`
	Cards         []deck.Card   `json:"cards"`
	Claim         string        `json:"claim"`
	Salt          string        `json:"salt,omitempty"`
	JokersWild    bool          `json:"jokersWild"`
	Challenged    bool          `json:"challenged"`
	ChallengerID  int64         `json:"challengerId,omitempty"`
	Lying         bool          `json:"lying"`
	PenalizedID   int64         `json:"penalizedId,omitempty"`
	Time          time.Time     `json:"time"`
}

// PlayerSummary is a player's standing when the game ended
type PlayerSummary struct {
	PlayerID   int64  `json:"playerId"`
	RoundsLost int    `json:"roundsLost"`
	Status     string `json:"status"`
}

// GameSummary is the public record of a finished game
// DealSecret is hex encoded and lets anyone re-derive every hand and check it against
// the commitments published when the game started.
type GameSummary struct {
	Kind            string          `json:"kind"`
	LobbyUUID       string          `json:"lobbyUuid"`
	GameReference   string          `json:"gameReference"`
	WinnerID        int64           `json:"winnerId,omitempty"`
	Pot             int             `json:"pot"`
	Emergency       bool            `json:"emergency"`
	Players         []PlayerSummary `json:"players"`
	DealSecret      string          `json:"dealSecret,omitempty"`
	DealCommitment  commit.Digest   `json:"dealCommitment"`
	HandNonces      []commit.Digest `json:"handNonces,omitempty"`
	HandCommitments []commit.Digest `json:"handCommitments"`
	MoveIDs         []ID            `json:"moveIds"`
	Ended           time.Time       `json:"ended"`
}

// PublishMove stores a move record
func PublishMove(ctx context.Context, store Store, record *MoveRecord) (ID, error) {
	record.Kind = KindMove
	return publish(ctx, store, record)
}

// PublishSummary stores a game summary
func PublishSummary(ctx context.Context, store Store, summary *GameSummary) (ID, error) {
	summary.Kind = KindSummary
	return publish(ctx, store, summary)
}

func publish(ctx context.Context, store Store, v interface{}) (ID, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return store.Put(ctx, b)
}

// LoadMove returns the move record stored under the ID
func LoadMove(ctx context.Context, store Store, id ID) (*MoveRecord, error) {
	var record MoveRecord
	if err := load(ctx, store, id, &record); err != nil {
		return nil, err
	}

	if record.Kind != KindMove {
		return nil, ErrInvalidRecord
	}

	return &record, nil
}

// LoadSummary returns the game summary stored under the ID
func LoadSummary(ctx context.Context, store Store, id ID) (*GameSummary, error) {
	var summary GameSummary
	if err := load(ctx, store, id, &summary); err != nil {
		return nil, err
	}

	if summary.Kind != KindSummary {
		return nil, ErrInvalidRecord
	}

	return &summary, nil
}

func load(ctx context.Context, store Store, id ID, v interface{}) error {
	b, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	return nil
}

// Verification is the independent check of a stored move
type Verification struct {
	ID          ID          `json:"id"`
	PlayerID    int64       `json:"playerId"`
	Claim       string      `json:"claim"`
	ActualCards []deck.Card `json:"actualCards"`
	// HashValid is false if the cards and claim do not hash to the committed move
	HashValid bool `json:"hashValid"`
	IsLying   bool `json:"isLying"`
}

// VerifyMove recomputes whether the stored move was a lie
// The result does not trust the record's own lying flag.
func VerifyMove(ctx context.Context, store Store, id ID) (*Verification, error) {
	record, err := LoadMove(ctx, store, id)
	if err != nil {
		return nil, err
	}

	lying := true
	if claim, err := deck.ParseClaim(record.Claim); err == nil {
		lying = !claim.Matches(record.Cards, record.JokersWild)
	}

	return &Verification{
		ID:          id,
		PlayerID:    record.PlayerID,
		Claim:       record.Claim,
		ActualCards: record.Cards,
		HashValid:   commit.SaltedMoveHash(record.Cards, record.Claim, record.Salt).Equal(record.MoveHash),
		IsLying:     lying,
	}, nil
}

// VerifyDeal checks that the revealed deal secret reproduces the published commitments
func VerifyDeal(summary *GameSummary) error {
	if summary.DealSecret == "" {
		return errors.New("summary has no deal secret")
	}

	secret, err := hex.DecodeString(summary.DealSecret)
	if err != nil {
		return fmt.Errorf("could not decode deal secret: %w", err)
	}

	if !commit.DealCommitment(secret).Equal(summary.DealCommitment) {
		return errors.New("deal secret does not match its commitment")
	}

	n := len(summary.HandCommitments)
	hands, err := commit.Deal(secret, n)
	if err != nil {
		return err
	}

	nonces := commit.SlotNonces(secret, n)
	if summary.HandNonces != nil {
		if len(summary.HandNonces) != n {
			return errors.New("summary has the wrong number of hand nonces")
		}

		for i, nonce := range nonces {
			if !nonce.Equal(summary.HandNonces[i]) {
				return fmt.Errorf("hand nonce for seat %d does not match", i)
			}
		}
	}

	for i, expected := range commit.HandCommitments(summary.GameReference, nonces, hands) {
		if !expected.Equal(summary.HandCommitments[i]) {
			return fmt.Errorf("hand commitment for seat %d does not match", i)
		}
	}

	return nil
}
