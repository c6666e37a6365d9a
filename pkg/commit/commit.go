// Package commit provides the hash commitments used to lock in secrets, moves and deals
// before they are revealed.
package commit

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	"liars-server/pkg/deck"
)

// separator sits between the fields of a committed message
const separator = 0x1f

// ErrInvalidDigest is returned when a digest cannot be parsed
var ErrInvalidDigest = errors.New("digest must be 32 bytes of 0x-prefixed hex")

// Digest is a Keccak-256 hash
type Digest [32]byte

// Hash returns the Keccak-256 digest of data
func Hash(data []byte) Digest {
	var d Digest
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	h.Sum(d[:0])

	return d
}

// Join concatenates the fields with the separator byte
func Join(fields ...string) []byte {
	return []byte(strings.Join(fields, string(rune(separator))))
}

// KeyHash returns the commitment a player registers for their secret
func KeyHash(secret []byte) Digest {
	return Hash(secret)
}

// MoveHash returns the commitment for the cards played and the claim made about them
// The cards are encoded as their canonical names, comma separated, in the order they were played.
func MoveHash(cards []deck.Card, claim string) Digest {
	return Hash(Join(deck.CardsToString(cards), claim))
}

// SaltedMoveHash returns the move commitment with a salt appended
// Without a salt the few possible moves can be enumerated from the hash alone. An empty salt
// gives the same digest as MoveHash.
func SaltedMoveHash(cards []deck.Card, claim, salt string) Digest {
	if salt == "" {
		return MoveHash(cards, claim)
	}

	return Hash(Join(deck.CardsToString(cards), claim, salt))
}

// DealCommitment returns the public commitment to the deal secret
// It is domain separated from the shuffle seed, so publishing it reveals nothing about the deal.
func DealCommitment(secret []byte) Digest {
	return Hash(Join("deal", string(secret)))
}

// ShuffleSeed returns the seed the deck is shuffled from
func ShuffleSeed(secret []byte) Digest {
	return Hash(Join("shuffle", string(secret)))
}

// SlotNonce returns the salt for the commitment of the hand dealt to a seat
// Only the seat's owner learns it before the deal secret is revealed.
func SlotNonce(secret []byte, slot int) Digest {
	return Hash(Join("slot", strconv.Itoa(slot), string(secret)))
}

// HandCommitment returns the salted commitment for the hand dealt to a seat
func HandCommitment(gameReference string, slot int, nonce Digest, hand deck.Hand) Digest {
	return Hash(Join(gameReference, strconv.Itoa(slot), nonce.String(), hand.String()))
}

// Parse parses a 0x-prefixed hex digest
func Parse(s string) (Digest, error) {
	var d Digest
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return d, ErrInvalidDigest
	}

	b, err := hex.DecodeString(s[2:])
	if err != nil || len(b) != len(d) {
		return d, ErrInvalidDigest
	}

	copy(d[:], b)
	return d, nil
}

func (d Digest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}

// IsZero returns true if the digest was never set
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Equal compares two digests in constant time
func (d Digest) Equal(other Digest) bool {
	return subtle.ConstantTimeCompare(d[:], other[:]) == 1
}

// Matches returns true if data hashes to the digest
func (d Digest) Matches(data []byte) bool {
	return d.Equal(Hash(data))
}

// MarshalText implements encoding.TextMarshaler
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
