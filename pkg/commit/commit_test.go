package commit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"liars-server/pkg/deck"
)

func TestHash(t *testing.T) {
	// keccak256 of the empty string
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", Hash(nil).String())
	assert.Equal(t, "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45", Hash([]byte("abc")).String())
}

func TestKeyHash(t *testing.T) {
	secret := []byte("my secret")
	d := KeyHash(secret)

	assert.True(t, d.Matches(secret))
	assert.False(t, d.Matches([]byte("not my secret")))
	assert.False(t, d.IsZero())
	assert.True(t, Digest{}.IsZero())
}

func TestMoveHash(t *testing.T) {
	a := assert.New(t)

	kings := []deck.Card{deck.King, deck.King}
	d := MoveHash(kings, "2 Kings")

	a.Equal(Hash([]byte("king,king\x1f2 Kings")), d)
	a.True(d.Equal(MoveHash(kings, "2 Kings")))
	a.False(d.Equal(MoveHash(kings, "2 Queens")))
	a.False(d.Equal(MoveHash([]deck.Card{deck.Queen, deck.Queen}, "2 Kings")))
	a.False(d.Equal(MoveHash([]deck.Card{deck.King}, "2 Kings")))
}

func TestSaltedMoveHash(t *testing.T) {
	a := assert.New(t)

	kings := []deck.Card{deck.King, deck.King}
	a.Equal(MoveHash(kings, "2 Kings"), SaltedMoveHash(kings, "2 Kings", ""))

	d := SaltedMoveHash(kings, "2 Kings", "pepper")
	a.Equal(Hash([]byte("king,king\x1f2 Kings\x1fpepper")), d)
	a.NotEqual(MoveHash(kings, "2 Kings"), d)
	a.NotEqual(SaltedMoveHash(kings, "2 Kings", "salt"), d)
}

func TestHandCommitment(t *testing.T) {
	hand := deck.Hand{deck.Ace, deck.Joker}
	nonce := SlotNonce([]byte("secret"), 1)
	d := HandCommitment("ref", 1, nonce, hand)

	assert.Equal(t, Hash([]byte("ref\x1f1\x1f"+nonce.String()+"\x1face,joker")), d)
	assert.NotEqual(t, d, HandCommitment("ref", 0, nonce, hand))
	assert.NotEqual(t, d, HandCommitment("other", 1, nonce, hand))
	assert.NotEqual(t, d, HandCommitment("ref", 1, SlotNonce([]byte("other secret"), 1), hand))
}

func TestDealCommitment(t *testing.T) {
	a := assert.New(t)

	secret := []byte("deal secret")
	commitment := DealCommitment(secret)
	seed := ShuffleSeed(secret)

	a.NotEqual(commitment, seed)
	a.NotEqual(commitment, KeyHash(secret))
	a.NotEqual(seed, KeyHash(secret))
	a.Equal(commitment, DealCommitment(secret))
	a.NotEqual(SlotNonce(secret, 0), SlotNonce(secret, 1))
}

func TestParse(t *testing.T) {
	a := assert.New(t)

	d := Hash([]byte("abc"))
	parsed, err := Parse(d.String())
	a.NoError(err)
	a.Equal(d, parsed)

	for _, bad := range []string{"", "0x", "abcd", "0x1234", "0xzz" + d.String()[4:], d.String()[2:]} {
		_, err := Parse(bad)
		a.Equal(ErrInvalidDigest, err, bad)
	}
}

func TestDigest_JSON(t *testing.T) {
	type payload struct {
		Hash Digest `json:"hash"`
	}

	d := Hash([]byte("abc"))
	b, err := json.Marshal(payload{Hash: d})
	assert.NoError(t, err)
	assert.Equal(t, `{"hash":"`+d.String()+`"}`, string(b))

	var p payload
	assert.NoError(t, json.Unmarshal(b, &p))
	assert.Equal(t, d, p.Hash)

	assert.Error(t, json.Unmarshal([]byte(`{"hash":"nope"}`), &p))
}
