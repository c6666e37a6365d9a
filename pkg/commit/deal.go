package commit

import (
	"liars-server/internal/rng"
	"liars-server/pkg/deck"
)

// Deal shuffles a fresh deck from the deal secret and cuts it into n hands in seat order
// Anyone holding the secret can reproduce the exact same hands.
func Deal(secret []byte, n int) ([]deck.Hand, error) {
	seed := ShuffleSeed(secret)

	d := deck.New()
	d.Shuffle(rng.Seeded(seed[:]))

	return d.Deal(n)
}

// SlotNonces returns the salt for every seat
func SlotNonces(secret []byte, n int) []Digest {
	nonces := make([]Digest, n)
	for i := range nonces {
		nonces[i] = SlotNonce(secret, i)
	}

	return nonces
}

// HandCommitments returns the commitment for every hand in seat order
func HandCommitments(gameReference string, nonces []Digest, hands []deck.Hand) []Digest {
	commitments := make([]Digest, len(hands))
	for i, hand := range hands {
		commitments[i] = HandCommitment(gameReference, i, nonces[i], hand)
	}

	return commitments
}
