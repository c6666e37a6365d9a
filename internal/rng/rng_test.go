package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 1000; i++ {
		found[c.Intn(5)] = true
	}

	a.True(found[0])
	a.True(found[1])
	a.True(found[2])
	a.True(found[3])
	a.True(found[4])
	a.False(found[5])
}

func TestSeeded(t *testing.T) {
	a := assert.New(t)

	seed := []byte("0123456789abcdef")
	g1 := Seeded(seed)
	g2 := Seeded(seed)
	for i := 0; i < 50; i++ {
		a.Equal(g1.Intn(1000), g2.Intn(1000))
	}

	g3 := Seeded([]byte("fedcba9876543210"))
	g4 := Seeded(seed)
	same := true
	for i := 0; i < 50; i++ {
		if g3.Intn(1000) != g4.Intn(1000) {
			same = false
		}
	}

	a.False(same)

	// bytes past the first eight still change the sequence
	g5 := Seeded([]byte("01234567--------"))
	g6 := Seeded([]byte("01234567++++++++"))
	same = true
	for i := 0; i < 50; i++ {
		if g5.Intn(1000) != g6.Intn(1000) {
			same = false
		}
	}

	a.False(same)

	// short seeds are zero padded
	a.NotPanics(func() {
		Seeded(nil).Intn(10)
	})
}
