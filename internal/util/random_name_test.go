package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"liars-server/internal/rng"
)

type fixedGenerator int

func (f fixedGenerator) Intn(n int) int {
	return int(f) % n
}

func TestGetRandomName(t *testing.T) {
	orig := random
	defer func() { random = orig }()

	random = fixedGenerator(0)
	assert.Equal(t, "Sly Fox", GetRandomName())

	random = fixedGenerator(1)
	assert.Equal(t, "Crafty Cat", GetRandomName())

	random = rng.Crypto{}
	parts := strings.Split(GetRandomName(), " ")
	assert.Len(t, parts, 2)
	assert.Contains(t, adjectives, parts[0])
	assert.Contains(t, animals, parts[1])
}
