package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClaim(t *testing.T) {
	a := assert.New(t)

	c, err := ParseClaim("2 Kings")
	a.NoError(err)
	a.Equal(Claim{Count: 2, Card: King}, c)
	a.Equal("2 Kings", c.String())

	c, err = ParseClaim("1 ace")
	a.NoError(err)
	a.Equal(Claim{Count: 1, Card: Ace}, c)
	a.Equal("1 Ace", c.String())

	c, err = ParseClaim("  3   QUEENS ")
	a.NoError(err)
	a.Equal(Claim{Count: 3, Card: Queen}, c)

	for _, bad := range []string{"", "Kings", "two Kings", "0 Kings", "21 Aces", "2 Jacks", "2 Kings please"} {
		_, err := ParseClaim(bad)
		a.Equal(ErrInvalidClaim, err, bad)
	}
}

func TestClaim_Matches(t *testing.T) {
	a := assert.New(t)

	twoKings := Claim{Count: 2, Card: King}
	a.True(twoKings.Matches([]Card{King, King}, false))
	a.False(twoKings.Matches([]Card{Queen, Queen}, false))
	a.False(twoKings.Matches([]Card{King}, false))
	a.False(twoKings.Matches([]Card{King, King, King}, false))
	a.False(twoKings.Matches([]Card{King, Joker}, false))
	a.True(twoKings.Matches([]Card{King, Joker}, true))

	twoJokers := Claim{Count: 2, Card: Joker}
	a.True(twoJokers.Matches([]Card{Joker, Joker}, false))
	a.False(twoJokers.Matches([]Card{Joker, Ace}, true))
}
