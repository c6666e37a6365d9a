package deck

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidClaim is returned when a claim string cannot be parsed
var ErrInvalidClaim = errors.New("claim must be in the form <count> <card>")

// Claim is what a player announces about the cards they played
type Claim struct {
	Count int  `json:"count"`
	Card  Card `json:"card"`
}

var claimRx = regexp.MustCompile(`^\s*([0-9]+)\s+(\S+)\s*\z`)

// ParseClaim parses a claim such as "2 Kings" or "1 ace"
func ParseClaim(s string) (Claim, error) {
	match := claimRx.FindStringSubmatch(s)
	if match == nil {
		return Claim{}, ErrInvalidClaim
	}

	count, err := strconv.Atoi(match[1])
	if err != nil || count <= 0 || count > Size {
		return Claim{}, ErrInvalidClaim
	}

	card, err := ParseCard(match[2])
	if err != nil {
		return Claim{}, ErrInvalidClaim
	}

	return Claim{Count: count, Card: card}, nil
}

func (c Claim) String() string {
	if c.Count == 1 {
		return fmt.Sprintf("1 %s", c.Card.Name())
	}

	return fmt.Sprintf("%d %s", c.Count, c.Card.Plural())
}

// Matches returns true if the played cards are exactly what the claim announces
// When jokersWild is set, a joker stands in for any claimed type.
func (c Claim) Matches(played []Card, jokersWild bool) bool {
	if len(played) != c.Count {
		return false
	}

	for _, card := range played {
		if card == c.Card {
			continue
		}

		if jokersWild && card == Joker {
			continue
		}

		return false
	}

	return true
}
