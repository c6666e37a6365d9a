package deck

import (
	"fmt"
	"regexp"
	"strings"
)

// Card is one of the four card types in a Liars deck
type Card string

// card constants
const (
	Ace   Card = "ace"
	King  Card = "king"
	Queen Card = "queen"
	Joker Card = "joker"
)

// Types returns every card type in deck order
func Types() []Card {
	return []Card{Ace, King, Queen, Joker}
}

// Valid returns true if the card is one of the known types
func (c Card) Valid() bool {
	switch c {
	case Ace, King, Queen, Joker:
		return true
	}

	return false
}

// Name returns the capitalized name of the card, e.g., King
func (c Card) Name() string {
	if c == "" {
		return ""
	}

	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Plural returns the plural name of the card, e.g., Kings
func (c Card) Plural() string {
	return c.Name() + "s"
}

func (c Card) String() string {
	return string(c)
}

// Symbol returns the single letter symbol for the card
func (c Card) Symbol() string {
	switch c {
	case Ace:
		return "A"
	case King:
		return "K"
	case Queen:
		return "Q"
	case Joker:
		return "J"
	}

	return "?"
}

// Symbols returns the cards as space separated symbols, e.g., "K K Q"
func Symbols(cards []Card) string {
	symbols := make([]string, len(cards))
	for i, c := range cards {
		symbols[i] = c.Symbol()
	}

	return strings.Join(symbols, " ")
}

var cardRx = regexp.MustCompile(`(?i)^(a|k|q|j|aces?|kings?|queens?|jokers?)\z`)

// ParseCard returns a Card from the string.
// The string may be the symbol (A, K, Q, J) or the name in singular or plural form. Case is ignored.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		return "", fmt.Errorf("could not parse card: %q", s)
	}

	switch strings.ToLower(match[1])[0] {
	case 'a':
		return Ace, nil
	case 'k':
		return King, nil
	case 'q':
		return Queen, nil
	default:
		return Joker, nil
	}
}

// ParseCards parses a comma separated list of cards
func ParseCards(s string) ([]Card, error) {
	if strings.TrimSpace(s) == "" {
		return []Card{}, nil
	}

	parts := strings.Split(s, ",")
	cards := make([]Card, len(parts))
	for i, part := range parts {
		card, err := ParseCard(part)
		if err != nil {
			return nil, err
		}

		cards[i] = card
	}

	return cards, nil
}

// CardsToString converts the cards into their canonical string form, e.g., ace,king,king
func CardsToString(cards []Card) string {
	s := make([]string, len(cards))
	for i, card := range cards {
		s[i] = string(card)
	}

	return strings.Join(s, ",")
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting anything ParseCard does
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}

	*c = card
	return nil
}
