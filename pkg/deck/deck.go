package deck

import (
	"errors"
	"fmt"

	"liars-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Size is the number of cards in a deck
const Size = 20

// composition is the fixed count of each card type
var composition = []struct {
	card  Card
	count int
}{
	{Ace, 6},
	{King, 6},
	{Queen, 6},
	{Joker, 2},
}

// Deck represents a playing deck
type Deck struct {
	Cards []Card `json:"cards"`
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{}
	d.buildDeck()
	return d
}

func (d *Deck) buildDeck() {
	cards := make([]Card, 0, Size)
	for _, c := range composition {
		for i := 0; i < c.count; i++ {
			cards = append(cards, c.card)
		}
	}

	d.Cards = cards
}

// Count returns how many cards of the given type a full deck holds
func Count(card Card) int {
	for _, c := range composition {
		if c.card == card {
			return c.count
		}
	}

	return 0
}

// Shuffle rebuilds the deck and shuffles it with the generator
func (d *Deck) Shuffle(g rng.Generator) {
	d.buildDeck()

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := g.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) <= 0 {
		return "", ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

// SlotSizes returns how many cards each of n seats receives
// Every seat gets Size/n cards and the first Size%n seats get one more.
func SlotSizes(n int) ([]int, error) {
	if n <= 0 || n > Size {
		return nil, fmt.Errorf("cannot deal to %d seats", n)
	}

	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = Size / n
		if i < Size%n {
			sizes[i]++
		}
	}

	return sizes, nil
}

// Deal draws the remaining cards into n hands in seat order
// The deck must be full.
func (d *Deck) Deal(n int) ([]Hand, error) {
	sizes, err := SlotSizes(n)
	if err != nil {
		return nil, err
	}

	if !d.CanDraw(Size) {
		return nil, ErrEndOfDeck
	}

	hands := make([]Hand, n)
	for i, size := range sizes {
		hand := make(Hand, 0, size)
		for j := 0; j < size; j++ {
			card, err := d.Draw()
			if err != nil {
				return nil, err
			}

			hand.AddCard(card)
		}

		hands[i] = hand
	}

	return hands, nil
}
