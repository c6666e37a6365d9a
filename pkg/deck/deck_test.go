package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"liars-server/internal/rng"
	"liars-server/pkg/snapshot"
)

func TestNew(t *testing.T) {
	deck := New()

	assert.Equal(t, Size, deck.CardsLeft())
	assert.Equal(t, Ace, deck.Cards[0])
	assert.Equal(t, Joker, deck.Cards[19])

	snapshot.ValidateSnapshot(t, deck, 0)
}

func TestCount(t *testing.T) {
	total := 0
	for _, card := range Types() {
		total += Count(card)
	}

	assert.Equal(t, Size, total)
	assert.Equal(t, 6, Count(Ace))
	assert.Equal(t, 2, Count(Joker))
	assert.Equal(t, 0, Count("jack"))
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	d1.Shuffle(rand.New(rand.NewSource(1)))

	d2 := New()
	d2.Shuffle(rand.New(rand.NewSource(1)))

	a.Equal(d1.Cards, d2.Cards)
	a.NotEqual(New().Cards, d1.Cards)
	a.Equal(New().Cards, sortedCopy(d1.Cards))

	// shuffling again always starts from a full deck
	_, _ = d1.Draw()
	d1.Shuffle(rng.Crypto{})
	a.Equal(Size, d1.CardsLeft())
	a.Equal(New().Cards, sortedCopy(d1.Cards))
}

func TestDeck_Draw(t *testing.T) {
	deck := New()

	assert.True(t, deck.CanDraw(20))
	assert.False(t, deck.CanDraw(21))

	for i := 0; i < 20; i++ {
		card, err := deck.Draw()
		assert.NoError(t, err)
		assert.True(t, card.Valid())
	}

	assert.False(t, deck.CanDraw(1))

	card, err := deck.Draw()
	assert.Equal(t, Card(""), card)
	assert.Equal(t, ErrEndOfDeck, err)
}

func TestSlotSizes(t *testing.T) {
	a := assert.New(t)

	sizes, err := SlotSizes(2)
	a.NoError(err)
	a.Equal([]int{10, 10}, sizes)

	sizes, err = SlotSizes(3)
	a.NoError(err)
	a.Equal([]int{7, 7, 6}, sizes)

	sizes, err = SlotSizes(6)
	a.NoError(err)
	a.Equal([]int{4, 4, 3, 3, 3, 3}, sizes)

	_, err = SlotSizes(0)
	a.Error(err)

	_, err = SlotSizes(21)
	a.Error(err)
}

func TestDeck_Deal(t *testing.T) {
	a := assert.New(t)

	for n := 2; n <= 10; n++ {
		d := New()
		d.Shuffle(rand.New(rand.NewSource(int64(n))))

		hands, err := d.Deal(n)
		a.NoError(err)
		a.Len(hands, n)
		a.Equal(0, d.CardsLeft())

		all := make([]Card, 0, Size)
		for _, hand := range hands {
			all = append(all, hand...)
		}

		// every card is dealt exactly once
		a.Equal(New().Cards, sortedCopy(all))
	}

	d := New()
	_, _ = d.Draw()
	_, err := d.Deal(2)
	a.Equal(ErrEndOfDeck, err)
}

func sortedCopy(cards []Card) []Card {
	h := Hand(cards).Clone()
	sortHand(h)
	return h
}
