package deck

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortHand(h Hand) {
	sort.Stable(h)
}

func TestHand_Sort(t *testing.T) {
	h := Hand{Joker, Queen, Ace, King, Ace}
	sort.Sort(h)
	assert.Equal(t, "ace,ace,king,queen,joker", h.String())
}

func TestHand_Count(t *testing.T) {
	h := Hand{King, King, Joker}
	assert.Equal(t, 2, h.Count(King))
	assert.Equal(t, 0, h.Count(Ace))
	assert.True(t, h.HasCard(Joker))
	assert.False(t, h.HasCard(Queen))
	assert.Equal(t, map[Card]int{King: 2, Joker: 1}, h.Counts())
}

func TestHand_AddCard(t *testing.T) {
	h := make(Hand, 0)
	h.AddCard(Ace)
	h.AddCard(Queen)
	assert.Equal(t, "ace,queen", h.String())
}

func TestHand_Clone(t *testing.T) {
	h := Hand{Ace, King}
	h2 := h.Clone()
	h2[0] = Joker

	assert.Equal(t, Ace, h[0])
}
