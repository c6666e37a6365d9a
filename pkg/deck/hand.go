package deck

// Hand represents a collection of cards
type Hand []Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	return rank(h[i]) < rank(h[j])
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func rank(c Card) int {
	for i, t := range Types() {
		if t == c {
			return i
		}
	}

	return len(Types())
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	return h.Count(card) > 0
}

// Count returns how many cards of the type the hand holds
func (h Hand) Count(card Card) int {
	count := 0
	for _, c := range h {
		if c == card {
			count++
		}
	}

	return count
}

// Counts returns the number of each card type held
func (h Hand) Counts() map[Card]int {
	counts := make(map[Card]int)
	for _, c := range h {
		counts[c]++
	}

	return counts
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
