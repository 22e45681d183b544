package poker

import (
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is a standard 52-card deck consumed front to back.
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck. The rng must not be nil; callers
// derive it from internal/randutil so hands are reproducible from a seed.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.cards = orderedCards()
	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals the given cards first, followed by
// the remaining cards in their natural order. Used to set up exact hands.
func NewStackedDeck(top ...Card) *Deck {
	d := &Deck{}
	seen := make(map[Card]bool, len(top))
	i := 0
	for _, c := range top {
		if seen[c] || !c.Valid() {
			continue
		}
		seen[c] = true
		d.cards[i] = c
		i++
	}
	for _, c := range orderedCards() {
		if !seen[c] {
			d.cards[i] = c
			i++
		}
	}
	return d
}

func orderedCards() [DeckSize]Card {
	var cards [DeckSize]Card
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return cards
}

// Shuffle shuffles the deck using Fisher-Yates and rewinds it.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck, or nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card. The boolean is false when the deck is empty.
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
