package poker

import (
	"testing"

	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, Ace, aceSpades.Rank)
	assert.Equal(t, Spades, aceSpades.Suit)
	assert.Equal(t, "As", aceSpades.String())
	assert.Equal(t, "2c", NewCard(Two, Clubs).String())
	assert.Equal(t, "??", Card{}.String())
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "2h", want: NewCard(Two, Hearts)},
		{input: "Kd", want: NewCard(King, Diamonds)},
		{input: "Tc", want: NewCard(Ten, Clubs)},
		{input: "10c", want: NewCard(Ten, Clubs)},
		{input: "qH", want: NewCard(Queen, Hearts)},
		{input: "", wantErr: true},
		{input: "A", wantErr: true},
		{input: "1s", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "AKs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCardsRoundTrip(t *testing.T) {
	t.Parallel()
	cards, err := ParseCards("As Kd 7c 2h")
	require.NoError(t, err)
	require.Len(t, cards, 4)
	assert.Equal(t, "As Kd 7c 2h", FormatCards(cards))

	_, err = ParseCards("As Zz")
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestDeckDealsEveryCardOnce(t *testing.T) {
	t.Parallel()
	deck := NewDeck(randutil.New(42))
	seen := make(map[Card]bool)
	for deck.CardsRemaining() > 0 {
		c, ok := deck.DealOne()
		require.True(t, ok)
		require.True(t, c.Valid())
		require.False(t, seen[c], "card %s dealt twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)

	_, ok := deck.DealOne()
	assert.False(t, ok)
	assert.Nil(t, deck.Deal(1))
}

func TestDeckIsDeterministicForSeed(t *testing.T) {
	t.Parallel()
	a := NewDeck(randutil.New(7)).Deal(10)
	b := NewDeck(randutil.New(7)).Deal(10)
	c := NewDeck(randutil.New(8)).Deal(10)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()
	top := MustParseCards("As Ah Kd")
	deck := NewStackedDeck(top...)
	assert.Equal(t, top, deck.Deal(3))
	assert.Equal(t, DeckSize-3, deck.CardsRemaining())

	rest := deck.Deal(DeckSize - 3)
	for _, c := range rest {
		assert.NotContains(t, top, c)
	}
}
