package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeHoleCards(t *testing.T) {
	t.Parallel()
	want := map[HoleCardCategory][]string{
		CategoryPremium: {"As Ah", "Jh Jd", "Ac Kh", "Kd As"},
		CategoryStrong:  {"Tc Th", "Ac Qh", "As Js"},
		CategoryMedium:  {"7h 7c", "Ks Qs", "Qd Jd", "9c 9s"},
		CategoryWeak:    {"2c 2h", "7h 6h", "5d 3d"},
		CategoryTrash:   {"7c 2h", "Jh 4c", "Kh Qc", "9s 5s"},
	}
	for category, hands := range want {
		for _, hand := range hands {
			cards := MustParseCards(hand)
			assert.Equal(t, category, CategorizeHoleCards(cards[0], cards[1]), hand)
		}
	}
	assert.Equal(t, CategoryUnknown, CategorizeHoleCards(Card{}, MustParseCard("As")))
}
