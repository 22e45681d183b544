package poker

import (
	"errors"
	"fmt"
	"slices"
)

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handTypeNames = [...]string{
	HighCard:      "high card",
	Pair:          "pair",
	TwoPair:       "two pair",
	ThreeOfAKind:  "three of a kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full house",
	FourOfAKind:   "four of a kind",
	StraightFlush: "straight flush",
	RoyalFlush:    "royal flush",
}

func (t HandType) String() string {
	if int(t) < len(handTypeNames) {
		return handTypeNames[t]
	}
	return "unknown"
}

var (
	ErrInvalidCardCount = errors.New("hand must contain between 5 and 7 cards")
	ErrDuplicateCard    = errors.New("duplicate card")
)

// Ranking is the evaluated strength of the best five cards out of a hand.
type Ranking struct {
	Type    HandType
	Cards   []Card // cards that make up the category, e.g. the two pairs
	Kickers []Card // remaining cards of the best five, highest first
	Score   uint32 // larger is stronger; equal scores are equal hands
}

// Best returns the five cards that make up the hand.
func (r Ranking) Best() []Card {
	return append(slices.Clone(r.Cards), r.Kickers...)
}

// Compare returns -1, 0 or 1 when r is weaker than, equal to or stronger than o.
func (r Ranking) Compare(o Ranking) int {
	switch {
	case r.Score < o.Score:
		return -1
	case r.Score > o.Score:
		return 1
	}
	return 0
}

func (r Ranking) String() string {
	return fmt.Sprintf("%s (%s)", r.Type, FormatCards(r.Best()))
}

// Evaluate finds the strongest five card hand among 5 to 7 cards.
func Evaluate(cards []Card) (Ranking, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Ranking{}, fmt.Errorf("%w: got %d", ErrInvalidCardCount, len(cards))
	}

	sorted := slices.Clone(cards)
	seen := make(map[Card]bool, len(sorted))
	for _, c := range sorted {
		if !c.Valid() {
			return Ranking{}, fmt.Errorf("%w: %v", ErrInvalidCard, c)
		}
		if seen[c] {
			return Ranking{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = true
	}
	slices.SortStableFunc(sorted, func(a, b Card) int { return int(b.Rank) - int(a.Rank) })

	var byRank [Ace + 1][]Card
	var bySuit [Clubs + 1][]Card
	for _, c := range sorted {
		byRank[c.Rank] = append(byRank[c.Rank], c)
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}

	for _, suited := range bySuit {
		if len(suited) < 5 {
			continue
		}
		if run := findStraight(suited); run != nil {
			if run[0].Rank == Ace {
				return newRanking(RoyalFlush, run, nil, straightDigits(run)), nil
			}
			return newRanking(StraightFlush, run, nil, straightDigits(run)), nil
		}
	}

	var quads, trips, pairs []Rank
	for r := Ace; r >= Two; r-- {
		switch len(byRank[r]) {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
	}

	if len(quads) > 0 {
		made := byRank[quads[0]]
		kickers := kickersExcluding(sorted, 1, quads[0])
		return newRanking(FourOfAKind, made, kickers, nil), nil
	}

	if len(trips) > 0 {
		// A second set of trips can fill the pair slot.
		var pairRank Rank
		if len(trips) > 1 {
			pairRank = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pairRank {
			pairRank = pairs[0]
		}
		if pairRank != 0 {
			made := append(slices.Clone(byRank[trips[0]]), byRank[pairRank][:2]...)
			return newRanking(FullHouse, made, nil, nil), nil
		}
	}

	for _, suited := range bySuit {
		if len(suited) >= 5 {
			return newRanking(Flush, suited[:5], nil, nil), nil
		}
	}

	if run := findStraight(sorted); run != nil {
		return newRanking(Straight, run, nil, straightDigits(run)), nil
	}

	switch {
	case len(trips) > 0:
		made := byRank[trips[0]]
		return newRanking(ThreeOfAKind, made, kickersExcluding(sorted, 2, trips[0]), nil), nil
	case len(pairs) >= 2:
		made := append(slices.Clone(byRank[pairs[0]]), byRank[pairs[1]]...)
		return newRanking(TwoPair, made, kickersExcluding(sorted, 1, pairs[0], pairs[1]), nil), nil
	case len(pairs) == 1:
		made := byRank[pairs[0]]
		return newRanking(Pair, made, kickersExcluding(sorted, 3, pairs[0]), nil), nil
	}
	return newRanking(HighCard, sorted[:1], sorted[1:5], nil), nil
}

// findStraight returns the highest five card run in rank-descending cards,
// treating the ace as both high and low. The run is ordered from its top card.
func findStraight(sorted []Card) []Card {
	var byRank [Ace + 1]*Card
	for i := range sorted {
		if byRank[sorted[i].Rank] == nil {
			byRank[sorted[i].Rank] = &sorted[i]
		}
	}
	at := func(r Rank) *Card {
		if r == 1 {
			return byRank[Ace]
		}
		return byRank[r]
	}

	for high := Ace; high >= Five; high-- {
		run := make([]Card, 0, 5)
		for r := high; r > high-5; r-- {
			c := at(r)
			if c == nil {
				break
			}
			run = append(run, *c)
		}
		if len(run) == 5 {
			return run
		}
	}
	return nil
}

func kickersExcluding(sorted []Card, n int, exclude ...Rank) []Card {
	kickers := make([]Card, 0, n)
	for _, c := range sorted {
		if len(kickers) == n {
			break
		}
		if !slices.Contains(exclude, c.Rank) {
			kickers = append(kickers, c)
		}
	}
	return kickers
}

// Straights are ordered by their top card only; a wheel tops out at five.
func straightDigits(run []Card) []Rank {
	return []Rank{run[0].Rank, 0, 0, 0, 0}
}

func newRanking(t HandType, made, kickers []Card, digits []Rank) Ranking {
	made = slices.Clone(made)
	kickers = slices.Clone(kickers)
	if digits == nil {
		for _, c := range made {
			digits = append(digits, c.Rank)
		}
		for _, c := range kickers {
			digits = append(digits, c.Rank)
		}
	}

	score := uint32(t) << 20
	for i := 0; i < 5; i++ {
		var d Rank
		if i < len(digits) {
			d = digits[i]
		}
		score |= uint32(d) << (16 - 4*i)
	}
	return Ranking{Type: t, Cards: made, Kickers: kickers, Score: score}
}
