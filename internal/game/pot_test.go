package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPots(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		contribs []Contribution
		want     []Pot
	}{
		{
			name: "single pot",
			contribs: []Contribution{
				{Seat: 0, Amount: 100},
				{Seat: 1, Amount: 100},
				{Seat: 2, Amount: 50, Folded: true},
			},
			want: []Pot{{Amount: 250, Cap: 100, Eligible: []int{0, 1}}},
		},
		{
			name: "two all-in levels",
			contribs: []Contribution{
				{Seat: 0, Amount: 50, AllIn: true},
				{Seat: 1, Amount: 200, AllIn: true},
				{Seat: 2, Amount: 500},
				{Seat: 3, Amount: 500},
			},
			want: []Pot{
				{Amount: 200, Cap: 50, Eligible: []int{0, 1, 2, 3}},
				{Amount: 450, Cap: 200, Eligible: []int{1, 2, 3}},
				{Amount: 600, Cap: 500, Eligible: []int{2, 3}},
			},
		},
		{
			name: "folded chips fill lower tiers",
			contribs: []Contribution{
				{Seat: 0, Amount: 100, AllIn: true},
				{Seat: 1, Amount: 150, Folded: true},
				{Seat: 2, Amount: 300},
			},
			want: []Pot{
				{Amount: 300, Cap: 100, Eligible: []int{0, 2}},
				{Amount: 250, Cap: 300, Eligible: []int{2}},
			},
		},
		{
			name: "unmatched chips of a folded seat are refunded",
			contribs: []Contribution{
				{Seat: 0, Amount: 400, Folded: true},
				{Seat: 1, Amount: 100, AllIn: true},
			},
			want: []Pot{
				{Amount: 200, Cap: 100, Eligible: []int{1}},
				{Amount: 300, Cap: 400, Eligible: []int{0}, Refund: true, Shares: map[int]int{0: 300}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitPots(tt.contribs)
			assert.Equal(t, tt.want, got)

			paid := 0
			for _, c := range tt.contribs {
				paid += c.Amount
			}
			assert.Equal(t, paid, TotalAmount(got))
		})
	}
}

func TestSplitAmongGivesOddChipsClockwiseFromDealer(t *testing.T) {
	t.Parallel()
	payouts := splitAmong(101, []int{0, 2}, 0, 3)
	require.Len(t, payouts, 2)
	assert.Equal(t, Payout{Seat: 2, Amount: 51}, payouts[0])
	assert.Equal(t, Payout{Seat: 0, Amount: 50}, payouts[1])

	payouts = splitAmong(100, []int{1, 3, 4}, 3, 5)
	assert.Equal(t, []Payout{{Seat: 4, Amount: 34}, {Seat: 1, Amount: 33}, {Seat: 3, Amount: 33}}, payouts)
}

func TestOddChipSplitAtShowdown(t *testing.T) {
	t.Parallel()
	// Seats 0 and 2 both play the board; the small blind's 25 makes the pot odd.
	g, _ := newTestGame(t, "2s 3s 7c 2d 2h 3h Ac Kc Qc Jc Tc", 1000, 1000, 1000)
	h := startHand(t, g)

	require.NoError(t, h.Act(Call, 0))
	require.NoError(t, h.Act(Fold, 0))
	require.NoError(t, h.Act(Call, 0))
	require.True(t, h.RoundFinished())
	checkDown(t, h)

	assert.Equal(t, []int{0, 2}, h.Winners())
	assert.Equal(t, map[int]int{0: 62, 2: 63}, h.Payouts())
	assert.Equal(t, []int{1012, 975, 1013}, stacks(g))
	assert.Equal(t, 3000, totalChips(g))
}
