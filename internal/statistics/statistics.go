// Package statistics accumulates per-player results over many hands.
package statistics

import (
	"math"
	"slices"
	"sort"
	"strings"
)

// Street is the last betting round a hand reached.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

var streetNames = [...]string{"preflop", "flop", "turn", "river"}

func (s Street) String() string {
	if int(s) < len(streetNames) {
		return streetNames[s]
	}
	return "unknown"
}

// StreetFor maps the number of community cards dealt to a street.
func StreetFor(community int) Street {
	switch {
	case community >= 5:
		return River
	case community == 4:
		return Turn
	case community >= 3:
		return Flop
	}
	return Preflop
}

// Result is one player's outcome of one hand.
type Result struct {
	Net      int  // chips won minus chips committed
	BigBlind int  // big blind of the hand, used to normalize Net
	Showdown bool // more than one player was left at the end
	Pot      int  // chips committed by everyone
	Street   Street
}

// NetBB is Net in big blinds.
func (r Result) NetBB() float64 {
	if r.BigBlind <= 0 {
		return float64(r.Net)
	}
	return float64(r.Net) / float64(r.BigBlind)
}

// Statistics tracks one player's results.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // sum of squares for the variance
	Values []float64 // every result, for the median and percentiles

	Wins            int
	Losses          int
	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64

	MaxPot  int
	Streets [4]int // hands by the street they ended on
}

// Add incorporates a hand result.
func (s *Statistics) Add(r Result) {
	bb := r.NetBB()
	s.Hands++
	s.SumBB += bb
	s.SumBB2 += bb * bb
	s.Values = append(s.Values, bb)

	switch {
	case r.Net > 0:
		s.Wins++
		if r.Showdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	case r.Net < 0:
		s.Losses++
	}
	if r.Showdown {
		s.ShowdownBB += bb
	} else {
		s.NonShowdownBB += bb
	}

	s.MaxPot = max(s.MaxPot, r.Pot)
	if int(r.Street) < len(s.Streets) {
		s.Streets[r.Street]++
	}
}

// Mean returns the average result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of the results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval of the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at p, between 0 and 1, interpolating linearly.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that the showdown split accounts for every result.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Summary is the reportable form of one player's statistics.
type Summary struct {
	Name            string     `json:"name"`
	Hands           int        `json:"hands"`
	NetBB           float64    `json:"net_bb"`
	BBPerHand       float64    `json:"bb_per_hand"`
	StdDev          float64    `json:"std_dev"`
	CI95            [2]float64 `json:"ci95"`
	Wins            int        `json:"wins"`
	ShowdownWins    int        `json:"showdown_wins"`
	NonShowdownWins int        `json:"non_showdown_wins"`
	MaxPot          int        `json:"max_pot"`
}

func (s *Statistics) Summary(name string) Summary {
	lo, hi := s.ConfidenceInterval95()
	return Summary{
		Name:            name,
		Hands:           s.Hands,
		NetBB:           s.SumBB,
		BBPerHand:       s.Mean(),
		StdDev:          s.StdDev(),
		CI95:            [2]float64{lo, hi},
		Wins:            s.Wins,
		ShowdownWins:    s.ShowdownWins,
		NonShowdownWins: s.NonShowdownWins,
		MaxPot:          s.MaxPot,
	}
}

// Tracker keeps statistics per player name. It is not safe for concurrent
// use; rooms only touch it from their own goroutine.
type Tracker struct {
	players map[string]*Statistics
}

func NewTracker() *Tracker {
	return &Tracker{players: make(map[string]*Statistics)}
}

// Record adds a result for name.
func (t *Tracker) Record(name string, r Result) {
	s, ok := t.players[name]
	if !ok {
		s = &Statistics{}
		t.players[name] = s
	}
	s.Add(r)
}

// Get returns the statistics of name.
func (t *Tracker) Get(name string) (*Statistics, bool) {
	s, ok := t.players[name]
	return s, ok
}

// Summaries lists every player, biggest winner first.
func (t *Tracker) Summaries() []Summary {
	out := make([]Summary, 0, len(t.players))
	for name, s := range t.players {
		out = append(out, s.Summary(name))
	}
	slices.SortFunc(out, func(a, b Summary) int {
		switch {
		case a.NetBB > b.NetBB:
			return -1
		case a.NetBB < b.NetBB:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
