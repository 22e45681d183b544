package client

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/randutil"
	"github.com/patrickkosasih/Allin/poker"
)

// syncFor mirrors what a room attaches to an event for the named viewer.
func syncFor(g *game.Game, e game.Event, viewer string) *protocol.GameData {
	seat := game.NoSeat
	if p, ok := g.Player(viewer); ok {
		seat = p.Seat
	}
	h := g.Hand()
	switch protocol.ExpectedSync(e.Code) {
	case protocol.SyncRoster:
		return protocol.RosterFor(g, seat)
	case protocol.SyncDeal:
		return protocol.DealFor(g, h, seat)
	case protocol.SyncRound:
		return protocol.RoundFor(h)
	case protocol.SyncShowdown:
		return protocol.ShowdownFor(h)
	case protocol.SyncTable:
		return protocol.TableFor(g, h, seat)
	}
	return nil
}

// joiner builds a replica the way a member joining right now would.
func joiner(t *testing.T, g *game.Game) *Replica {
	t.Helper()
	r := NewReplica()
	e := game.NewEvent(game.EventJoinMidGame)
	require.NoError(t, r.Apply(e, protocol.TableFor(g, g.Hand(), game.NoSeat)))
	return r
}

func randomDecision(rng *rand.Rand, v game.View) game.Decision {
	switch n := rng.IntN(10); {
	case n == 0 && v.ToCall() > 0:
		return game.Decision{Action: game.Fold}
	case n < 7 || !v.CanRaise():
		return game.Decision{Action: game.Call}
	case n == 7:
		return game.Decision{Action: game.AllIn}
	default:
		return game.Decision{Action: game.Raise, Amount: v.MinRaiseTo + rng.IntN(4)*v.BigBlind}
	}
}

func TestReplicaTracksServerAndMatchesMidGameJoiner(t *testing.T) {
	t.Parallel()
	names := []string{"alice", "bob", "carol", "dave"}

	for _, seed := range []int64{1, 2, 3} {
		rng := randutil.New(seed)
		alice := NewReplica()
		var g *game.Game
		g = game.NewGame(
			game.WithRNG(randutil.New(seed)),
			game.WithObserver(func(e game.Event) {
				require.NoError(t, alice.Apply(e, syncFor(g, e, "alice")), "seed %d: %s", seed, e)
			}),
		)
		for _, name := range names {
			_, err := g.AddPlayer(name, 1000)
			require.NoError(t, err)
		}

		check := func(h *game.Hand) {
			t.Helper()
			seat := alice.ClientSeat()
			if p, ok := g.Player("alice"); ok {
				require.Equal(t, p.Seat, seat)
			}
			if h.Ended() {
				return
			}
			assert.Equal(t, joiner(t, g).PublicView(), alice.PublicView(), "seed %d hand %d", seed, h.Number())
			if seat != game.NoSeat && h.Turn() == seat && alice.MyTurn() {
				v, err := alice.View(seat)
				require.NoError(t, err)
				assert.Equal(t, h.ViewFor(seat), v)
			}
		}

		for hands := 0; hands < 40; hands++ {
			h, err := g.NewHand(true)
			if err != nil {
				require.ErrorIs(t, err, game.ErrInsufficientPlayers)
				break
			}
			check(h)
			require.NoError(t, h.Start())
			check(h)
			if hands == 2 {
				leaver := g.Players()[len(g.Players())-1]
				if leaver.Name != "alice" {
					removed, err := g.RemovePlayer(leaver.Name)
					require.NoError(t, err)
					require.False(t, removed, "players leave at the hand boundary")
					check(h)
				}
			}
			for !h.Ended() {
				if h.RoundFinished() {
					require.NoError(t, h.NextRound())
				} else {
					seat := h.Turn()
					require.NoError(t, h.Apply(seat, randomDecision(rng, h.ViewFor(seat))))
				}
				check(h)
			}

			view := alice.PublicView()
			total := 0
			for i, p := range view.Players {
				assert.Equal(t, h.Player(i).Chips, p.Chips)
				total += p.Chips
			}
			assert.Equal(t, 1000*len(names), total, "chips are conserved")
			require.NotNil(t, view.Hand)
			assert.True(t, view.Hand.Ended)
			assert.Equal(t, h.PotTotal(), game.TotalAmount(view.Hand.Pots))

			require.NoError(t, alice.Apply(game.NewEvent(game.EventResetHand), nil))
			assert.False(t, alice.InHand())
		}
	}
}

func TestReplicaSeesOnlyOwnPocket(t *testing.T) {
	t.Parallel()
	deck := poker.MustParseCards("As Ah 7c 2d Kd 9s 4h 3c Jd")
	alice, bob := NewReplica(), NewReplica()
	var g *game.Game
	g = game.NewGame(
		game.WithDeckSource(func() *poker.Deck { return poker.NewStackedDeck(deck...) }),
		game.WithObserver(func(e game.Event) {
			require.NoError(t, alice.Apply(e, syncFor(g, e, "alice")))
			require.NoError(t, bob.Apply(e, syncFor(g, e, "bob")))
		}),
	)
	_, err := g.AddPlayer("alice", 1000)
	require.NoError(t, err)
	_, err = g.AddPlayer("bob", 1000)
	require.NoError(t, err)

	h, err := g.NewHand(false)
	require.NoError(t, err)
	require.NoError(t, h.Start())

	assert.Equal(t, h.Seat(0).Pocket, alice.Pocket())
	assert.Equal(t, h.Seat(1).Pocket, bob.Pocket())
	v, err := alice.View(1)
	require.NoError(t, err)
	assert.Empty(t, v.Pocket, "opponent cards stay hidden")
	assert.Equal(t, alice.PublicView(), bob.PublicView())

	// Call and check down to the showdown.
	for !h.Ended() {
		if h.RoundFinished() {
			require.NoError(t, h.NextRound())
			continue
		}
		require.NoError(t, h.Act(game.Call, 0))
	}
	view := alice.PublicView()
	require.Len(t, view.Hand.Revealed, 2)
	assert.Equal(t, h.Seat(1).Pocket, view.Hand.Revealed[1].Pocket)
	assert.Equal(t, alice.PublicView(), bob.PublicView())
	chips := []int{view.Players[0].Chips, view.Players[1].Chips}
	assert.Contains(t, [][]int{{1050, 950}, {950, 1050}, {1000, 1000}}, chips)
}

func TestReplicaRejectsInconsistentStreams(t *testing.T) {
	t.Parallel()

	r := NewReplica()
	err := r.Apply(game.NewEvent(game.EventNewRound), &protocol.GameData{Version: protocol.SyncVersion, Round: &protocol.RoundSync{}})
	require.ErrorIs(t, err, ErrOutOfSync)

	err = r.Apply(game.NewEvent(game.EventShowdown), nil)
	require.ErrorIs(t, err, ErrMissingSync)

	err = r.Apply(game.NewEvent(game.EventResetPlayers), &protocol.GameData{Version: protocol.SyncVersion, Round: &protocol.RoundSync{}})
	require.ErrorIs(t, err, protocol.ErrSyncMismatch)

	err = r.Apply(game.Event{Code: game.EventAction, PrevSeat: 0, NextSeat: 1}, nil)
	require.ErrorIs(t, err, ErrOutOfSync)

	_, err = r.View(0)
	require.ErrorIs(t, err, ErrOutOfSync)
}
