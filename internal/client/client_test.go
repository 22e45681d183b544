package client

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickkosasih/Allin/internal/bot"
	"github.com/patrickkosasih/Allin/internal/game"
	"github.com/patrickkosasih/Allin/internal/protocol"
	"github.com/patrickkosasih/Allin/internal/server"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// pipe returns a session and the raw server end of its connection.
func pipe(t *testing.T, opts ...Option) (*Session, protocol.Conn) {
	t.Helper()
	c, s := net.Pipe()
	opts = append([]Option{WithLogger(testLogger())}, opts...)
	sess := NewSession(protocol.NewStreamConn(c), opts...)
	peer := protocol.NewStreamConn(s)
	t.Cleanup(func() {
		_ = sess.Close()
		_ = peer.Close()
	})
	return sess, peer
}

func TestRequestsAreAnsweredInOrder(t *testing.T) {
	t.Parallel()
	sess, peer := pipe(t)
	ctx := testContext(t)

	go func() {
		for {
			p, err := peer.ReadPacket()
			if err != nil {
				return
			}
			reply := strings.ToUpper(p.Text)
			if p.Text == "fail" {
				reply = protocol.ErrorResponse(protocol.ReasonInvalidCommand)
			}
			if peer.WritePacket(protocol.NewResponse(reply)) != nil {
				return
			}
		}
	}()

	results := make(chan string, 3)
	for _, cmd := range []string{"one", "two", "three"} {
		go func() {
			resp, err := sess.Request(ctx, cmd)
			assert.NoError(t, err)
			assert.Equal(t, strings.ToUpper(cmd), resp)
			results <- resp
		}()
	}
	for range 3 {
		<-results
	}

	_, err := sess.Request(ctx, "fail")
	require.ErrorIs(t, err, protocol.ErrRequestFailed)
	assert.Equal(t, protocol.ReasonInvalidCommand, protocol.Reason(err))
}

func TestRequestTimeoutReleasesSlot(t *testing.T) {
	t.Parallel()
	clk := quartz.NewMock(t)
	sess, peer := pipe(t, WithClock(clk), WithRequestTimeout(3*time.Second))
	ctx := testContext(t)

	timedOut := make(chan error, 1)
	go func() {
		_, err := sess.Request(ctx, "echo slow")
		timedOut <- err
	}()

	p, err := peer.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, "echo slow", p.Text)

	require.Eventually(t, func() bool {
		_, ok := clk.Peek()
		return ok
	}, timeout, tick)
	d, w := clk.AdvanceNext()
	w.MustWait(ctx)
	assert.Equal(t, 3*time.Second, d)
	require.ErrorIs(t, <-timedOut, ErrRequestTimeout)

	// The late answer must not be mistaken for the next request's.
	go func() {
		_ = peer.WritePacket(protocol.NewResponse("slow"))
		p, err := peer.ReadPacket()
		if err != nil {
			return
		}
		_ = peer.WritePacket(protocol.NewResponse(strings.TrimPrefix(p.Text, "echo ")))
	}()
	resp, err := sess.Request(ctx, "echo fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", resp)
}

func TestNextPairsSyncWithEvent(t *testing.T) {
	t.Parallel()
	sess, peer := pipe(t)
	ctx := testContext(t)

	roster := &protocol.GameData{Version: protocol.SyncVersion, Roster: &protocol.RosterSync{
		Players:    []protocol.PlayerInfo{{Name: "alice", Chips: 1000}},
		SmallBlind: 25,
		ClientSeat: 0,
	}}
	go func() {
		_ = peer.WritePacket(protocol.NewData(roster))
		_ = peer.WritePacket(protocol.NewEvent(game.NewEvent(game.EventResetPlayers)))
		_ = peer.WritePacket(protocol.NewEvent(game.Event{Code: game.EventAction, PrevSeat: 0, NextSeat: 1, Message: "call", Bet: 50}))
		_ = peer.WritePacket(protocol.NewEvent(game.NewEvent(game.EventNewRound)))
	}()

	msg, err := sess.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.EventResetPlayers, msg.Event.Code)
	require.NotNil(t, msg.Data)
	assert.Equal(t, roster.Roster.Players, msg.Data.Roster.Players)

	msg, err = sess.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.EventAction, msg.Event.Code)
	assert.Nil(t, msg.Data)

	_, err = sess.Next(ctx)
	require.ErrorIs(t, err, ErrMissingSync)
}

func TestSessionEndsWithConnection(t *testing.T) {
	t.Parallel()
	sess, peer := pipe(t)
	ctx := testContext(t)

	go func() {
		_ = peer.WritePacket(protocol.NewEvent(game.NewEvent(game.EventResetHand)))
		_ = peer.Close()
	}()

	msg, err := sess.Next(ctx)
	require.NoError(t, err, "queued events survive the disconnect")
	assert.Equal(t, game.EventResetHand, msg.Event.Code)

	_, err = sess.Next(ctx)
	require.ErrorIs(t, err, ErrClosed)
	_, err = sess.Request(ctx, "echo hi")
	require.ErrorIs(t, err, ErrClosed)
}

func newTestServer(t *testing.T) (*server.Server, *quartz.Mock) {
	t.Helper()
	cfg := server.DefaultConfig()
	seed := int64(11)
	cfg.Rooms = []server.RoomConfig{{Code: "ABCD", Capacity: 10, SmallBlind: 25, StartingChips: 1000, Seed: &seed}}
	clk := quartz.NewMock(t)
	srv, err := server.New(cfg, testLogger(), clk)
	require.NoError(t, err)
	t.Cleanup(srv.Shutdown)
	return srv, clk
}

func connect(t *testing.T, srv *server.Server) *Session {
	t.Helper()
	c, s := net.Pipe()
	srv.ServeConn(protocol.NewStreamConn(s))
	sess := NewSession(protocol.NewStreamConn(c), WithLogger(testLogger()))
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

// advanceWhenIdle fires the room's next timer once the clients have caught
// up and the room is waiting on it.
func advanceWhenIdle(t *testing.T, ctx context.Context, clk *quartz.Mock) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := clk.Peek()
		return ok
	}, timeout, tick)
	_, w := clk.AdvanceNext()
	w.MustWait(ctx)
}

func TestRunnersPlayHandAgainstServer(t *testing.T) {
	t.Parallel()
	srv, clk := newTestServer(t)
	ctx := testContext(t)

	showdowns := make(chan PublicTable, 4)
	for _, name := range []string{"alice", "bob"} {
		sess := connect(t, srv)
		require.NoError(t, sess.SetName(ctx, name))

		strategy, err := bot.New("call", nil, testLogger())
		require.NoError(t, err)
		r := NewRunner(sess, strategy, quartz.NewReal(), 0, testLogger())
		r.OnMessage = func(m Message, rep *Replica) {
			if m.Event.Code == game.EventShowdown {
				showdowns <- rep.PublicView()
			}
		}
		go func() { _ = r.Run(ctx) }()
		require.NoError(t, sess.Join(ctx, "ABCD"))
	}

	var views []PublicTable
	for len(views) < 2 {
		select {
		case v := <-showdowns:
			views = append(views, v)
		default:
			advanceWhenIdle(t, ctx, clk)
		}
	}

	assert.Equal(t, views[0], views[1])
	total := 0
	for _, p := range views[0].Players {
		total += p.Chips
	}
	assert.Equal(t, 2000, total)
	require.NotNil(t, views[0].Hand)
	assert.Len(t, views[0].Hand.Community, 5, "calling bots see every street")
	assert.Len(t, views[0].Hand.Revealed, 2)
}

func TestDialWebsocket(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	ctx := testContext(t)

	sess, err := DialWS(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", WithLogger(testLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	resp, err := sess.Request(ctx, "echo over websocket")
	require.NoError(t, err)
	assert.Equal(t, "over websocket", resp)

	resp, err = sess.Request(ctx, "rooms")
	require.NoError(t, err)
	assert.Equal(t, "ABCD", resp)
}
