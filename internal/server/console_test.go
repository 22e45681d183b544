package server

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleCommands(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	var out bytes.Buffer
	c := NewConsole(srv, strings.NewReader(""), &out)

	assert.False(t, c.Exec("create"))
	assert.Equal(t, []string{"AAAA", "AAAB"}, srv.Registry().Codes())
	assert.Contains(t, out.String(), "created room AAAB")

	out.Reset()
	c.Exec("create AAAA")
	assert.Contains(t, out.String(), "room already exists")

	out.Reset()
	c.Exec("start AAAA")
	assert.Contains(t, out.String(), "not enough players")

	c.Exec("addbot AAAA call")
	c.Exec("addbot AAAA fold Folding Fred")
	out.Reset()
	c.Exec("list rooms")
	assert.Contains(t, out.String(), "2 active rooms")
	assert.Contains(t, out.String(), "AAAA: 2/10 players")

	out.Reset()
	c.Exec("stats AAAA")
	assert.Contains(t, out.String(), "no hands played in AAAA")
	out.Reset()
	c.Exec("stats ZZZZ")
	assert.Contains(t, out.String(), "room does not exist")

	out.Reset()
	c.Exec("addbot AAAA shark")
	assert.Contains(t, out.String(), "unknown bot strategy")

	out.Reset()
	c.Exec("count")
	assert.Contains(t, out.String(), "0 clients connected")

	out.Reset()
	c.Exec("list")
	assert.Contains(t, out.String(), "usage: list")

	out.Reset()
	c.Exec("fly")
	assert.Contains(t, out.String(), "invalid command")
}

func TestConsoleShutdown(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, "ABCD")
	conn := dial(t, srv)
	resp, _ := request(t, conn, "join ABCD")
	require.Equal(t, "SUCCESS", resp)

	var out bytes.Buffer
	c := NewConsole(srv, strings.NewReader("list clients\nshutdown\nlist rooms\n"), &out)
	require.NoError(t, c.Run(context.Background()))

	assert.Contains(t, out.String(), "1 clients connected")
	assert.Contains(t, out.String(), "room ABCD")
	assert.NotContains(t, out.String(), "active rooms", "commands after shutdown are not run")
	assert.Empty(t, srv.Sessions())
	assert.Empty(t, srv.Registry().Codes())
}
