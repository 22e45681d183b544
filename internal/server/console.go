package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/patrickkosasih/Allin/internal/statistics"
)

var (
	consoleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	consoleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	consoleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

const consoleHelp = `commands:
  list clients | list rooms
  create [CODE...]
  start CODE
  addbot CODE STRATEGY [NAME]
  stats CODE
  count
  shutdown`

// Console is the operator prompt of a running server.
type Console struct {
	srv *Server
	in  io.Reader
	out io.Writer
}

func NewConsole(srv *Server, in io.Reader, out io.Writer) *Console {
	return &Console{srv: srv, in: in, out: out}
}

// Run executes commands until shutdown, the end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if c.Exec(line) {
				return nil
			}
		}
	}
}

// Exec runs one command line. It reports whether the server was shut down.
func (c *Console) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "list":
		if len(args) != 1 {
			c.fail("usage: list <clients|rooms>")
			return false
		}
		switch args[0] {
		case "clients":
			c.listClients()
		case "rooms":
			c.listRooms()
		default:
			c.fail("usage: list <clients|rooms>")
		}
	case "create":
		if len(args) == 0 {
			args = []string{"AAAA", "AAAB"}
		}
		for _, code := range args {
			if _, err := c.srv.CreateRoom(code); err != nil {
				c.fail(err.Error())
				continue
			}
			c.printf("created room %s\n", code)
		}
	case "start":
		if len(args) != 1 {
			c.fail("usage: start CODE")
			return false
		}
		rm, err := c.srv.Registry().Get(args[0])
		if err == nil {
			err = rm.Start()
		}
		if err != nil {
			c.fail(err.Error())
			return false
		}
		c.printf("started room %s\n", args[0])
	case "addbot":
		if len(args) < 2 {
			c.fail("usage: addbot CODE STRATEGY [NAME]")
			return false
		}
		name := strings.Join(args[2:], " ")
		if err := c.srv.AddBot(args[0], args[1], name); err != nil {
			c.fail(err.Error())
			return false
		}
		c.printf("bot added to %s\n", args[0])
	case "stats":
		if len(args) != 1 {
			c.fail("usage: stats CODE")
			return false
		}
		c.showStats(args[0])
	case "count":
		c.printf("%d clients connected\n", len(c.srv.Sessions()))
	case "shutdown":
		c.printf("shutting down\n")
		c.srv.Shutdown()
		return true
	case "help":
		c.printf("%s\n", consoleHelp)
	default:
		c.fail("invalid command, try help")
	}
	return false
}

func (c *Console) listClients() {
	sessions := c.srv.Sessions()
	c.printf("%s\n", consoleHeader.Render(fmt.Sprintf("%d clients connected", len(sessions))))
	for i, sess := range sessions {
		room := sess.RoomCode()
		if room == "" {
			room = consoleMuted.Render("-")
		}
		c.printf("%d. %s  %s  room %s\n", i+1, sess.RemoteAddr(), sess.Name(), room)
	}
}

func (c *Console) listRooms() {
	rooms := c.srv.Registry().List()
	c.printf("%s\n", consoleHeader.Render(fmt.Sprintf("%d active rooms", len(rooms))))
	for _, r := range rooms {
		state := "waiting"
		if r.Running {
			state = fmt.Sprintf("hand %d", r.Hands)
		}
		c.printf("%s: %d/%d players, %d queued, %d spectating, %s\n",
			r.Code, r.Players, r.Capacity, r.Queued, r.Spectators, state)
	}
}

func (c *Console) showStats(code string) {
	rm, err := c.srv.Registry().Get(code)
	if err != nil {
		c.fail(err.Error())
		return
	}
	stats, err := rm.Stats()
	if err != nil {
		c.fail(err.Error())
		return
	}
	if len(stats) == 0 {
		c.printf("%s\n", consoleMuted.Render("no hands played in "+code))
		return
	}
	c.printf("%s\n%s\n", consoleHeader.Render("room "+code), statistics.Render(stats))
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) fail(msg string) {
	c.printf("%s\n", consoleError.Render(msg))
}
