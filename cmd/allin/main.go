package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Debug   bool `help:"Enable debug logging" env:"ALLIN_DEBUG"`
	LogJSON bool `name:"json" help:"Output JSON logs instead of console format" env:"ALLIN_LOG_JSON"`
}

type CLI struct {
	Globals

	Server   ServerCmd   `cmd:"" help:"Run the game server"`
	Bot      BotCmd      `cmd:"" help:"Connect a bot to a room on a running server"`
	Simulate SimulateCmd `cmd:"" help:"Play bots against each other offline"`
	Version  VersionCmd  `cmd:"" help:"Show version"`
}

type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Println(version)
	return nil
}

func main() {
	// Values from .env feed the env tags below; real environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("allin"),
		kong.Description("Texas Hold'em game server and network bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
