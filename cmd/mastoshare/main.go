package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config    string `short:"c" help:"Path to a JSONC config file (default: $MASTOSHARE_CONFIG or $XDG_CONFIG_HOME/mastoshare/config.jsonc)" type:"path"`
	LogLevel  string `help:"Log level: Debug, Info, Warn or Error" enum:",Debug,Info,Warn,Error" default:""`
	Ephemeral bool   `help:"Keep preferences in memory for this run only"`
}

var CLI struct {
	Globals

	Share   ShareCmd   `cmd:"" help:"Share a post on your Mastodon server"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a Mastodon user ID to its profile URL"`
	Prefs   PrefsCmd   `cmd:"" help:"Show or change saved preferences"`
	Serve   ServeCmd   `cmd:"" help:"Serve the share and reset pages on a loopback address"`
}

func main() {
	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx := kong.Parse(&CLI,
		kong.Name("mastoshare"),
		kong.Description("Share posts to your own Mastodon server"),
		kong.UsageOnError(),
		kong.BindTo(appCtx, (*context.Context)(nil)),
	)

	err := ctx.Run(&CLI.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
