// Package main is the entrypoint for the dbinit CLI.
// dbinit creates a database, runs a SQL script against it once and exits.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/canonica-labs/dbinit/internal/cli"
)

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New().ExecuteContext(ctx)
	stop()

	os.Exit(code)
}
