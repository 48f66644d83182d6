package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdejongh/codecompass/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand()
	return cli.ExitCode(rootCmd.ExecuteContext(ctx), os.Stderr)
}
