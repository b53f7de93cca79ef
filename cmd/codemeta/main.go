package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/codemeta/internal/cli"
	"github.com/matzehuels/codemeta/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	cancel()

	code := cli.ExitCode(err)
	switch {
	case err == nil, code == cli.ExitInterrupted, cli.Reported(err):
	default:
		fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
		if code == cli.ExitUsage {
			fmt.Fprintln(os.Stderr, "Run 'codemeta --help' for usage.")
		}
	}
	os.Exit(code)
}
