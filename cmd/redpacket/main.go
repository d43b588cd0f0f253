package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/redpacket/internal/cli"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
