package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/movelens/internal/cli"
	"github.com/vytor/movelens/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.Root()
	root.SetArgs(os.Args[1:])
	err := root.ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
