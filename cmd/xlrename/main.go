package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tahirov/xlrename/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}
