package main

import (
	"context"
	"os"
	"os/signal"

	"gastocerto/internal/commands"
	"gastocerto/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logger.Sync()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
