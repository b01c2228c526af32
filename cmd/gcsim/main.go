package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/gcproto/internal/config"
	"github.com/danmuck/gcproto/internal/observability"
	"github.com/danmuck/gcproto/internal/sim"
	"github.com/danmuck/gcproto/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gcsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultSimConfig()
	if len(os.Args) > 1 {
		loaded, err := config.LoadSimConfig(os.Args[1])
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logger := observability.InitLogger("gcsim")

	sender, err := transport.Dial(cfg.TargetAddr)
	if err != nil {
		return err
	}
	defer sender.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("target", cfg.TargetAddr).
		Dur("interval", cfg.Interval).
		Str("state", cfg.State.String()).
		Msg("broadcasting game state")
	return sim.RunController(ctx, cfg, sender, logger)
}
