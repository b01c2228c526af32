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
		fmt.Fprintf(os.Stderr, "gcrobot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultRobotConfig()
	if len(os.Args) > 1 {
		loaded, err := config.LoadRobotConfig(os.Args[1])
		if err != nil {
			return err
		}
		cfg = loaded
	}
	logger := observability.InitLogger("gcrobot")

	sender, err := transport.Dial(cfg.TargetAddr)
	if err != nil {
		return err
	}
	defer sender.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Uint8("team", cfg.Team).
		Uint8("player", cfg.Player).
		Str("message", cfg.Message.String()).
		Msg("sending return packets")
	return sim.RunRobot(ctx, cfg, sender, logger)
}
