package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/gcproto/internal/config"
	"github.com/danmuck/gcproto/internal/monitor"
	"github.com/danmuck/gcproto/internal/observability"
	"github.com/gin-gonic/gin"
)

const defaultConfigPath = "gcmonitor.toml"

func main() {
	if err := run(configPath(os.Args)); err != nil {
		fmt.Fprintf(os.Stderr, "gcmonitor: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	logger := observability.InitLogger(cfg.Name)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("listen", cfg.ListenAddr).
		Str("returns", cfg.ReturnAddr).
		Str("http", cfg.HTTPAddr).
		Msg("gcmonitor starting")
	return monitor.New(cfg, logger).Run(ctx)
}

// loadConfig falls back to defaults when the default path is absent.
func loadConfig(path string) (config.MonitorConfig, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.DefaultMonitorConfig(), nil
		}
	}
	return config.LoadMonitorConfig(path)
}

func configPath(args []string) string {
	if len(args) > 1 && args[1] != "" {
		return args[1]
	}
	return defaultConfigPath
}
