package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tapnode/internal/config"
	"tapnode/internal/console"
	"tapnode/internal/engine"
	"tapnode/internal/loader"
	"tapnode/internal/logbus"
	"tapnode/internal/logging"
	"tapnode/internal/provider/tapnode"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to config.yaml (optional)")
	flag.Parse()

	os.Exit(run(*configPath))
}

// bootLogger reports failures that happen before the configured logger exists.
func bootLogger() *zap.Logger {
	logger, err := logging.New(config.Default().Log.Level)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		boot := bootLogger()
		boot.Error("load config", zap.String("path", configPath), zap.Error(err))
		_ = boot.Sync()
		return 1
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		boot := bootLogger()
		boot.Error("init logger", zap.Error(err))
		_ = boot.Sync()
		return 1
	}
	defer func() { _ = logger.Sync() }()

	bus := logbus.New(200)
	stopForward := logging.Forward(bus, logger)
	defer bus.Close()
	defer stopForward()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prov := tapnode.New(cfg.Provider, cfg.Limits, bus, logger)
	eng := engine.New(engine.Options{
		Provider: prov,
		Loader: loader.FileLoader{
			TokensPath:  cfg.Files.Tokens,
			ProxiesPath: cfg.Files.Proxies,
		},
		Bus:          bus,
		Console:      console.Stdout(),
		Tasks:        cfg.Tasks,
		TokensSource: cfg.Files.Tokens,
	})

	sum, err := eng.Run(ctx)
	switch {
	case errors.Is(err, engine.ErrNoTokens):
		return 1
	case errors.Is(err, context.Canceled):
		logger.Warn("run interrupted", zap.Stringer("summary", sum))
		return 130
	case err != nil:
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	logger.Info("run complete", zap.Stringer("summary", sum))
	return 0
}
