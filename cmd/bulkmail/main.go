// Package main is the entry point for the bulkmail utility.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/soniachalia9-maker/bulkmail/internal/app"
	"github.com/soniachalia9-maker/bulkmail/internal/config"
	"github.com/soniachalia9-maker/bulkmail/internal/console"
	"github.com/soniachalia9-maker/bulkmail/internal/stats"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML configuration file")
	statsPath := flag.String("stats", stats.DefaultPath, "path to the statistics file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigCh
		fmt.Println("\nProgram interrupted. Goodbye!")
		os.Exit(0)
	}()

	a := app.New(cfg, *configPath, *statsPath, console.NewTerminal())
	if err := a.Run(ctx); err != nil {
		slog.Error("session error", "error", err)
		os.Exit(1)
	}
}

// setupLogger configures the global slog logger. Logs go to stderr so
// the interactive dialogue on stdout stays clean.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
