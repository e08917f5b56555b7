// Package main runs the account-settings coordinator as a CLI: trigger
// events are read from stdin as JSON lines and every applied event is
// written to stdout together with the resulting state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viant/settingsflow"
	"github.com/viant/settingsflow/internal/logger"
)

func main() {
	var configURL string
	var idleCheck time.Duration
	flag.StringVar(&configURL, "config", "", "config URL (file path, file://, mem://, ...)")
	flag.DurationVar(&idleCheck, "idle-check", 20*time.Millisecond, "interval of the idle check after stdin EOF")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, configURL, idleCheck); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configURL string, idleCheck time.Duration) error {
	cfg, err := loadConfig(ctx, configURL)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	out := newPrinter(os.Stdout)
	srv, err := settingsflow.New(cfg, settingsflow.WithLogger(log), settingsflow.WithListener(out.print))
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()
	return serve(ctx, srv, os.Stdin, idleCheck)
}

func loadConfig(ctx context.Context, configURL string) (*settingsflow.Config, error) {
	if configURL != "" {
		return settingsflow.LoadConfig(ctx, configURL)
	}
	cfg := settingsflow.DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
