package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/hedgehog/internal/cli"
	"github.com/alexanderramin/hedgehog/internal/config"
	"github.com/alexanderramin/hedgehog/internal/llm"
	"github.com/alexanderramin/hedgehog/internal/metrics"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap/zapcore"
)

// version is set with -ldflags "-X main.version=...".
var version string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if cfg.LLM.LogCalls {
		level.SetLevel(min(level.Level(), zapcore.InfoLevel))
	}
	logger := cli.NewLogger(os.Stderr, level)
	defer logger.Sync()

	// Wire metrics and call observers
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	observers := llm.MultiObserver{m}
	if cfg.LLM.LogCalls {
		observers = append(observers, llm.NewLogObserver(logger))
	}

	app := &cli.App{
		Config:   cfg,
		Logger:   logger,
		Client:   llm.NewOllamaClient(cfg.LLM, observers),
		Metrics:  m,
		Registry: reg,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		// Detect interactive terminal for the preview surface.
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		OpenBrowser: cli.DefaultOpenBrowser,
		Version:     version,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
