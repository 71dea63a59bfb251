package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/italolelis/ena_downloader/internal/config"
	"github.com/italolelis/ena_downloader/internal/ena"
	"github.com/italolelis/ena_downloader/internal/logctx"
	"github.com/italolelis/ena_downloader/internal/pipeline"
	"github.com/italolelis/ena_downloader/internal/storage"
	"github.com/italolelis/ena_downloader/internal/storage/sqlite"
	"github.com/italolelis/ena_downloader/internal/telemetry"
	"github.com/italolelis/ena_downloader/internal/transfer"
	"github.com/italolelis/ena_downloader/internal/transfer/ascp"
	"github.com/italolelis/ena_downloader/internal/transfer/ftp"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "ena_downloader",
		Usage:     "download sequencing reads from the ENA by accession",
		ArgsUsage: "<accession>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "outdir",
				Value: ".",
				Usage: "output directory for the downloaded read files",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "print debug information",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("download failed", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one accession argument, got %d", c.NArg())
	}

	accession := c.Args().First()
	outDir := c.String("outdir")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	level := cfg.SlogLevel()
	if c.Bool("debug") {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// An interrupt aborts the in-flight transfer attempt; scratch space is
	// still cleaned up on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logctx.WithLogger(ctx, logger)

	logger.Info("ena downloader starting...",
		"accession", accession,
		"out_dir", outDir,
		"transfer_mode", cfg.TransferMode,
	)

	// =========================================================================
	// Start Telemetry
	tel, err := telemetry.New(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: "ena_downloader",
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}

	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down telemetry", "err", err)
		}
	}()

	// =========================================================================
	// Start Transfer Backend
	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return fmt.Errorf("failed to build transfer backend: %w", err)
	}

	engine := transfer.NewEngine(
		transfer.NewInstrumentedFetcher(fetcher, tel, cfg.TransferMode),
		cfg.AttemptTimeout,
		cfg.MaxAttempts,
		cfg.RetryInterval,
	)

	// =========================================================================
	// Start Ledger
	var ledger storage.Ledger

	if cfg.LedgerPath != "" {
		database, err := sqlite.InitDB(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("ledger error: %w", err)
		}
		defer database.Close()

		ledger = sqlite.NewDownloadRepository(database)
	}

	// =========================================================================
	// Run Pipeline
	resolver := ena.NewClient(cfg.PortalBaseURL, cfg.RequestTimeout)

	p := pipeline.New(resolver, engine, ledger, tel)

	if err := p.Run(ctx, accession, outDir); err != nil {
		return err
	}

	logger.Info("download complete", "accession", accession, "out_dir", outDir)

	return nil
}

// This is an abstract factory for the transfer backend.
func buildFetcher(cfg *config.Config) (transfer.Fetcher, error) {
	switch cfg.TransferMode {
	case "ftp":
		return ftp.NewClient(cfg.FTPAddr), nil
	case "ascp":
		return ascp.NewClient(cfg.Ascp.Binary, cfg.Ascp.KeyFile, cfg.Ascp.Rate, cfg.Ascp.Port), nil
	}

	return nil, fmt.Errorf("invalid transfer mode: %s", cfg.TransferMode)
}
