// Command extract flattens the input directory and converts every quotation
// workbook found there into a consecutively numbered JSON document.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"apucli/internal/config"
	"apucli/internal/infrastructure"
	"apucli/internal/operations"
)

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	inDir := flag.String("in", "", "input directory with .xlsx workbooks (overrides config)")
	outDir := flag.String("out", "", "output directory for JSON documents (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inDir != "" {
		cfg.Paths.InputDir = *inDir
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	manager := operations.NewManager(operations.ExtractSteps(), logger)
	state, err := manager.Run(context.Background(), *cfg)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	logger.Info("extraction finished",
		slog.Int("workbooks", state.Count("workbooks")),
		slog.Int("extracted", state.Count("extracted")),
		slog.Int("failures", state.Count("extract_failures")))
}
