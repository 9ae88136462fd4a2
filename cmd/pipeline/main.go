// Command pipeline runs the full batch: flatten, extract, chapter mapping,
// user enrichment, payload building and finalization.
//
// Lookup data comes from the endpoints in the URIS.json registry, or from
// local snapshot files when the -chapters-file / -users-file /
// -beneficiary-file flags are set (all three must be set together).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"apucli/internal/apiclient"
	"apucli/internal/config"
	"apucli/internal/exporter"
	"apucli/internal/infrastructure"
	"apucli/internal/operations"
)

func main() {
	configFile := flag.String("config", "", "optional YAML configuration file")
	chaptersFile := flag.String("chapters-file", "", "local chapters JSON instead of the get_chapters endpoint")
	usersFile := flag.String("users-file", "", "local users JSON instead of the get_users endpoint")
	beneficiaryFile := flag.String("beneficiary-file", "", "local beneficiary JSON instead of the get_beneficiary endpoint")
	budgetID := flag.String("budget-id", "", "budget id applied to every file")
	budgetMap := flag.String("budget-map", "", "JSON file mapping output file names to budget ids")
	template := flag.String("template", "budget_payload", "payload template name in the registry")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	state := operations.NewState(operations.NewRunID(), *cfg)
	state.TemplateName = *template

	registry, err := apiclient.LoadRegistry(cfg.Paths.URISFile)
	if err != nil {
		logger.Error("failed to load endpoint registry", "error", err)
		os.Exit(1)
	}
	state.Registry = registry

	offline := *chaptersFile != "" || *usersFile != "" || *beneficiaryFile != ""
	if offline {
		if *chaptersFile == "" || *usersFile == "" || *beneficiaryFile == "" {
			logger.Error("offline mode needs -chapters-file, -users-file and -beneficiary-file together")
			os.Exit(1)
		}
		state.Lookup = &apiclient.FileLookup{
			ChaptersPath:    *chaptersFile,
			UsersPath:       *usersFile,
			BeneficiaryPath: *beneficiaryFile,
		}
	} else {
		state.Lookup = apiclient.New(registry, apiclient.Options{
			Token:             cfg.HTTP.AuthToken,
			Headers:           cfg.HTTP.Headers,
			Timeout:           cfg.HTTP.Timeout,
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
			Burst:             cfg.HTTP.Burst,
		})
	}

	if *budgetID != "" {
		state.BudgetID = parseBudgetID(*budgetID)
	}
	if *budgetMap != "" {
		var perFile map[string]any
		if err := exporter.ReadJSON(*budgetMap, &perFile); err != nil {
			logger.Error("failed to read budget map", "error", err)
			os.Exit(1)
		}
		state.BudgetMap = perFile
	}

	manager := operations.NewManager(operations.DefaultSteps(), logger)
	if err := manager.RunWithState(context.Background(), state); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

// parseBudgetID keeps numeric ids numeric so they serialize without quotes,
// matching what the endpoints return.
func parseBudgetID(s string) any {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	return s
}
