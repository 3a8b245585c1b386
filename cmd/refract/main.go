package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/andreicstoica/refract/internal/cli"
	"github.com/andreicstoica/refract/internal/embedding"
	"github.com/andreicstoica/refract/internal/intelligence"
	"github.com/andreicstoica/refract/internal/llm"
	"github.com/andreicstoica/refract/internal/service"
	"github.com/andreicstoica/refract/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.refract/refract.db
	dbPath := os.Getenv("REFRACT_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".refract", "refract.db")
	}

	database, err := store.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	snapshots := store.NewStore(database)

	// Model-backed services only when generation is enabled; otherwise prods
	// are silently skipped and themes fall back to generic labels.
	llmCfg := llm.LoadConfig()
	var prodSvc intelligence.ProdService = intelligence.NoopProdService{}
	var themeSvc intelligence.ThemeService = intelligence.FallbackThemeService{}
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		client := llm.NewClient(llmCfg, observer)
		prodSvc = intelligence.NewProdService(client, llmCfg.ConfidenceThreshold)
		themeSvc = intelligence.NewThemeService(client)
	}

	// Embedding-backed analysis is gated on the credential being present;
	// without it the pipeline degrades instead of issuing doomed calls.
	var embedder embedding.Embedder = embedding.Disabled{}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		embedder = embedding.NewClient(key)
	}
	analysis := service.NewAnalysis(service.DefaultAnalysisConfig(), embedder, themeSvc, snapshots)

	app := &cli.App{
		Prod:     prodSvc,
		Analysis: analysis,
		IsTTY: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
