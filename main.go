package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"dataprep/internal/config"
	"dataprep/internal/etl"
	_ "dataprep/internal/etl/formats" // register input formats
	"dataprep/internal/logging"
	"dataprep/internal/warehouse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dataprep:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real env vars still win via envconfig.
	godotenv.Load()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.Setup(cfg.Logging)

	db, err := warehouse.New(cfg.StorePath)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline := &etl.Pipeline{
		Fetcher: etl.NewFetcher(cfg.StagingDir),
		Loader:  warehouse.NewLoader(db),
		Runs:    warehouse.NewRunLogStore(db),
		Log:     log,
	}

	// Datasets run strictly in order; the first failure aborts the run.
	ctx := context.Background()
	for _, ds := range cfg.Datasets {
		if _, err := pipeline.Run(ctx, ds.Job()); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
	}

	log.Info("all datasets loaded",
		slog.Int("datasets", len(cfg.Datasets)),
		slog.String("store", cfg.StorePath))
	return nil
}
