package main

import (
	"errors"

	"github.com/spf13/cobra"

	"asset-grader/services"
	"asset-grader/storage"
)

var (
	importCSV   string
	importClear bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a corpus CSV export into PostgreSQL",
	Long: `Reads a marketplace export, cleans every record and upserts the result
into the listings table. Records without an id or url are dropped.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importCSV, "csv", "", "Corpus CSV export (defaults to CORPUS_CSV_PATH)")
	importCmd.Flags().BoolVar(&importClear, "clear", false, "Delete stored listings before importing")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := importCSV
	if path == "" {
		path = cfg.CorpusCSVPath
	}
	if path == "" {
		return errors.New("no corpus file: pass --csv or set CORPUS_CSV_PATH")
	}

	raw, err := storage.NewCSVReader(path).ReadRaw()
	if err != nil {
		return err
	}
	logger.Info("Read %d raw records from %s", len(raw), path)

	listings := services.NewCleaner(logger).Clean(raw)
	if len(listings) == 0 {
		return errors.New("all records were dropped during cleaning")
	}

	store, err := storage.NewPostgresStore(ctx, cfg.DSN(), retryConfig(cfg))
	if err != nil {
		logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		return err
	}
	defer store.Close()

	if importClear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		logger.Info("Cleared stored listings")
	}

	if err := store.Write(ctx, listings); err != nil {
		return err
	}
	logger.Info("Stored %d listings in PostgreSQL (table: listings)", len(listings))
	return nil
}
