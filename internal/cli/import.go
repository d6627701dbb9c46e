package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"kviz/internal/config"
	"kviz/internal/infra/jsonl"
	pgloader "kviz/internal/infra/postgres"
	"kviz/internal/infra/sqlite"

	"github.com/spf13/cobra"
)

// NewImportCmd loads a line-record question file into the configured database.
func NewImportCmd(configPath *string) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "import <questions.jsonl>",
		Short: "Import questions into Postgres or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cfg, target, args[0])
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "postgres or sqlite (default: whichever is configured, postgres first)")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, target, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	questions, err := jsonl.Decode(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(questions) == 0 {
		return fmt.Errorf("no valid questions in %s", path)
	}

	if target == "" {
		target = "sqlite"
		if cfg.Postgres.URL != "" {
			target = "postgres"
		}
	}

	var n int
	switch target {
	case "postgres":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		db := pgloader.OpenDB(cfg.Postgres.URL)
		defer db.Close()
		n, err = pgloader.InsertQuestions(ctx, db, questions)
	case "sqlite":
		dbPath := cfg.SQLite.Path
		if dbPath == "" {
			dbPath = "kviz.db"
		}
		store, openErr := sqlite.Open(dbPath)
		if openErr != nil {
			return openErr
		}
		defer store.Close()
		n, err = store.Insert(ctx, questions)
	default:
		return fmt.Errorf("unknown import target %q", target)
	}
	if err != nil {
		return err
	}
	log.Printf("imported %d questions from %s into %s", n, path, target)
	return nil
}
