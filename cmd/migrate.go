package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/photoid-studio/internal/migration"
	"github.com/frahmantamala/photoid-studio/pkg/logger"
)

var migrateCmd = &cobra.Command{
	RunE:  runMigration,
	Use:   "migrate",
	Short: "apply pending schema migrations (the startup gate for every other command)",
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	db, err := openDB(cfg.Database)
	if err != nil {
		log.Fatalf("migrate: failed to open store: %v", err)
	}

	engine, err := migration.NewEngine(db, logger.LoggerWrapper(), migration.All())
	if err != nil {
		log.Fatalf("migrate: invalid migration set: %v", err)
	}

	if migrateStatus {
		status, err := engine.Status(ctx)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		fmt.Printf("applied (%d):\n", len(status.Applied))
		for _, v := range status.Applied {
			fmt.Printf("  %s\n", v)
		}
		fmt.Printf("pending (%d):\n", len(status.Pending))
		for _, v := range status.Pending {
			fmt.Printf("  %s\n", v)
		}
		return nil
	}

	if migrateRollback != "" {
		if err := engine.Rollback(ctx, migrateRollback); err != nil {
			log.Fatalf("migrate rollback %s: %v", migrateRollback, err)
		}
		fmt.Printf("rolled back %s\n", migrateRollback)
		return nil
	}

	// A partially migrated schema must never serve the application, so
	// any failure here is fatal.
	if err := engine.ApplyAll(ctx); err != nil {
		log.Fatalf("migrate up: %v", err)
	}

	return nil
}
