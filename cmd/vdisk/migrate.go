package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/vdisk/config"
	"github.com/sagarc03/vdisk/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the download statistics schema",
	Long: `Create the tables used for download statistics and validate them.

Migrations are idempotent. serve runs them too when statistics are enabled;
use this command to prepare a database ahead of time.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("drop", false, "drop the statistics tables instead of creating them")
	rootCmd.AddCommand(migrateCmd)
}

// dropper is implemented by backends that own tables.
type dropper interface {
	DropTables(ctx context.Context) error
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if !cfg.Stats.Enabled() {
		return errors.New("migrate: download statistics are disabled (set stats.type)")
	}

	ctx := cmd.Context()

	db, err := database.Connect(ctx, cfg.Stats)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("migrate: ping %s: %w", cfg.Stats.Type, err)
	}

	if drop, _ := cmd.Flags().GetBool("drop"); drop {
		d, ok := db.(dropper)
		if !ok {
			return fmt.Errorf("migrate: %s has no tables to drop", cfg.Stats.Type)
		}
		if err := d.DropTables(ctx); err != nil {
			return fmt.Errorf("migrate: drop: %w", err)
		}
		slog.Info("statistics tables dropped", "type", cfg.Stats.Type, "table", cfg.Stats.Tables.Downloads)
		return nil
	}

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Validate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	slog.Info("database migration complete", "type", cfg.Stats.Type, "table", cfg.Stats.Tables.Downloads)
	return nil
}
