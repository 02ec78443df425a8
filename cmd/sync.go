package cmd

import (
	"fmt"
	"log"

	"github.com/SheepYY039/snipeit-netbox/core/config"
	"github.com/SheepYY039/snipeit-netbox/core/database"
	"github.com/SheepYY039/snipeit-netbox/core/logger"
	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"
	"github.com/SheepYY039/snipeit-netbox/core/storage"
	"github.com/SheepYY039/snipeit-netbox/feature/journal"
	"github.com/SheepYY039/snipeit-netbox/feature/report"
	"github.com/SheepYY039/snipeit-netbox/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagAllowUpdates bool
	flagAllowLinking bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass",
	Long: `Reads the full Snipe-IT inventory and mirrors it into NetBox.
A pass only creates missing records unless --allow-linking or
--allow-updates permit touching existing ones. Passes are idempotent
and safe to re-run after a failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// Command line flags win over environment configuration
		if cmd.Flags().Changed("allow-updates") {
			cfg.Sync.AllowUpdates = flagAllowUpdates
		}
		if cmd.Flags().Changed("allow-linking") {
			cfg.Sync.AllowLinking = flagAllowLinking
		}

		source := snipe.NewClient(cfg.Snipe)
		target := sync.NewTarget(netbox.NewClient(cfg.Netbox))

		syncer := sync.New(source, target, cfg.Sync, logg)
		ctx := cmd.Context()

		rep, runErr := syncer.Run(ctx)
		if runErr != nil {
			logg.Error("sync pass failed", zap.Error(runErr))
		}

		// Journal and archive are best effort: a pass that synced must not
		// be reported as failed because persisting its paperwork failed.
		if cfg.Database.Enabled() {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("journal database connection failed", zap.Error(err))
			} else if recorder, err := journal.NewRecorder(db); err != nil {
				logg.Warn("journal setup failed", zap.Error(err))
			} else if err := recorder.Record(ctx, rep, runErr); err != nil {
				logg.Warn("recording run in journal failed", zap.Error(err))
			}
		}

		if cfg.Storage.Enabled() {
			if store, err := storage.NewClient(cfg.Storage); err != nil {
				logg.Warn("storage client creation failed", zap.Error(err))
			} else {
				archiver := report.NewArchiver(store, cfg.Storage.Bucket, logg)
				if err := archiver.EnsureBucket(ctx); err != nil {
					logg.Warn("report bucket setup failed", zap.Error(err))
				} else if _, err := archiver.Store(ctx, rep); err != nil {
					logg.Warn("archiving report failed", zap.Error(err))
				}
			}
		}

		return runErr
	},
}

func init() {
	syncCmd.Flags().BoolVar(&flagAllowUpdates, "allow-updates", false,
		"apply field changes to already linked records")
	syncCmd.Flags().BoolVar(&flagAllowLinking, "allow-linking", false,
		"stamp the linkage key on records matched by name")
	RootCmd.AddCommand(syncCmd)
}
