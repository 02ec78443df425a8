package cmd

import (
	"fmt"
	"log"

	"github.com/SheepYY039/snipeit-netbox/core/config"
	"github.com/SheepYY039/snipeit-netbox/core/logger"
	"github.com/SheepYY039/snipeit-netbox/core/netbox"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagLockField bool

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Provision the linkage custom field in NetBox",
	Long: `Ensures the integer custom field the sync relies on exists in
NetBox and covers every synced content type. Safe to run repeatedly;
an existing field is updated in place.`,
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

		client := netbox.NewClient(cfg.Netbox)
		if err := client.EnsureLinkageField(cmd.Context(), flagLockField); err != nil {
			return fmt.Errorf("provisioning linkage field: %w", err)
		}

		logg.Info("linkage field is in place",
			zap.String("field", netbox.LinkageField),
			zap.Bool("locked", flagLockField),
		)
		return nil
	},
}

func init() {
	bootstrapCmd.Flags().BoolVar(&flagLockField, "lock", false,
		"mark the field read-only in the NetBox UI")
	RootCmd.AddCommand(bootstrapCmd)
}
