package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TiceCosmos/theia-update-plugins/internal/application/services"
	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
	"github.com/TiceCosmos/theia-update-plugins/internal/core/ports"
	"github.com/TiceCosmos/theia-update-plugins/internal/infrastructure/archive"
	"github.com/TiceCosmos/theia-update-plugins/internal/infrastructure/config"
	"github.com/TiceCosmos/theia-update-plugins/internal/infrastructure/httpclient"
	"github.com/TiceCosmos/theia-update-plugins/internal/infrastructure/manifest"
	"github.com/TiceCosmos/theia-update-plugins/internal/infrastructure/registry"
	"github.com/TiceCosmos/theia-update-plugins/internal/logging"
)

// NewSyncCommand creates the sync command, the main entry point of the
// updater.
func NewSyncCommand() *cobra.Command {
	var concurrency int
	var dryRun bool

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Install or upgrade every configured plugin",
		Long: `Sync resolves the latest published version of every plugin listed in the
registries config, compares it with the locally installed version, and
downloads and extracts whatever differs. Already up-to-date plugins are
skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, concurrency, dryRun)
		},
	}

	syncCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum parallel plugin updates (0 = unlimited)")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and report without downloading or installing")

	return syncCmd
}

func runSync(cmd *cobra.Command, concurrency int, dryRun bool) error {
	debug, _ := cmd.Flags().GetBool("debug")
	configPath, _ := cmd.Flags().GetString("config")
	targetDir, _ := cmd.Flags().GetString("target")

	logger := logging.New(debug)

	registries, err := config.Load(config.ExpandPath(configPath), config.ExpandPath(targetDir), logger)
	if err != nil {
		return err
	}
	if len(registries) == 0 {
		logger.Warn("no registries configured", "config", configPath)
		return nil
	}

	client := httpclient.New()
	service := services.NewSyncService(
		func(spec domain.RegistrySpec) ports.VersionResolver {
			return registry.NewResolver(spec, client)
		},
		manifest.NewReader(),
		client,
		archive.NewInstaller(),
		logger,
		services.WithConcurrency(concurrency),
		services.WithDryRun(dryRun),
	)

	outcomes := service.Run(cmd.Context(), registries)
	fmt.Fprintln(cmd.OutOrStdout(), renderOutcomes(outcomes))

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Status == domain.StatusFailed {
			failed++
			logger.Error("plugin update failed", "registry", outcome.Registry, "plugin", outcome.Plugin, "error", outcome.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d plugin updates failed", failed, len(outcomes))
	}
	return nil
}
