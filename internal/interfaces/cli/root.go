package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// NewRootCommand builds the base command for the updater.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "theia-update-plugins",
		Short: "Keep locally installed Theia plugins in sync with their registries",
		Long: `theia-update-plugins compares the plugins installed under a Theia
plugins directory against the versions published by the registries listed in
a TOML configuration file, and downloads and extracts whatever is missing or
out of date. Each plugin is handled independently; one failing plugin never
stops the rest.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nPlatform: %s/%s\n",
		BuildTime, runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "$HOME/.theia/plugins.toml", "Registries config file")
	rootCmd.PersistentFlags().StringP("target", "t", "$HOME/.theia/plugins", "Theia plugins directory")

	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewListCommand())

	return rootCmd
}

// Execute runs the root command under ctx and exits non-zero on failure.
// Cancelling ctx aborts all outstanding plugin updates.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
