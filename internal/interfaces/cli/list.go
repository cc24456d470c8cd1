package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/TiceCosmos/theia-update-plugins/internal/infrastructure/config"
	"github.com/TiceCosmos/theia-update-plugins/internal/infrastructure/manifest"
	"github.com/TiceCosmos/theia-update-plugins/internal/logging"
)

// NewListCommand creates the list command showing configured plugins and
// their installed versions.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show configured plugins and their installed versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	debug, _ := cmd.Flags().GetBool("debug")
	configPath, _ := cmd.Flags().GetString("config")
	targetDir, _ := cmd.Flags().GetString("target")

	logger := logging.New(debug)

	registries, err := config.Load(config.ExpandPath(configPath), config.ExpandPath(targetDir), logger)
	if err != nil {
		return err
	}

	reader := manifest.NewReader()

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Registry", "Plugin", "Remote path", "Installed"})

	for _, reg := range registries {
		for _, entry := range reg.Plugins {
			installed := "-"
			version, err := reader.Read(cmd.Context(), reg.Spec.InstallDir, entry.Name)
			switch {
			case err != nil:
				installed = fmt.Sprintf("error: %v", err)
			case version != nil:
				installed = version.String()
			}
			t.AppendRow(table.Row{reg.Name, entry.Name, entry.RemotePath, installed})
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
