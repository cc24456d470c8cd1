// Package config loads the registries file describing which plugins to
// keep synchronized.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
)

// registryConfig is one top-level table of the TOML file. "prefix" is the
// historical name for the URL template; "regular" is the current one.
type registryConfig struct {
	Regular  string            `toml:"regular"`
	Prefix   string            `toml:"prefix"`
	Version  string            `toml:"version"`
	Download string            `toml:"download"`
	List     map[string]string `toml:"list"`
}

// Load reads the TOML registries file at path and builds one Registry per
// complete table. Tables missing the template or either path descriptor
// are skipped with a warning rather than failing the run; only an
// unreadable or unparsable file is fatal.
func Load(path, installDir string, logger hclog.Logger) ([]domain.Registry, error) {
	var tables map[string]registryConfig
	if _, err := toml.DecodeFile(path, &tables); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var registries []domain.Registry
	for _, name := range names {
		table := tables[name]

		template := table.Regular
		if template == "" {
			template = table.Prefix
		}
		if template == "" || table.Version == "" || table.Download == "" {
			logger.Warn("skipping registry with missing information", "registry", name)
			continue
		}

		registry := domain.Registry{
			Name: name,
			Spec: domain.NewRegistrySpec(template, table.Version, table.Download, installDir),
		}

		pluginNames := make([]string, 0, len(table.List))
		for pluginName := range table.List {
			pluginNames = append(pluginNames, pluginName)
		}
		sort.Strings(pluginNames)
		for _, pluginName := range pluginNames {
			registry.Plugins = append(registry.Plugins, domain.PluginEntry{
				Name:       pluginName,
				RemotePath: table.List[pluginName],
			})
		}

		registries = append(registries, registry)
	}

	return registries, nil
}

// ExpandPath resolves a leading "~/" or "$HOME/" against the user's home
// directory so the core only ever sees absolute paths.
func ExpandPath(path string) string {
	var rest string
	switch {
	case strings.HasPrefix(path, "~/"):
		rest = path[2:]
	case strings.HasPrefix(path, "$HOME/"):
		rest = path[len("$HOME/"):]
	default:
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
