// Package ports defines the interfaces between the update pipeline and its
// infrastructure implementations.
package ports

import (
	"context"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
)

// VersionResolver fetches the latest published version and download URL for
// a plugin's remote path.
type VersionResolver interface {
	Resolve(ctx context.Context, remotePath string) (domain.Version, string, error)
}

// ManifestReader reads the installed version of a plugin from its on-disk
// manifest. A nil version with a nil error means the plugin is not
// installed yet.
type ManifestReader interface {
	Read(ctx context.Context, installDir, name string) (*domain.Version, error)
}

// ArchiveInstaller extracts a downloaded archive into a target directory,
// overwriting existing files in place.
type ArchiveInstaller interface {
	Install(archive []byte, targetDir string) error
}

// Downloader fetches raw bytes from a URL, following redirects.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
