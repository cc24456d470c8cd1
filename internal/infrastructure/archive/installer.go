// Package archive extracts downloaded plugin archives onto the filesystem.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
)

// Installer implements ports.ArchiveInstaller for zip archives.
type Installer struct{}

// NewInstaller creates an archive installer.
func NewInstaller() *Installer {
	return &Installer{}
}

// Install extracts archive into targetDir, creating parent directories as
// needed and overwriting existing files in place, so reinstalling the same
// archive is safe without a clean target. Directory entries are skipped;
// file entries imply their parents.
func (i *Installer) Install(archive []byte, targetDir string) error {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrArchiveFormat, err)
	}

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(entry, targetDir); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(entry *zip.File, targetDir string) error {
	target := filepath.Join(targetDir, filepath.FromSlash(entry.Name))

	// Reject entries that would escape the target directory.
	if !strings.HasPrefix(target, filepath.Clean(targetDir)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: unsafe entry path %q", domain.ErrArchiveFormat, entry.Name)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return domain.IOError(filepath.Dir(target), err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("%w: entry %q: %v", domain.ErrArchiveFormat, entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return domain.IOError(target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return domain.IOError(target, err)
	}
	if err := dst.Close(); err != nil {
		return domain.IOError(target, err)
	}

	return restoreMode(entry, target)
}

// restoreMode applies the archive entry's unix permission bits to the
// extracted file. On platforms without unix modes this is a no-op.
func restoreMode(entry *zip.File, target string) error {
	mode := entry.Mode() & os.ModePerm
	if mode == 0 || entry.CreatorVersion>>8 != zipCreatorUnix {
		return nil
	}
	if err := setPermissions(target, mode); err != nil {
		return domain.IOError(target, err)
	}
	return nil
}

// zipCreatorUnix is the "version made by" host byte for unix archives; only
// those record meaningful permission bits.
const zipCreatorUnix = 3
