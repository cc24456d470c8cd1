// Package manifest reads the installed version of a plugin from its
// extension.vsixmanifest file.
package manifest

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
)

// ManifestName is the descriptor each extracted plugin carries at its root.
const ManifestName = "extension.vsixmanifest"

// Reader implements ports.ManifestReader over the local filesystem.
type Reader struct{}

// NewReader creates a manifest reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read returns the installed version of name under installDir, or nil when
// the plugin is not installed yet. A missing file or directory is the
// normal first-install state, never an error; any other read failure is
// surfaced as an IOError.
func (r *Reader) Read(_ context.Context, installDir, name string) (*domain.Version, error) {
	path := filepath.Join(installDir, name, ManifestName)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.IOError(path, err)
	}
	defer f.Close()

	raw, err := scanIdentityVersion(f)
	if err != nil {
		return nil, domain.ManifestFormatError(path, err.Error())
	}

	version, err := domain.ParseVersion(raw)
	if err != nil {
		return nil, domain.VersionFormatError(raw, err)
	}
	return &version, nil
}

// scanIdentityVersion makes a single forward pass over the XML stream and
// returns the Version attribute of the first self-closing Identity element.
// Only one attribute of one element is ever needed, so no document tree is
// built and scanning stops at the first match.
func scanIdentityVersion(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return "", errors.New("no Identity element with a Version attribute")
		}
		if err != nil {
			return "", err
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "Identity" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "Version" {
				return attr.Value, nil
			}
		}
		return "", errors.New("Identity element has no Version attribute")
	}
}
