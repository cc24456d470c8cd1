// Package registry resolves the latest published version of a plugin from
// a remote registry's JSON metadata endpoint.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
	"github.com/TiceCosmos/theia-update-plugins/internal/core/jsonpath"
)

// Getter performs a GET and returns body bytes plus the declared content
// type.
type Getter interface {
	Get(ctx context.Context, url string) (body []byte, contentType string, err error)
}

// Resolver implements ports.VersionResolver against one registry spec.
type Resolver struct {
	spec   domain.RegistrySpec
	client Getter
}

// NewResolver creates a resolver for spec using client for transport.
func NewResolver(spec domain.RegistrySpec, client Getter) *Resolver {
	return &Resolver{spec: spec, client: client}
}

// Resolve fetches the registry metadata for remotePath and extracts the
// latest version and its download URL. No retries; a failed attempt is
// terminal for the calling unit.
func (r *Resolver) Resolve(ctx context.Context, remotePath string) (domain.Version, string, error) {
	url := r.spec.MetadataURL(remotePath)

	body, contentType, err := r.client.Get(ctx, url)
	if err != nil {
		return domain.Version{}, "", err
	}
	if !isJSON(contentType) {
		return domain.Version{}, "", domain.ContentTypeError(url, contentType)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.Version{}, "", fmt.Errorf("%w: %s: %v", domain.ErrParse, url, err)
	}

	rawVersion, err := jsonpath.Resolve(doc, r.spec.VersionPath)
	if err != nil {
		return domain.Version{}, "", domain.PathNotFoundError("version", err)
	}
	rawDownload, err := jsonpath.Resolve(doc, r.spec.DownloadPath)
	if err != nil {
		return domain.Version{}, "", domain.PathNotFoundError("download", err)
	}

	versionStr, ok := rawVersion.(string)
	if !ok {
		return domain.Version{}, "", domain.ValueTypeError("version", rawVersion)
	}
	downloadURL, ok := rawDownload.(string)
	if !ok {
		return domain.Version{}, "", domain.ValueTypeError("download", rawDownload)
	}

	version, err := domain.ParseVersion(versionStr)
	if err != nil {
		return domain.Version{}, "", domain.VersionFormatError(versionStr, err)
	}

	return version, downloadURL, nil
}

// isJSON accepts application/json and any +json media type suffix.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
