package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the update pipeline. Callers branch on these with
// errors.Is; the wrap chain carries the URL, manifest path or archive
// target that failed.
var (
	ErrNetwork        = errors.New("network request failed")
	ErrContentType    = errors.New("unexpected content type")
	ErrParse          = errors.New("malformed document")
	ErrPathNotFound   = errors.New("path not found in document")
	ErrValueType      = errors.New("unexpected value type")
	ErrManifestFormat = errors.New("malformed manifest")
	ErrVersionFormat  = errors.New("malformed version")
	ErrArchiveFormat  = errors.New("malformed archive")
	ErrIO             = errors.New("io failure")
)

// NetworkError wraps a transport or HTTP status failure for url.
func NetworkError(url string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrNetwork, url, cause)
}

// ContentTypeError reports a non-JSON response from url.
func ContentTypeError(url, contentType string) error {
	return fmt.Errorf("%w: %s returned %q", ErrContentType, url, contentType)
}

// PathNotFoundError reports that the named descriptor could not be walked.
func PathNotFoundError(which string, cause error) error {
	return fmt.Errorf("%w: %s path: %v", ErrPathNotFound, which, cause)
}

// ValueTypeError reports a JSON leaf of the wrong type under the named
// descriptor.
func ValueTypeError(which string, value any) error {
	return fmt.Errorf("%w: %s path resolved to %T, want string", ErrValueType, which, value)
}

// ManifestFormatError reports a structurally invalid manifest at path.
func ManifestFormatError(path, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrManifestFormat, path, reason)
}

// VersionFormatError wraps a version parse failure for raw.
func VersionFormatError(raw string, cause error) error {
	return fmt.Errorf("%w: %q: %v", ErrVersionFormat, raw, cause)
}

// IOError wraps a filesystem failure at path.
func IOError(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrIO, path, cause)
}
