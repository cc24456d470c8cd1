package domain

import "strings"

// placeholder splits a URL template into the prefix and suffix surrounding
// a plugin's remote path.
const placeholder = "{}"

// RegistrySpec describes one configured registry: where to ask for plugin
// metadata, where inside the JSON response the version and download URL
// live, and where extracted plugins land on disk. A spec is immutable after
// construction and shared read-only by every update unit of its registry.
type RegistrySpec struct {
	URLPrefix    string
	URLSuffix    string
	VersionPath  PathDescriptor
	DownloadPath PathDescriptor
	InstallDir   string
}

// NewRegistrySpec builds a spec from a raw URL template and dot-separated
// version/download descriptors. A "{}" marker in the template splits it
// into prefix and suffix; without the marker the template is all prefix.
func NewRegistrySpec(template, versionPath, downloadPath, installDir string) RegistrySpec {
	prefix, suffix, _ := strings.Cut(template, placeholder)
	return RegistrySpec{
		URLPrefix:    prefix,
		URLSuffix:    suffix,
		VersionPath:  ParsePathDescriptor(versionPath),
		DownloadPath: ParsePathDescriptor(downloadPath),
		InstallDir:   installDir,
	}
}

// MetadataURL builds the metadata request URL for a plugin's remote path.
func (s RegistrySpec) MetadataURL(remotePath string) string {
	return s.URLPrefix + remotePath + s.URLSuffix
}

// PluginEntry is one row of a registry's plugin list.
type PluginEntry struct {
	Name       string
	RemotePath string
}

// Registry couples a named registry spec with its configured plugin
// entries. The configuration is expected to hold at most one entry per
// plugin name; concurrent units for the same name are not supported.
type Registry struct {
	Name    string
	Spec    RegistrySpec
	Plugins []PluginEntry
}

// PathDescriptor is an ordered key sequence locating a value inside a JSON
// document; see jsonpath.Resolve for the walk semantics.
type PathDescriptor []string

// ParsePathDescriptor splits a dot-separated descriptor into its keys.
func ParsePathDescriptor(s string) PathDescriptor {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

func (p PathDescriptor) String() string {
	return strings.Join(p, ".")
}

// OutcomeStatus is the terminal state of one update unit.
type OutcomeStatus string

const (
	StatusSkipped   OutcomeStatus = "skipped"
	StatusInstalled OutcomeStatus = "installed"
	StatusOutdated  OutcomeStatus = "outdated" // dry-run only
	StatusFailed    OutcomeStatus = "failed"
)

// Outcome records how one (registry, plugin) unit ended. Installed and
// Latest are populated when the corresponding lookup succeeded; Err is set
// only for StatusFailed.
type Outcome struct {
	Registry  string
	Plugin    string
	Status    OutcomeStatus
	Installed *Version
	Latest    *Version
	Err       error
}

// Fail returns a copy of the outcome marked failed with err.
func (o Outcome) Fail(err error) Outcome {
	o.Status = StatusFailed
	o.Err = err
	return o
}
