package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
	"github.com/TiceCosmos/theia-update-plugins/internal/core/ports"
)

// fakeResolver serves canned (version, url) pairs keyed by remote path.
type fakeResolver struct {
	versions map[string]domain.Version
	urls     map[string]string
	errs     map[string]error
}

func (f *fakeResolver) Resolve(_ context.Context, remotePath string) (domain.Version, string, error) {
	if err := f.errs[remotePath]; err != nil {
		return domain.Version{}, "", err
	}
	return f.versions[remotePath], f.urls[remotePath], nil
}

// fakeReader serves installed versions keyed by plugin name.
type fakeReader struct {
	installed map[string]*domain.Version
	errs      map[string]error
}

func (f *fakeReader) Read(_ context.Context, _, name string) (*domain.Version, error) {
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.installed[name], nil
}

// fakeDownloader records which URLs were fetched.
type fakeDownloader struct {
	mu      sync.Mutex
	fetched []string
	errs    map[string]error
}

func (f *fakeDownloader) Download(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	f.fetched = append(f.fetched, url)
	return []byte("archive:" + url), nil
}

// fakeInstaller records which targets received an install.
type fakeInstaller struct {
	mu      sync.Mutex
	targets []string
	errs    map[string]error
}

func (f *fakeInstaller) Install(_ []byte, targetDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[targetDir]; err != nil {
		return err
	}
	f.targets = append(f.targets, targetDir)
	return nil
}

func v(major, minor, patch uint64) domain.Version {
	return domain.Version{Major: major, Minor: minor, Patch: patch}
}

func vp(major, minor, patch uint64) *domain.Version {
	version := v(major, minor, patch)
	return &version
}

func newService(resolver ports.VersionResolver, reader ports.ManifestReader, downloader ports.Downloader, installer ports.ArchiveInstaller, opts ...Option) *SyncService {
	factory := func(domain.RegistrySpec) ports.VersionResolver { return resolver }
	return NewSyncService(factory, reader, downloader, installer, hclog.NewNullLogger(), opts...)
}

func singleRegistry(plugins ...domain.PluginEntry) []domain.Registry {
	return []domain.Registry{{
		Name:    "open-vsx",
		Spec:    domain.NewRegistrySpec("https://open-vsx.org/api/{}", "version", "download", "/plugins"),
		Plugins: plugins,
	}}
}

// TestSyncService_OutcomePerState tests the terminal state of a unit for
// each compare result
func TestSyncService_OutcomePerState(t *testing.T) {
	tests := []struct {
		name           string
		installed      *domain.Version
		latest         domain.Version
		expectedStatus domain.OutcomeStatus
		expectDownload bool
		description    string
	}{
		{
			name:           "EqualVersions_Skipped",
			installed:      vp(1, 2, 3),
			latest:         v(1, 2, 3),
			expectedStatus: domain.StatusSkipped,
			description:    "Installed equal to latest skips without downloading",
		},
		{
			name:           "NotInstalled_Installed",
			installed:      nil,
			latest:         v(1, 2, 3),
			expectedStatus: domain.StatusInstalled,
			expectDownload: true,
			description:    "Absent installed version triggers a fresh install",
		},
		{
			name:           "OlderInstalled_Installed",
			installed:      vp(1, 0, 0),
			latest:         v(1, 2, 3),
			expectedStatus: domain.StatusInstalled,
			expectDownload: true,
			description:    "Older installed version triggers an upgrade",
		},
		{
			name:           "NewerInstalled_StillReinstalled",
			installed:      vp(2, 0, 0),
			latest:         v(1, 2, 3),
			expectedStatus: domain.StatusInstalled,
			expectDownload: true,
			description:    "Only strict equality skips; a numerically greater local version is reinstalled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{
				versions: map[string]domain.Version{"rust-lang/rust": tt.latest},
				urls:     map[string]string{"rust-lang/rust": "https://cdn/rust.vsix"},
			}
			reader := &fakeReader{installed: map[string]*domain.Version{"vscode-rust": tt.installed}}
			downloader := &fakeDownloader{}
			installer := &fakeInstaller{}

			service := newService(resolver, reader, downloader, installer)
			outcomes := service.Run(context.Background(),
				singleRegistry(domain.PluginEntry{Name: "vscode-rust", RemotePath: "rust-lang/rust"}))

			require.Len(t, outcomes, 1)
			outcome := outcomes[0]
			assert.Equal(t, tt.expectedStatus, outcome.Status, tt.description)
			assert.Equal(t, "vscode-rust", outcome.Plugin)
			assert.NoError(t, outcome.Err)

			if tt.expectDownload {
				assert.Equal(t, []string{"https://cdn/rust.vsix"}, downloader.fetched, tt.description)
				assert.Equal(t, []string{"/plugins/vscode-rust"}, installer.targets, "archive extracts into the plugin's own subdirectory")
			} else {
				assert.Empty(t, downloader.fetched, "no download should be attempted: %s", tt.description)
				assert.Empty(t, installer.targets)
			}
		})
	}
}

// TestSyncService_FailuresAreIsolated verifies one failing unit never
// affects the others
func TestSyncService_FailuresAreIsolated(t *testing.T) {
	resolver := &fakeResolver{
		versions: map[string]domain.Version{"a/path": v(1, 0, 0), "c/path": v(3, 0, 0)},
		urls:     map[string]string{"a/path": "https://cdn/a", "c/path": "https://cdn/c"},
		errs:     map[string]error{"b/path": domain.NetworkError("https://registry/b", errors.New("connection refused"))},
	}
	reader := &fakeReader{
		errs: map[string]error{"plugin-d": domain.IOError("/plugins/plugin-d", errors.New("permission denied"))},
	}
	downloader := &fakeDownloader{}
	installer := &fakeInstaller{}

	service := newService(resolver, reader, downloader, installer)
	outcomes := service.Run(context.Background(), singleRegistry(
		domain.PluginEntry{Name: "plugin-a", RemotePath: "a/path"},
		domain.PluginEntry{Name: "plugin-b", RemotePath: "b/path"},
		domain.PluginEntry{Name: "plugin-c", RemotePath: "c/path"},
		domain.PluginEntry{Name: "plugin-d", RemotePath: "a/path"},
	))

	require.Len(t, outcomes, 4)
	byPlugin := make(map[string]domain.Outcome)
	for _, outcome := range outcomes {
		byPlugin[outcome.Plugin] = outcome
	}

	assert.Equal(t, domain.StatusInstalled, byPlugin["plugin-a"].Status)
	assert.Equal(t, domain.StatusInstalled, byPlugin["plugin-c"].Status)

	assert.Equal(t, domain.StatusFailed, byPlugin["plugin-b"].Status)
	assert.ErrorIs(t, byPlugin["plugin-b"].Err, domain.ErrNetwork)

	assert.Equal(t, domain.StatusFailed, byPlugin["plugin-d"].Status)
	assert.ErrorIs(t, byPlugin["plugin-d"].Err, domain.ErrIO,
		"an unreadable manifest is an I/O failure, not a fresh install")
}

// TestSyncService_DownloadAndInstallFailures tests the Failed outcome for
// the install phase
func TestSyncService_DownloadAndInstallFailures(t *testing.T) {
	resolver := &fakeResolver{
		versions: map[string]domain.Version{"a/path": v(1, 0, 0), "b/path": v(1, 0, 0)},
		urls:     map[string]string{"a/path": "https://cdn/a", "b/path": "https://cdn/b"},
	}
	downloader := &fakeDownloader{
		errs: map[string]error{"https://cdn/a": domain.NetworkError("https://cdn/a", errors.New("timeout"))},
	}
	installer := &fakeInstaller{
		errs: map[string]error{"/plugins/plugin-b": domain.IOError("/plugins/plugin-b/file", errors.New("disk full"))},
	}

	service := newService(resolver, &fakeReader{}, downloader, installer)
	outcomes := service.Run(context.Background(), singleRegistry(
		domain.PluginEntry{Name: "plugin-a", RemotePath: "a/path"},
		domain.PluginEntry{Name: "plugin-b", RemotePath: "b/path"},
	))

	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.StatusFailed, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[0].Err, domain.ErrNetwork)
	assert.Equal(t, domain.StatusFailed, outcomes[1].Status)
	assert.ErrorIs(t, outcomes[1].Err, domain.ErrIO)
}

// TestSyncService_DryRunNeverDownloads verifies dry-run reports outdated
// plugins without touching the network or the filesystem
func TestSyncService_DryRunNeverDownloads(t *testing.T) {
	resolver := &fakeResolver{
		versions: map[string]domain.Version{"a/path": v(2, 0, 0)},
		urls:     map[string]string{"a/path": "https://cdn/a"},
	}
	downloader := &fakeDownloader{}
	installer := &fakeInstaller{}

	service := newService(resolver, &fakeReader{installed: map[string]*domain.Version{"plugin-a": vp(1, 0, 0)}},
		downloader, installer, WithDryRun(true))
	outcomes := service.Run(context.Background(),
		singleRegistry(domain.PluginEntry{Name: "plugin-a", RemotePath: "a/path"}))

	require.Len(t, outcomes, 1)
	assert.Equal(t, domain.StatusOutdated, outcomes[0].Status)
	assert.Empty(t, downloader.fetched)
	assert.Empty(t, installer.targets)
}

// TestSyncService_ConcurrentMatchesSequential verifies N parallel units
// produce the same per-plugin outcomes as running them one at a time
func TestSyncService_ConcurrentMatchesSequential(t *testing.T) {
	const plugins = 20

	build := func() ([]domain.Registry, *fakeResolver, *fakeReader) {
		resolver := &fakeResolver{versions: map[string]domain.Version{}, urls: map[string]string{}, errs: map[string]error{}}
		reader := &fakeReader{installed: map[string]*domain.Version{}}
		var entries []domain.PluginEntry
		for i := 0; i < plugins; i++ {
			name := fmt.Sprintf("plugin-%02d", i)
			path := fmt.Sprintf("remote/%02d", i)
			entries = append(entries, domain.PluginEntry{Name: name, RemotePath: path})
			switch i % 3 {
			case 0: // up to date
				resolver.versions[path] = v(1, 0, 0)
				resolver.urls[path] = "https://cdn/" + name
				reader.installed[name] = vp(1, 0, 0)
			case 1: // outdated
				resolver.versions[path] = v(2, 0, 0)
				resolver.urls[path] = "https://cdn/" + name
				reader.installed[name] = vp(1, 0, 0)
			default: // resolver failure
				resolver.errs[path] = domain.NetworkError("https://registry/"+name, errors.New("boom"))
			}
		}
		return singleRegistry(entries...), resolver, reader
	}

	statuses := func(concurrency int) []domain.OutcomeStatus {
		registries, resolver, reader := build()
		service := newService(resolver, reader, &fakeDownloader{}, &fakeInstaller{},
			WithConcurrency(concurrency))
		outcomes := service.Run(context.Background(), registries)
		require.Len(t, outcomes, plugins)
		result := make([]domain.OutcomeStatus, len(outcomes))
		for i, outcome := range outcomes {
			result[i] = outcome.Status
		}
		return result
	}

	sequential := statuses(1)
	parallel := statuses(0)
	assert.Equal(t, sequential, parallel,
		"per-plugin outcomes should not depend on scheduling")
}
