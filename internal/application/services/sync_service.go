// Package services orchestrates the plugin update pipeline.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/TiceCosmos/theia-update-plugins/internal/core/domain"
	"github.com/TiceCosmos/theia-update-plugins/internal/core/ports"
)

// ResolverFactory builds a version resolver bound to one registry spec.
type ResolverFactory func(spec domain.RegistrySpec) ports.VersionResolver

// SyncService runs one update unit per (registry, plugin) pair and
// aggregates the outcomes. Failures are isolated: a failed unit never
// cancels or marks failed any other unit.
type SyncService struct {
	newResolver ResolverFactory
	reader      ports.ManifestReader
	downloader  ports.Downloader
	installer   ports.ArchiveInstaller
	logger      hclog.Logger

	concurrency int
	dryRun      bool
}

// Option configures a SyncService.
type Option func(*SyncService)

// WithConcurrency bounds the number of simultaneously running units;
// zero means unlimited.
func WithConcurrency(n int) Option {
	return func(s *SyncService) { s.concurrency = n }
}

// WithDryRun resolves and compares versions but skips download and
// install; units that would install report StatusOutdated instead.
func WithDryRun(dryRun bool) Option {
	return func(s *SyncService) { s.dryRun = dryRun }
}

// NewSyncService creates a sync service from its collaborators.
func NewSyncService(
	newResolver ResolverFactory,
	reader ports.ManifestReader,
	downloader ports.Downloader,
	installer ports.ArchiveInstaller,
	logger hclog.Logger,
	opts ...Option,
) *SyncService {
	s := &SyncService{
		newResolver: newResolver,
		reader:      reader,
		downloader:  downloader,
		installer:   installer,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run updates every configured plugin of every registry and returns one
// outcome per unit, sorted by registry then plugin name. Units across
// registries and names run fully in parallel with no ordering guarantee.
func (s *SyncService) Run(ctx context.Context, registries []domain.Registry) []domain.Outcome {
	var group errgroup.Group
	if s.concurrency > 0 {
		group.SetLimit(s.concurrency)
	}

	results := make(chan domain.Outcome)
	done := make(chan struct{})
	var outcomes []domain.Outcome
	go func() {
		for outcome := range results {
			outcomes = append(outcomes, outcome)
		}
		close(done)
	}()

	for _, registry := range registries {
		registry := registry
		resolver := s.newResolver(registry.Spec)
		for _, entry := range registry.Plugins {
			entry := entry
			group.Go(func() error {
				results <- s.update(ctx, registry, resolver, entry)
				return nil
			})
		}
	}

	group.Wait()
	close(results)
	<-done

	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].Registry != outcomes[j].Registry {
			return outcomes[i].Registry < outcomes[j].Registry
		}
		return outcomes[i].Plugin < outcomes[j].Plugin
	})
	return outcomes
}

// update is one unit. The manifest read and the remote resolve run
// concurrently and are joined before the compare step.
func (s *SyncService) update(ctx context.Context, registry domain.Registry, resolver ports.VersionResolver, entry domain.PluginEntry) domain.Outcome {
	outcome := domain.Outcome{Registry: registry.Name, Plugin: entry.Name}
	logger := s.logger.With("registry", registry.Name, "plugin", entry.Name)

	var installed *domain.Version
	var readErr error
	readDone := make(chan struct{})
	go func() {
		installed, readErr = s.reader.Read(ctx, registry.Spec.InstallDir, entry.Name)
		close(readDone)
	}()

	latest, downloadURL, resolveErr := resolver.Resolve(ctx, entry.RemotePath)
	<-readDone

	if readErr != nil {
		return outcome.Fail(fmt.Errorf("read installed version: %w", readErr))
	}
	outcome.Installed = installed
	if resolveErr != nil {
		return outcome.Fail(fmt.Errorf("resolve latest version: %w", resolveErr))
	}
	outcome.Latest = &latest

	// Strict equality is the only skip condition. A locally greater
	// version is reinstalled so the tree tracks whatever the registry
	// currently publishes.
	if installed != nil && installed.Equal(latest) {
		logger.Debug("latest version already installed", "version", latest)
		outcome.Status = domain.StatusSkipped
		return outcome
	}

	if installed == nil {
		logger.Info("installing", "version", latest, "url", downloadURL)
	} else {
		logger.Info("upgrading", "from", installed, "to", latest, "url", downloadURL)
	}

	if s.dryRun {
		outcome.Status = domain.StatusOutdated
		return outcome
	}

	data, err := s.downloader.Download(ctx, downloadURL)
	if err != nil {
		return outcome.Fail(fmt.Errorf("download archive: %w", err))
	}

	target := filepath.Join(registry.Spec.InstallDir, entry.Name)
	if err := s.installer.Install(data, target); err != nil {
		return outcome.Fail(fmt.Errorf("install to %s: %w", target, err))
	}

	logger.Debug("installed", "version", latest)
	outcome.Status = domain.StatusInstalled
	return outcome
}
