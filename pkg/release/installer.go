package release

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shipway/pkg/executor"
	"github.com/arthur-debert/shipway/pkg/identity"
	"github.com/arthur-debert/shipway/pkg/logging"
	"github.com/arthur-debert/shipway/pkg/paths"
)

// Installer deploys a packaged release: it extracts the archive into a
// fresh timestamped directory and repoints the current link at it.
type Installer struct {
	paths  paths.Paths
	owner  identity.Credentials
	exec   executor.Executor
	logger zerolog.Logger

	// now is the clock; overridable in tests
	now func() time.Time
}

// NewInstaller creates an installer for the resolved deployment layout
func NewInstaller(p paths.Paths, owner identity.Credentials, exec executor.Executor) *Installer {
	return &Installer{
		paths:  p,
		owner:  owner,
		exec:   exec,
		logger: logging.GetLogger("release.installer"),
		now:    time.Now,
	}
}

// Install performs one deploy and returns the new release identifier.
//
// Extraction fully completes before the current link is touched, so the
// link never references a partially extracted release. If extraction
// fails after the release directory was created, the orphaned directory
// is left on disk for manual cleanup; there is no multi-step undo.
func (i *Installer) Install() (string, error) {
	archivePath, err := i.paths.ArchivePath()
	if err != nil {
		return "", err
	}

	id := NewID(i.now())
	releaseDir := i.paths.ReleasePath(id)

	i.logger.Info().
		Str("release", id).
		Str("archive", archivePath).
		Msg("Deploying release")

	if err := i.exec.CreateDir(releaseDir, i.owner, 0755); err != nil {
		return "", err
	}

	if err := i.exec.ExtractArchive(archivePath, releaseDir); err != nil {
		return "", err
	}

	if err := i.exec.Symlink(releaseDir, i.paths.CurrentPath); err != nil {
		return "", err
	}

	i.logger.Info().Str("release", id).Msg("Release deployed")
	return id, nil
}
