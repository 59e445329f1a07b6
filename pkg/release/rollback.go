package release

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shipway/pkg/errors"
	"github.com/arthur-debert/shipway/pkg/executor"
	"github.com/arthur-debert/shipway/pkg/logging"
	"github.com/arthur-debert/shipway/pkg/paths"
	"github.com/arthur-debert/shipway/pkg/types"
)

// Rollback repoints the current link at the release immediately prior
// to the newest one.
//
// The newest entry under releases/ is assumed to be the release the
// current link points to. The link target is deliberately not read to
// verify this: correctness depends on the link never having been
// repointed by hand.
type Rollback struct {
	paths  paths.Paths
	fs     types.FS
	exec   executor.Executor
	logger zerolog.Logger
}

// NewRollback creates a rollback manager for the resolved layout
func NewRollback(p paths.Paths, fs types.FS, exec executor.Executor) *Rollback {
	return &Rollback{
		paths:  p,
		fs:     fs,
		exec:   exec,
		logger: logging.GetLogger("release.rollback"),
	}
}

// Run rolls back to the previous release and returns its identifier.
// With fewer than two releases present it performs no mutation and
// returns the empty string; that is a no-op, not an error.
func (r *Rollback) Run() (string, error) {
	ids, err := r.List()
	if err != nil {
		return "", err
	}

	if len(ids) < 2 {
		r.logger.Info().Int("releases", len(ids)).Msg("Nothing to roll back to")
		return "", nil
	}

	previous := ids[1]
	r.logger.Info().
		Str("from", ids[0]).
		Str("to", previous).
		Msg("Rolling back")

	if err := r.exec.Symlink(r.paths.ReleasePath(previous), r.paths.CurrentPath); err != nil {
		return "", err
	}

	return previous, nil
}

// List returns the release identifiers under releases/, newest first.
// Entries that don't look like release identifiers are ignored.
func (r *Rollback) List() ([]string, error) {
	entries, err := r.fs.ReadDir(r.paths.ReleasesPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list releases in %s", r.paths.ReleasesPath)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() && IsID(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}

	// Fixed-width timestamps: lexicographic descending is newest first
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}
