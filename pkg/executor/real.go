package executor

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shipway/pkg/archive"
	"github.com/arthur-debert/shipway/pkg/errors"
	"github.com/arthur-debert/shipway/pkg/identity"
	"github.com/arthur-debert/shipway/pkg/logging"
	"github.com/arthur-debert/shipway/pkg/types"
)

// Real is the Executor that actually mutates the filesystem and runs
// subprocesses.
type Real struct {
	fs     types.FS
	logger zerolog.Logger
}

// NewReal creates an executor backed by the given filesystem
func NewReal(fs types.FS) *Real {
	return &Real{
		fs:     fs,
		logger: logging.GetLogger("executor.real"),
	}
}

// CreateDir creates path with parents, then reasserts ownership and mode.
// Safe to call repeatedly on an existing directory.
func (e *Real) CreateDir(path string, owner identity.Credentials, mode os.FileMode) error {
	e.logger.Debug().Str("path", path).Str("owner", owner.String()).Msg("Creating directory")

	if err := e.fs.MkdirAll(path, mode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", path)
	}
	return e.OwnPath(path, owner, mode)
}

// OwnPath sets ownership and permission bits on an existing path
func (e *Real) OwnPath(path string, owner identity.Credentials, mode os.FileMode) error {
	if err := e.fs.Chown(path, owner.UID, owner.GID); err != nil {
		return errors.Wrapf(err, errors.ErrOwnership, "failed to chown %s to %s", path, owner)
	}
	if err := e.fs.Chmod(path, mode); err != nil {
		return errors.Wrapf(err, errors.ErrOwnership, "failed to chmod %s to %o", path, mode)
	}
	return nil
}

// WriteFile writes data and applies ownership and mode
func (e *Real) WriteFile(path string, data []byte, owner identity.Credentials, mode os.FileMode) error {
	e.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Writing file")

	if err := e.fs.WriteFile(path, data, mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return e.OwnPath(path, owner, mode)
}

// Symlink points link at target, removing an existing link first
func (e *Real) Symlink(target, link string) error {
	e.logger.Debug().Str("target", target).Str("link", link).Msg("Repointing symlink")

	if _, err := e.fs.Lstat(link); err == nil {
		if err := e.fs.Remove(link); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to remove existing link %s", link)
		}
	}
	if err := e.fs.Symlink(target, link); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s -> %s", link, target)
	}
	return nil
}

// ExtractArchive unpacks src into dest
func (e *Real) ExtractArchive(src, dest string) error {
	e.logger.Info().Str("archive", src).Str("dest", dest).Msg("Extracting release archive")
	return archive.ExtractTarGz(e.fs, src, dest)
}

// Run executes a subprocess, blocking until it completes. Output is
// surfaced to the console and the log.
func (e *Real) Run(name string, args ...string) error {
	e.logger.Info().Str("command", name).Strs("args", args).Msg("Executing command")

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if stdout.Len() > 0 {
		fmt.Print(stdout.String())
	}
	if stderr.Len() > 0 {
		fmt.Fprint(os.Stderr, stderr.String())
	}

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("command", name).
			Str("stderr", stderr.String()).
			Msg("Command execution failed")
		return errors.Wrapf(err, errors.ErrCommandRun, "command failed: %s", name)
	}

	return nil
}
