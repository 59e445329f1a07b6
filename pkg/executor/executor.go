// Package executor performs the filesystem and subprocess side effects of
// a deployment.
//
// The execute-or-print decision is made once per invocation by choosing
// an Executor implementation: Real performs the operations, DryRun only
// prints the equivalent shell commands. Components receive the chosen
// Executor and never branch on a mode flag themselves.
package executor

import (
	"os"

	"github.com/arthur-debert/shipway/pkg/identity"
)

// Executor carries out deployment side effects
type Executor interface {
	// CreateDir ensures path exists (parents included) with the given
	// ownership and mode. Idempotent: an existing directory is not an
	// error, and ownership is unconditionally reasserted.
	CreateDir(path string, owner identity.Credentials, mode os.FileMode) error

	// OwnPath reasserts ownership and mode on an existing path
	OwnPath(path string, owner identity.Credentials, mode os.FileMode) error

	// WriteFile writes data to path with the given ownership and mode
	WriteFile(path string, data []byte, owner identity.Credentials, mode os.FileMode) error

	// Symlink points link at target, replacing an existing link first
	Symlink(target, link string) error

	// ExtractArchive unpacks the tar.gz archive at src into dest
	ExtractArchive(src, dest string) error

	// Run executes a subprocess and waits for it to finish
	Run(name string, args ...string) error
}
